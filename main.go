package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fbAuth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	activityrepo "github.com/dlfdnd96/kidari-teacher-sub001/activity/repository"
	activitysvc "github.com/dlfdnd96/kidari-teacher-sub001/activity/service"
	apprepo "github.com/dlfdnd96/kidari-teacher-sub001/application/repository"
	appsvc "github.com/dlfdnd96/kidari-teacher-sub001/application/service"
	authpkg "github.com/dlfdnd96/kidari-teacher-sub001/auth"
	authrepo "github.com/dlfdnd96/kidari-teacher-sub001/auth/repository"
	authsvc "github.com/dlfdnd96/kidari-teacher-sub001/auth/service"
	"github.com/dlfdnd96/kidari-teacher-sub001/config"
	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	api "github.com/dlfdnd96/kidari-teacher-sub001/handler"
	"github.com/dlfdnd96/kidari-teacher-sub001/landing"
	"github.com/dlfdnd96/kidari-teacher-sub001/metrics"
	mw "github.com/dlfdnd96/kidari-teacher-sub001/middleware"
	noticerepo "github.com/dlfdnd96/kidari-teacher-sub001/notice/repository"
	noticesvc "github.com/dlfdnd96/kidari-teacher-sub001/notice/service"
	"github.com/dlfdnd96/kidari-teacher-sub001/realtime"
	"github.com/dlfdnd96/kidari-teacher-sub001/rpc"
	userrepo "github.com/dlfdnd96/kidari-teacher-sub001/user/repository"
	usersvc "github.com/dlfdnd96/kidari-teacher-sub001/user/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := newLogger(cfg)

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func newLogger(cfg *config.Config) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	if cfg.LogFormat == "text" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		l.SetLevel(lvl)
	}
	return logrus.NewEntry(l).WithField("env", cfg.AppEnv)
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Entry) error {
	db, err := setupDatabase(cfg, log)
	if err != nil {
		return err
	}
	metrics.Register()
	if err := api.RegisterBindingValidations(); err != nil {
		return err
	}

	// social login is optional; without credentials the endpoint answers 503
	var verifier mw.IDTokenVerifier
	fb, err := authpkg.InitFirebaseAuth(ctx, cfg.FirebaseCredentials)
	if err != nil {
		return err
	}
	if fb != nil {
		verifier = fb
	} else {
		log.Warn("firebase credentials not set; social login disabled")
	}

	var cache landing.Cache
	if cfg.RedisURL != "" {
		rc, err := landing.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable; activity data is not cached")
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	hub := realtime.NewHub(log)
	tx := database.NewGormTransactor(db)

	// repositories + services
	authService := authsvc.NewAuthService(authrepo.NewGormAuthRepo(db), cfg.SessionSecret, log)
	noticeService := noticesvc.NewNoticeService(noticerepo.NewGormNoticeRepo(db), hub, log)
	activityService := activitysvc.NewActivityService(activityrepo.NewGormActivityRepo(db), log)
	applicationService := appsvc.NewApplicationService(apprepo.NewGormApplicationRepo(db), hub, log)
	userRepo := userrepo.NewGormUserRepo(db)
	userService := usersvc.NewUserService(userRepo, log)
	profileService := usersvc.NewProfileService(userRepo, log)

	server := rpc.NewServer(tx, log)
	noticeHandler := api.NewNoticeHandler(noticeService, tx)
	noticeHandler.Register(server)
	api.NewActivityHandler(activityService).Register(server)
	api.NewApplicationHandler(applicationService).Register(server)
	api.NewUserHandler(userService, profileService).Register(server)

	authHandler := api.NewAuthHandler(authService, cfg.SessionCookieSecure)
	testHandler := api.NewTestHandler(cfg.TestEndpointsEnabled(), authService, userrepo.NewGormPurger(db), tx, cfg.SessionCookieSecure, log)
	landingHandler := api.NewLandingHandler(landing.NewSource(cfg.ActivityDataURL, cache, log))
	wsHandler := api.NewWSHandler(hub, cfg.Origins())

	limiter := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	limiter.StartCleanup(5*time.Minute, ctx.Done())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), mw.Metrics(), mw.RequestLogger(log), mw.Session(cfg.SessionSecret, cfg.SessionCookieSecure, log))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		server.Routes(apiGroup.Group("/trpc", limiter.Handler()))

		notices := apiGroup.Group("/notice", mw.RequireRoles(entity.RoleAdmin))
		notices.PATCH("/:id", noticeHandler.UpdateNotice())
		notices.DELETE("/:id", noticeHandler.DeleteNotice())

		apiGroup.POST("/auth/firebase", mw.RequireFirebaseAuth(verifier), authHandler.FirebaseSignIn())
		apiGroup.GET("/auth/session", authHandler.CurrentSession())
		apiGroup.POST("/auth/signout", authHandler.SignOut())

		apiGroup.POST("/test/login", testHandler.Login())
		apiGroup.POST("/test/cleanup", testHandler.Cleanup())

		apiGroup.GET("/activity-data", landingHandler.ActivityData())
		apiGroup.GET("/ws", wsHandler.Socket())
	}

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           corsMiddleware.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("listening")
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}

// *fbAuth.Client is the production verifier.
var _ mw.IDTokenVerifier = (*fbAuth.Client)(nil)
