package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	fbAuth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authpkg "github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/landing"
	"github.com/dlfdnd96/kidari-teacher-sub001/middleware"
	"github.com/dlfdnd96/kidari-teacher-sub001/notice"
	"github.com/dlfdnd96/kidari-teacher-sub001/rpc"
)

const secret = "handler-secret"

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type passTx struct{ calls int }

func (p *passTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterBindingValidations())
	r := gin.New()
	r.Use(middleware.Session(secret, false, quietLog()))
	return r
}

func sessionCookie(t *testing.T, role entity.Role) *http.Cookie {
	t.Helper()
	token, err := authpkg.SignSession(secret, &authpkg.Session{UserID: uuid.New(), Name: "관리자", Email: "admin@example.com", Role: role}, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: token}
}

func do(r http.Handler, method, path, body string, cookie *http.Cookie, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestProcedureCatalogue(t *testing.T) {
	s := rpc.NewServer(&passTx{}, quietLog())
	NewNoticeHandler(nil, nil).Register(s)
	NewActivityHandler(nil).Register(s)
	NewApplicationHandler(nil).Register(s)
	NewUserHandler(nil, nil).Register(s)

	tiers := map[string]rpc.Tier{}
	kinds := map[string]rpc.Kind{}
	for _, p := range s.Procedures() {
		tiers[p.Name] = p.Tier
		kinds[p.Name] = p.Kind
	}

	want := map[string]rpc.Tier{
		"notice.list":                 rpc.Public,
		"notice.get":                  rpc.Public,
		"notice.create":               rpc.Admin,
		"notice.update":               rpc.Admin,
		"notice.delete":               rpc.Admin,
		"volunteerActivity.get":       rpc.Protected,
		"volunteerActivity.list":      rpc.Protected,
		"volunteerActivity.create":    rpc.Admin,
		"volunteerActivity.update":    rpc.Admin,
		"volunteerActivity.delete":    rpc.Admin,
		"application.get":             rpc.Protected,
		"application.list":            rpc.Protected,
		"application.getMine":         rpc.Protected,
		"application.create":          rpc.Protected,
		"application.delete":          rpc.Protected,
		"application.updateStatus":    rpc.Admin,
		"user.getCurrentUser":         rpc.Protected,
		"user.updateProfile":          rpc.Protected,
		"user.deleteAccount":          rpc.Protected,
		"userProfile.get":             rpc.Protected,
		"userProfile.getProfileStats": rpc.Protected,
		"userProfile.initialize":      rpc.Protected,
		"userProfile.create":          rpc.Protected,
		"userProfile.update":          rpc.Protected,
	}
	assert.Equal(t, want, tiers)
	assert.Equal(t, rpc.KindQuery, kinds["application.getMine"])
	assert.Equal(t, rpc.KindMutation, kinds["application.updateStatus"])
}

type fakeNotices struct {
	notice.Service
	updated *notice.UpdateRequest
	deleted uuid.UUID
	err     error
}

func (f *fakeNotices) Update(_ context.Context, req notice.UpdateRequest) (*entity.Notice, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = &req
	n := &entity.Notice{ID: req.ID, Title: "old"}
	if req.Title != nil {
		n.Title = *req.Title
	}
	return n, nil
}

func (f *fakeNotices) Delete(_ context.Context, id uuid.UUID) error {
	f.deleted = id
	return f.err
}

func noticeEngine(t *testing.T, svc notice.Service, tx *passTx) *gin.Engine {
	r := newEngine(t)
	h := NewNoticeHandler(svc, tx)
	g := r.Group("/api/notice", middleware.RequireRoles(entity.RoleAdmin))
	g.PATCH("/:id", h.UpdateNotice())
	g.DELETE("/:id", h.DeleteNotice())
	return r
}

func TestPatchNotice(t *testing.T) {
	svc := &fakeNotices{}
	tx := &passTx{}
	r := noticeEngine(t, svc, tx)
	id := uuid.New()

	w := do(r, http.MethodPatch, "/api/notice/"+id.String(), `{"title":"새 제목"}`, sessionCookie(t, entity.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, svc.updated)
	assert.Equal(t, id, svc.updated.ID)
	assert.Equal(t, "새 제목", *svc.updated.Title)
	assert.Nil(t, svc.updated.Content)
	assert.Equal(t, 1, tx.calls)
}

func TestPatchNoticeRejectsBadInput(t *testing.T) {
	svc := &fakeNotices{}
	r := noticeEngine(t, svc, &passTx{})
	admin := sessionCookie(t, entity.RoleAdmin)

	w := do(r, http.MethodPatch, "/api/notice/not-a-uuid", `{}`, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/api/notice/"+uuid.NewString(), `{"title":"   "}`, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", errorCode(t, w))
	assert.Nil(t, svc.updated)
}

func TestNoticeRoutesRequireAdmin(t *testing.T) {
	svc := &fakeNotices{}
	r := noticeEngine(t, svc, &passTx{})
	id := uuid.NewString()

	w := do(r, http.MethodDelete, "/api/notice/"+id, "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodDelete, "/api/notice/"+id, "", sessionCookie(t, entity.RoleUser), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, uuid.Nil, svc.deleted)
}

func TestDeleteNoticeMapsServiceErrors(t *testing.T) {
	svc := &fakeNotices{}
	r := noticeEngine(t, svc, &passTx{})
	id := uuid.New()

	w := do(r, http.MethodDelete, "/api/notice/"+id.String(), "", sessionCookie(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, svc.deleted)

	svc.err = errors.New("db down")
	w = do(r, http.MethodDelete, "/api/notice/"+id.String(), "", sessionCookie(t, entity.RoleAdmin), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

type fakeAuth struct {
	signedIn *authpkg.Identity
	role     entity.Role
}

func (f *fakeAuth) principal(email string, role entity.Role) (*authpkg.Principal, error) {
	s := authpkg.Session{UserID: uuid.New(), Email: email, Name: "홍길동", Role: role}
	token, err := authpkg.SignSession(secret, &s, time.Now())
	if err != nil {
		return nil, err
	}
	return &authpkg.Principal{Session: s, Token: token}, nil
}

func (f *fakeAuth) SignIn(_ context.Context, id authpkg.Identity) (*authpkg.Principal, error) {
	f.signedIn = &id
	return f.principal(id.Email, entity.RoleUser)
}

func (f *fakeAuth) TestSignIn(_ context.Context, role entity.Role) (*authpkg.Principal, error) {
	f.role = role
	return f.principal("cypress@test.local", role)
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(_ context.Context, token string) (*fbAuth.Token, error) {
	if token != "good" {
		return nil, errors.New("invalid token")
	}
	return &fbAuth.Token{UID: "uid-1", Claims: map[string]interface{}{"email": "hong@example.com", "name": "홍길동", "email_verified": true}}, nil
}

func authEngine(t *testing.T, svc authpkg.Service, verifier middleware.IDTokenVerifier) *gin.Engine {
	r := newEngine(t)
	h := NewAuthHandler(svc, false)
	r.POST("/api/auth/firebase", middleware.RequireFirebaseAuth(verifier), h.FirebaseSignIn())
	r.GET("/api/auth/session", h.CurrentSession())
	r.POST("/api/auth/signout", h.SignOut())
	return r
}

func findCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	return nil
}

func TestFirebaseSignInSetsSessionCookie(t *testing.T) {
	svc := &fakeAuth{}
	r := authEngine(t, svc, fakeVerifier{})

	w := do(r, http.MethodPost, "/api/auth/firebase", "", nil, map[string]string{"Authorization": "Bearer good"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, svc.signedIn)
	assert.Equal(t, "hong@example.com", svc.signedIn.Email)
	assert.True(t, svc.signedIn.EmailVerified)

	cookie := findCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	w = do(r, http.MethodGet, "/api/auth/session", "", cookie, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hong@example.com")
}

func TestFirebaseSignInFailures(t *testing.T) {
	w := do(authEngine(t, &fakeAuth{}, fakeVerifier{}), http.MethodPost, "/api/auth/firebase", "", nil, map[string]string{"Authorization": "Bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(authEngine(t, &fakeAuth{}, nil), http.MethodPost, "/api/auth/firebase", "", nil, map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSessionAndSignOut(t *testing.T) {
	r := authEngine(t, &fakeAuth{}, fakeVerifier{})

	w := do(r, http.MethodGet, "/api/auth/session", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"session":null}`, w.Body.String())

	w = do(r, http.MethodPost, "/api/auth/signout", "", sessionCookie(t, entity.RoleUser), nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := findCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, "", cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}

type fakePurger struct{ calls int }

func (f *fakePurger) PurgeTestAccounts(context.Context) (int64, error) {
	f.calls++
	return 3, nil
}

func testEngine(t *testing.T, enabled bool, svc authpkg.Service, purger *fakePurger, tx *passTx) *gin.Engine {
	r := newEngine(t)
	h := NewTestHandler(enabled, svc, purger, tx, false, quietLog())
	r.POST("/api/test/login", h.Login())
	r.POST("/api/test/cleanup", h.Cleanup())
	return r
}

func TestTestEndpointsHiddenWhenDisabled(t *testing.T) {
	purger := &fakePurger{}
	r := testEngine(t, false, &fakeAuth{}, purger, &passTx{})

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/test/login", `{"role":"ADMIN"}`, nil, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/api/test/cleanup", "", nil, nil).Code)
	assert.Zero(t, purger.calls)
}

func TestTestLoginAndCleanup(t *testing.T) {
	svc := &fakeAuth{}
	purger := &fakePurger{}
	tx := &passTx{}
	r := testEngine(t, true, svc, purger, tx)

	w := do(r, http.MethodPost, "/api/test/login", `{"role":"ADMIN"}`, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, entity.RoleAdmin, svc.role)
	assert.NotNil(t, findCookie(w))

	w = do(r, http.MethodPost, "/api/test/login", `{"role":"ROOT"}`, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/test/cleanup", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"deletedUsers":3}`, w.Body.String())
	assert.Equal(t, 1, purger.calls)
	assert.Equal(t, 1, tx.calls)
}

func landingEngine(t *testing.T, url string) *gin.Engine {
	r := newEngine(t)
	r.GET("/api/activity-data", NewLandingHandler(landing.NewSource(url, nil, quietLog())).ActivityData())
	return r
}

func TestActivityData(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"activities":[{"title":"봉사"}]}`))
	}))
	defer upstream.Close()

	w := do(landingEngine(t, upstream.URL), http.MethodGet, "/api/activity-data", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, landing.CacheControl, w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"activities":[{"title":"봉사"}]}`, w.Body.String())
}

func TestActivityDataFailures(t *testing.T) {
	w := do(landingEngine(t, ""), http.MethodGet, "/api/activity-data", "", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()
	w = do(landingEngine(t, broken.URL), http.MethodGet, "/api/activity-data", "", nil, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
