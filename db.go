package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dlfdnd96/kidari-teacher-sub001/config"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

func setupDatabase(cfg *config.Config, log *logrus.Entry) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsProduction() {
		level = gormlogger.Error
	}
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// uuid_generate_v4() is the primary key default of every table
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.WithError(err).Warn("failed to ensure uuid-ossp extension")
	}

	if !cfg.DBAutoMigrate {
		return db, nil
	}
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.UserProfile{},
		&entity.Notice{},
		&entity.VolunteerActivity{},
		&entity.Application{},
	); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}
