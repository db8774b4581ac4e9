package db

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"credconecta-backend/internal/domain/contract"
	"credconecta-backend/internal/domain/loan"
	"credconecta-backend/internal/domain/notification"
	"credconecta-backend/internal/domain/user"
)

// ParseLogLevel maps a config string onto a gorm log level. Unknown values mean warn.
func ParseLogLevel(s string) logger.LogLevel {
	switch s {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// OpenGorm connects to MySQL.
func OpenGorm(dsn string, lvl logger.LogLevel) (*gorm.DB, error) {
	return openWithDialector(mysql.Open(dsn), lvl)
}

// OpenSQLite opens (or creates) a SQLite database file. ":memory:" is accepted.
func OpenSQLite(path string, lvl logger.LogLevel) (*gorm.DB, error) {
	db, err := openWithDialector(sqlite.Open(path), lvl)
	if err != nil {
		return nil, err
	}
	// a single writer avoids "database is locked" under concurrent requests
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// OpenGormWithDialector is used by tests to inject a mocked connection.
func OpenGormWithDialector(d gorm.Dialector) (*gorm.DB, error) {
	return openWithDialector(d, logger.Silent)
}

func openWithDialector(d gorm.Dialector, lvl logger.LogLevel) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(lvl),
	}
	db, err := gorm.Open(d, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	logrus.WithField("dialect", d.Name()).Info("gorm: connected")
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&loan.Loan{},
		&contract.Contract{},
		&contract.Template{},
		&notification.Notification{},
		&notification.Settings{},
		&user.User{},
	)
}
