package gdb

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config holds MySQL connection settings.
type Config struct {
	User         string `toml:"user" mapstructure:"user" json:"user"`
	Password     string `toml:"password" mapstructure:"password" json:"password"`
	Host         string `toml:"host" mapstructure:"host" json:"host"`
	Port         int    `toml:"port" mapstructure:"port" json:"port"`
	Database     string `toml:"database" mapstructure:"database" json:"database"`
	MaxIdleConns int    `toml:"max_idle_conns" mapstructure:"max_idle_conns" json:"max_idle_conns"`
	MaxOpenConns int    `toml:"max_open_conns" mapstructure:"max_open_conns" json:"max_open_conns"`
}

// NewDB opens a GORM handle against MySQL.
func NewDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed on open mysql connection")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed on get sql db")
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}
