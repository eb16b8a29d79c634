package database

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ritaorion/district5b-laravel-sub001/app/models"
	"github.com/ritaorion/district5b-laravel-sub001/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config is the connection part of the environment.
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func LoadConfig() Config {
	driver := strings.ToLower(env.GetEnv("DB_DRIVER", DriverMySQL))
	defaultPort := "3306"
	if driver == DriverPostgres {
		defaultPort = "5432"
	}
	return Config{
		Driver:   driver,
		Host:     env.GetEnv("DB_HOST", "127.0.0.1"),
		Port:     env.GetEnv("DB_PORT", defaultPort),
		User:     env.GetEnv("DB_USER", ""),
		Password: env.GetEnv("DB_PASSWORD", ""),
		Name:     env.GetEnv("DB_NAME", ""),
		SSLMode:  env.GetEnv("DB_SSLMODE", "disable"),
	}
}

// DSN renders the driver-specific connection string.
func (c Config) DSN() string {
	if c.Driver == DriverPostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	}
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=UTC"
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// MigrateURL renders the connection URL golang-migrate expects for c.Driver.
func (c Config) MigrateURL() string {
	if c.Driver == DriverPostgres {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     c.Host + ":" + c.Port,
			Path:     "/" + c.Name,
			RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
		}
		return u.String()
	}
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// Dialector picks the gorm driver for c.Driver.
func (c Config) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverMySQL:
		return mysql.New(mysql.Config{
			DSN:                      c.DSN(),
			DefaultStringSize:        256,
			DisableDatetimePrecision: true,
			DontSupportRenameIndex:   true,
			DontSupportRenameColumn:  true,
		}), nil
	case DriverPostgres:
		return postgres.Open(c.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use mysql or postgres)", c.Driver)
	}
}

// Models is every table the application owns, in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Setting{},
		&models.Story{},
		&models.Event{},
		&models.FAQ{},
		&models.Document{},
		&models.Roster{},
		&models.Contact{},
		&models.StorySubmission{},
	}
}

// SetupDatabase connects with retries, migrates the schema when
// DB_AUTO_MIGRATE is on and makes sure the settings row exists.
func SetupDatabase() error {
	cfg := LoadConfig()
	dialector, err := cfg.Dialector()
	if err != nil {
		return err
	}

	// TranslateError surfaces unique-index violations as gorm.ErrDuplicatedKey.
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	}
	if env.IsDev() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			break
		}
		log.Warnf("[Database] connect to %s failed (try %d/%d): %v", cfg.Driver, i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if env.GetEnvBool("DB_AUTO_MIGRATE", true) {
		if err := DB.AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}
	if err := EnsureSettings(DB); err != nil {
		return err
	}
	log.Infof("[Database] connected to %s %s@%s:%s/%s", cfg.Driver, cfg.User, cfg.Host, cfg.Port, cfg.Name)
	return nil
}

// EnsureSettings inserts the default settings row unless it already exists.
func EnsureSettings(db *gorm.DB) error {
	def := models.DefaultSetting()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&def).Error; err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}
	return nil
}
