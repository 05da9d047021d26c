package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"hgl-backend/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Storage struct {
		Driver     string `mapstructure:"driver"` // memory, sqlite, postgres, redis
		SQLitePath string `mapstructure:"sqlite_path"`
		Redis      struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
			Prefix   string `mapstructure:"prefix"`
		} `mapstructure:"redis"`
	} `mapstructure:"storage"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`

	Lab struct {
		Name      string `mapstructure:"name"`
		ShortName string `mapstructure:"short_name"`
		Tagline   string `mapstructure:"tagline"`
		JobPrefix string `mapstructure:"job_prefix"`
		VerifyURL string `mapstructure:"verify_url"`
		Website   string `mapstructure:"website"`
		Email     string `mapstructure:"email"`
		Phone     string `mapstructure:"phone"`
		City      string `mapstructure:"city"`
	} `mapstructure:"lab"`

	Backup struct {
		Endpoint  string        `mapstructure:"endpoint"`
		Region    string        `mapstructure:"region"`
		Bucket    string        `mapstructure:"bucket"`
		AccessKey string        `mapstructure:"access_key"`
		SecretKey string        `mapstructure:"secret_key"`
		Prefix    string        `mapstructure:"prefix"`
		Interval  time.Duration `mapstructure:"interval"`
	} `mapstructure:"backup"`
}

// BackupEnabled reports whether snapshot uploads have somewhere to go.
func (c *Config) BackupEnabled() bool {
	return c.Backup.Bucket != ""
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	v.AutomaticEnv()

	// Binary works without a config file
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "X-Request-ID"})
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "data/hgl.db")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.prefix", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "hgl_db")
	v.SetDefault("lab.name", "HINDUSTAN GEMOLOGICAL LABORATORY")
	v.SetDefault("lab.short_name", "HGL")
	v.SetDefault("lab.tagline", "Accurate. Confidential. Integrity")
	v.SetDefault("lab.job_prefix", "HGL")
	v.SetDefault("lab.verify_url", "https://hgl-labs.com/verify/")
	v.SetDefault("lab.website", "www.hgl-labs.com")
	v.SetDefault("lab.email", "info@hgl-labs.com")
	v.SetDefault("lab.phone", "+91 44 48553527")
	v.SetDefault("lab.city", "Chennai, India")
	v.SetDefault("backup.region", "auto")
	v.SetDefault("backup.prefix", "backups/")
	v.SetDefault("backup.interval", 6*time.Hour)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	applyEnv(&cfg)
	return &cfg
}

// applyEnv lets deployment environments override the file without nesting
// viper keys.
func applyEnv(cfg *Config) {
	if driver := os.Getenv("HGL_STORAGE_DRIVER"); driver != "" {
		cfg.Storage.Driver = driver
	}
	if path := os.Getenv("HGL_SQLITE_PATH"); path != "" {
		cfg.Storage.SQLitePath = path
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Storage.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Storage.Redis.Password = pass
	}

	if endpoint := os.Getenv("R2_ENDPOINT"); endpoint != "" {
		cfg.Backup.Endpoint = endpoint
	}
	if bucket := os.Getenv("R2_BUCKET"); bucket != "" {
		cfg.Backup.Bucket = bucket
	}
	if key := os.Getenv("R2_ACCESS_KEY"); key != "" {
		cfg.Backup.AccessKey = key
	}
	if secret := os.Getenv("R2_SECRET_KEY"); secret != "" {
		cfg.Backup.SecretKey = secret
	}
}

// LabProfile returns the lab settings used on records and documents.
func (c *Config) LabProfile() models.LabProfile {
	return models.LabProfile{
		Name:      c.Lab.Name,
		ShortName: c.Lab.ShortName,
		Tagline:   c.Lab.Tagline,
		JobPrefix: c.Lab.JobPrefix,
		VerifyURL: c.Lab.VerifyURL,
		Website:   c.Lab.Website,
		Email:     c.Lab.Email,
		Phone:     c.Lab.Phone,
		City:      c.Lab.City,
	}
}
