package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	APITimeout     time.Duration `yaml:"timeout"`
	DatabaseURL    string        `yaml:"database_url"`
	DatabaseName   string        `yaml:"database_name"`
	MigrateOnStart bool          `yaml:"migrate_on_start"`
	TokenDuration  time.Duration `yaml:"token_duration"`
	LogLevel       string        `yaml:"log_level"`
	Admin          AdminConfig   `yaml:"admin"`
	Uploads        UploadConfig  `yaml:"uploads"`
}

type AdminConfig struct {
	Username string `yaml:"username"`
	// Password is hashed at startup when PasswordHash is empty.
	Password     string `yaml:"password"`
	PasswordHash string `yaml:"password_hash"`
}

type UploadConfig struct {
	// Driver is "local" or "s3".
	Driver        string   `yaml:"driver"`
	Dir           string   `yaml:"dir"`
	MaxImageBytes int64    `yaml:"max_image_bytes"`
	MaxVideoBytes int64    `yaml:"max_video_bytes"`
	MaxAudioBytes int64    `yaml:"max_audio_bytes"`
	S3            S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	Prefix       string `yaml:"prefix"`
	UsePathStyle bool   `yaml:"use_path_style"`
	// Static keys; when empty the default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("MINISTRY_ADDR", ":8001"),
		JWTSecret:      getEnv("MINISTRY_JWT_SECRET", insecureJWTSecret),
		APITimeout:     30 * time.Second,
		DatabaseURL:    os.Getenv("MINISTRY_DATABASE_URL"),
		DatabaseName:   os.Getenv("MINISTRY_DATABASE_NAME"),
		MigrateOnStart: true,
		TokenDuration:  12 * time.Hour,
		LogLevel:       getEnv("MINISTRY_LOG_LEVEL", "info"),
		Admin: AdminConfig{
			Username:     getEnv("MINISTRY_ADMIN_USERNAME", "admin"),
			Password:     os.Getenv("MINISTRY_ADMIN_PASSWORD"),
			PasswordHash: os.Getenv("MINISTRY_ADMIN_PASSWORD_HASH"),
		},
		Uploads: UploadConfig{
			Driver:        getEnv("MINISTRY_UPLOADS_DRIVER", "local"),
			Dir:           getEnv("MINISTRY_UPLOADS_DIR", "uploads"),
			MaxImageBytes: 10 << 20,
			MaxVideoBytes: 100 << 20,
			MaxAudioBytes: 50 << 20,
			S3: S3Config{
				Bucket:          os.Getenv("MINISTRY_S3_BUCKET"),
				Region:          getEnv("AWS_REGION", "us-east-1"),
				Endpoint:        os.Getenv("MINISTRY_S3_ENDPOINT"),
				AccessKeyID:     os.Getenv("MINISTRY_S3_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("MINISTRY_S3_SECRET_ACCESS_KEY"),
			},
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("database_url (MINISTRY_DATABASE_URL) is required"))
	}
	if c.DatabaseName == "" {
		errs = append(errs, errors.New("database_name (MINISTRY_DATABASE_NAME) is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if c.JWTSecret == insecureJWTSecret && !isDevelopment() {
		errs = append(errs, errors.New("jwt_secret uses the insecure default; set MINISTRY_JWT_SECRET or MINISTRY_ENV=development"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}
	if c.Admin.Username == "" {
		errs = append(errs, errors.New("admin.username is required"))
	}
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		errs = append(errs, errors.New("admin.password or admin.password_hash is required"))
	}

	switch c.Uploads.Driver {
	case "local":
		if c.Uploads.Dir == "" {
			errs = append(errs, errors.New("uploads.dir is required for the local driver"))
		}
	case "s3":
		if c.Uploads.S3.Bucket == "" {
			errs = append(errs, errors.New("uploads.s3.bucket is required for the s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown uploads.driver %q", c.Uploads.Driver))
	}
	if c.Uploads.MaxImageBytes <= 0 || c.Uploads.MaxVideoBytes <= 0 || c.Uploads.MaxAudioBytes <= 0 {
		errs = append(errs, errors.New("upload size limits must be positive"))
	}

	return errors.Join(errs...)
}

// DSN builds the SQLite data source from the database URL and name.
// A database URL of ":memory:" yields a named in-memory database.
func (c *Config) DSN() string {
	if c.DatabaseURL == ":memory:" {
		return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.DatabaseName)
	}
	return c.DatabaseFile() + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// DatabaseFile is the on-disk SQLite file: the database name, with a .db
// suffix, inside the database URL directory.
func (c *Config) DatabaseFile() string {
	name := c.DatabaseName
	if !strings.HasSuffix(name, ".db") {
		name += ".db"
	}
	return filepath.Join(c.DatabaseURL, name)
}

func isDevelopment() bool {
	return strings.EqualFold(os.Getenv("MINISTRY_ENV"), "development")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
