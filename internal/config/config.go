package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type AuthMode string

const (
	AuthDev    AuthMode = "dev"    // X-Debug-User-ID / X-Debug-Role
	AuthJWT    AuthMode = "jwt"    // JWT validado localmente
	AuthRemote AuthMode = "remote" // proveedor de identidad externo
)

type BlobDriver string

const (
	BlobMemory BlobDriver = "memory"
	BlobMinio  BlobDriver = "minio"
	BlobS3     BlobDriver = "s3"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	SentryDSN   string `yaml:"sentryDSN"`

	Log       LogConfig       `yaml:"log"`
	DB        DBConfig        `yaml:"db"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	AMQP      AMQPConfig      `yaml:"amqp"`
	Blob      BlobConfig      `yaml:"blob"`

	FoundPetsStrictTransitions bool  `yaml:"foundPetsStrictTransitions"`
	UploadMaxBytes             int64 `yaml:"uploadMaxBytes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	App    string `yaml:"app"`
}

// DBConfig: DSN vacío => repos en memoria.
type DBConfig struct {
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxIdleTime time.Duration `yaml:"connMaxIdleTime"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type AuthConfig struct {
	Mode AuthMode `yaml:"mode"`

	JWTSecret        string        `yaml:"jwtSecret"`
	JWTPublicKeyFile string        `yaml:"jwtPublicKeyFile"`
	JWTIssuer        string        `yaml:"jwtIssuer"`
	JWTAudience      string        `yaml:"jwtAudience"`
	JWTLeeway        time.Duration `yaml:"jwtLeeway"`

	IdentityBaseURL      string        `yaml:"identityBaseURL"`
	IdentityAPIKey       string        `yaml:"identityAPIKey"`
	IdentityAPIKeyHeader string        `yaml:"identityAPIKeyHeader"`
	IdentityTimeout      time.Duration `yaml:"identityTimeout"`
}

// RedisConfig: Addr vacío => sin rate limiting.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RateLimitConfig: requests por minuto por usuario en las escrituras caras.
type RateLimitConfig struct {
	AdoptionRequestsPerMinute int `yaml:"adoptionRequestsPerMinute"`
	FoundPetReportsPerMinute  int `yaml:"foundPetReportsPerMinute"`
}

// AMQPConfig: URL vacía => eventos descartados.
type AMQPConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type BlobConfig struct {
	Driver     BlobDriver `yaml:"driver"`
	PublicBase string     `yaml:"publicBase"`
	Endpoint   string     `yaml:"endpoint"`
	Region     string     `yaml:"region"`
	Bucket     string     `yaml:"bucket"`
	AccessKey  string     `yaml:"accessKey"`
	SecretKey  string     `yaml:"secretKey"`
	UseSSL     bool       `yaml:"useSSL"`
	PathStyle  bool       `yaml:"pathStyle"`
}

func defaults() Config {
	return Config{
		Port:        "8080",
		Environment: "development",
		Log:         LogConfig{Level: "info", Format: "text", App: "pet-adoption"},
		Auth:        AuthConfig{Mode: AuthDev, IdentityTimeout: 5 * time.Second},
		RateLimit:   RateLimitConfig{AdoptionRequestsPerMinute: 10, FoundPetReportsPerMinute: 10},
		AMQP:        AMQPConfig{Exchange: "pet-adoption.events"},
		Blob:        BlobConfig{Driver: BlobMemory},
	}
}

// Load arma la config: defaults, luego el YAML en path (opcional; si vacío se
// usa CONFIG_FILE), luego variables de entorno. Valida el resultado.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.Blob.PublicBase == "" && cfg.Blob.Driver == BlobMemory {
		cfg.Blob.PublicBase = "http://localhost:" + cfg.Port + "/media"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Environment, "ENVIRONMENT")
	setString(&cfg.SentryDSN, "SENTRY_DSN")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Log.App, "APP_NAME")

	setString(&cfg.DB.DSN, "DB_DSN")

	if v := strings.TrimSpace(os.Getenv("AUTH_MODE")); v != "" {
		cfg.Auth.Mode = AuthMode(strings.ToLower(v))
	}
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Auth.JWTPublicKeyFile, "JWT_PUBLIC_KEY_FILE")
	setString(&cfg.Auth.JWTIssuer, "JWT_ISSUER")
	setString(&cfg.Auth.JWTAudience, "JWT_AUDIENCE")
	setString(&cfg.Auth.IdentityBaseURL, "IDENTITY_BASE_URL")
	setString(&cfg.Auth.IdentityAPIKey, "IDENTITY_API_KEY")
	setString(&cfg.Auth.IdentityAPIKeyHeader, "IDENTITY_API_KEY_HEADER")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")

	setString(&cfg.AMQP.URL, "AMQP_URL")
	setString(&cfg.AMQP.Exchange, "AMQP_EXCHANGE")

	if v := strings.TrimSpace(os.Getenv("BLOB_DRIVER")); v != "" {
		cfg.Blob.Driver = BlobDriver(strings.ToLower(v))
	}
	setString(&cfg.Blob.PublicBase, "BLOB_PUBLIC_BASE")
	setString(&cfg.Blob.Endpoint, "BLOB_ENDPOINT")
	setString(&cfg.Blob.Region, "BLOB_REGION")
	setString(&cfg.Blob.Bucket, "BLOB_BUCKET")
	setString(&cfg.Blob.AccessKey, "BLOB_ACCESS_KEY")
	setString(&cfg.Blob.SecretKey, "BLOB_SECRET_KEY")

	var errList []error
	collect := func(err error) {
		if err != nil {
			errList = append(errList, err)
		}
	}
	collect(setInt(&cfg.Redis.DB, "REDIS_DB"))
	collect(setInt(&cfg.RateLimit.AdoptionRequestsPerMinute, "RATE_LIMIT_ADOPTION_REQUESTS"))
	collect(setInt(&cfg.RateLimit.FoundPetReportsPerMinute, "RATE_LIMIT_FOUND_PET_REPORTS"))
	collect(setInt64(&cfg.UploadMaxBytes, "UPLOAD_MAX_BYTES"))
	collect(setBool(&cfg.Blob.UseSSL, "BLOB_USE_SSL"))
	collect(setBool(&cfg.Blob.PathStyle, "BLOB_PATH_STYLE"))
	collect(setBool(&cfg.FoundPetsStrictTransitions, "FOUND_PETS_STRICT_TRANSITIONS"))
	return errors.Join(errList...)
}

// Validate revisa combinaciones obligatorias según modo/driver.
func (c Config) Validate() error {
	var errList []error
	fail := func(format string, args ...any) {
		errList = append(errList, fmt.Errorf("config: "+format, args...))
	}

	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		fail("invalid port %q", c.Port)
	}

	switch c.Auth.Mode {
	case AuthDev:
	case AuthJWT:
		if c.Auth.JWTSecret == "" && c.Auth.JWTPublicKeyFile == "" {
			fail("auth mode jwt requires JWT_SECRET or JWT_PUBLIC_KEY_FILE")
		}
		if c.Auth.JWTSecret != "" && c.Auth.JWTPublicKeyFile != "" {
			fail("set only one of JWT_SECRET or JWT_PUBLIC_KEY_FILE")
		}
	case AuthRemote:
		if c.Auth.IdentityBaseURL == "" || c.Auth.IdentityAPIKey == "" {
			fail("auth mode remote requires IDENTITY_BASE_URL and IDENTITY_API_KEY")
		}
	default:
		fail("unknown auth mode %q", c.Auth.Mode)
	}

	switch c.Blob.Driver {
	case BlobMemory:
	case BlobMinio:
		if c.Blob.Endpoint == "" || c.Blob.Bucket == "" || c.Blob.AccessKey == "" || c.Blob.SecretKey == "" {
			fail("blob driver minio requires endpoint, bucket, access key and secret key")
		}
	case BlobS3:
		if c.Blob.Bucket == "" {
			fail("blob driver s3 requires BLOB_BUCKET")
		}
	default:
		fail("unknown blob driver %q", c.Blob.Driver)
	}

	if c.UploadMaxBytes < 0 {
		fail("uploadMaxBytes must be >= 0")
	}
	if c.RateLimit.AdoptionRequestsPerMinute < 0 || c.RateLimit.FoundPetReportsPerMinute < 0 {
		fail("rate limits must be >= 0")
	}
	return errors.Join(errList...)
}

// Addr es la dirección de escucha del servidor HTTP.
func (c Config) Addr() string { return ":" + c.Port }

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = b
	return nil
}
