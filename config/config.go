package config

import (
	"fmt"
	"sync"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Disable          bool     `envconfig:"DISABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Security struct {
		PublicPaths []string `envconfig:"PUBLIC_PATHS"`
		SeedAdmin   struct {
			Enable   bool   `envconfig:"ENABLE"`
			Username string `envconfig:"USERNAME"`
			Email    string `envconfig:"EMAIL"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SEED_ADMIN"`
	} `envconfig:"SECURITY"`

	Cache struct {
		Enable bool `envconfig:"ENABLE"`
		Redis  struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		Secret    string `envconfig:"SECRET"`
		ExpireMin int    `envconfig:"EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int      `envconfig:"MAX_RETRY"`
			RetryWaitTime  int      `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string   `envconfig:"MIGRATION_TABLE"`
			MigrationPath  string   `envconfig:"MIGRATION_PATH"`
			AutoMigrate    bool     `envconfig:"AUTO_MIGRATE"`
			Prefix         string   `envconfig:"PREFIX"`
			Read           Database `envconfig:"READ"`
			Write          Database `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			Booking string `envconfig:"BOOKING"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint    string  `envconfig:"ENDPOINT"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			Region          string `envconfig:"REGION"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

type Database struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

// Defaults holds the values used for any setting left empty by the environment.
func Defaults() Config {
	var def Config

	def.Server.Env = "development"
	def.Server.LogLevel = "info"
	def.Server.Port = "8080"
	def.Server.Shutdown.GracePeriodSeconds = 5
	def.Server.Shutdown.CleanupPeriodSeconds = 5

	def.App.Name = "etm"
	def.App.Timezone = "UTC"
	def.App.CORS.AllowedOrigins = []string{"*"}
	def.App.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	def.App.CORS.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	def.App.CORS.MaxAgeSeconds = 300
	def.App.RateLimiter.MaxRequests = 100
	def.App.RateLimiter.WindowSeconds = 60

	def.Security.PublicPaths = []string{"/api/auth/**", "/public/**", "/swagger/**", "/health", "/health/**", "/metrics"}
	def.Security.SeedAdmin.Username = "admin"
	def.Security.SeedAdmin.Email = "admin@etm.local"

	def.External.Otel.SampleRatio = 1

	def.Cache.TTL = 300
	def.Cache.Redis.Primary.Host = "localhost"
	def.Cache.Redis.Primary.Port = "6379"

	def.JWT.ExpireMin = 60

	def.DB.Postgres.MaxRetry = 5
	def.DB.Postgres.RetryWaitTime = 2
	def.DB.Postgres.MigrationTable = "schema_migrations"
	def.DB.Postgres.MigrationPath = "file://migrations/postgres"
	def.DB.Postgres.Read.SSLMode = "disable"
	def.DB.Postgres.Write.SSLMode = "disable"

	def.Kafka.ConsumerGroup = "etm-worker"
	def.Kafka.Topics.Booking = "etm.bookings"

	def.External.S3.Region = "auto"

	return def
}

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		err = mergo.Merge(&conf, Defaults())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to apply configuration defaults")
		}

		initialized = true

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
