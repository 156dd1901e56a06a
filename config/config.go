package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresNode addresses one postgres server. Read and write pools may point at different ones.
type PostgresNode struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE"`
}

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT" default:"5000"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name         string `envconfig:"NAME" default:"vprime"`
		Timezone     string `envconfig:"TIMEZONE"`
		AuthDisabled bool   `envconfig:"AUTH_DISABLED"`
		CORS         struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		Gallery struct {
			DefaultLimit int `envconfig:"DEFAULT_LIMIT" default:"6"`
		} `envconfig:"GALLERY"`
		Testimonial struct {
			DefaultLimit int `envconfig:"DEFAULT_LIMIT" default:"6"`
		} `envconfig:"TESTIMONIAL"`
	} `envconfig:"APP"`

	Admin struct {
		Email    string `envconfig:"EMAIL"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"ADMIN"`

	Cache struct {
		Redis struct {
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
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int          `envconfig:"MAX_RETRY"`
			RetryWaitTime  int          `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string       `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool         `envconfig:"AUTO_MIGRATE"`
			Prefix         string       `envconfig:"PREFIX"`
			Read           PostgresNode `envconfig:"READ"`
			Write          PostgresNode `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			Project     string `envconfig:"PROJECT"     default:"vprime.project"`
			Testimonial string `envconfig:"TESTIMONIAL" default:"vprime.testimonial"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	Media struct {
		WatermarkText     string `envconfig:"WATERMARK_TEXT"     default:"VPRIME LIGHTS"`
		UploadConcurrency int    `envconfig:"UPLOAD_CONCURRENCY" default:"4"`
		MaxUploadMB       int64  `envconfig:"MAX_UPLOAD_MB"      default:"20"`
		MaxBatchFiles     int    `envconfig:"MAX_BATCH_FILES"    default:"12"`
		MaxPixels         int    `envconfig:"MAX_PIXELS"         default:"50000000"`
		DefaultBucket     string `envconfig:"DEFAULT_BUCKET"     default:"images"`
		Compression       struct {
			MaxDimension int     `envconfig:"MAX_DIMENSION" default:"1920"`
			MaxSizeMB    float64 `envconfig:"MAX_SIZE_MB"   default:"0.3"`
		} `envconfig:"COMPRESSION"`
	} `envconfig:"MEDIA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		Storage struct {
			Driver       string `envconfig:"DRIVER" default:"s3"`
			PublicDomain string `envconfig:"PUBLIC_DOMAIN"`
			S3           struct {
				APIEndpoint     string `envconfig:"API_ENDPOINT"`
				AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
				SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
				Region          string `envconfig:"REGION" default:"auto"`
			} `envconfig:"S3"`
			Minio struct {
				Endpoint  string `envconfig:"ENDPOINT"`
				AccessKey string `envconfig:"ACCESS_KEY"`
				SecretKey string `envconfig:"SECRET_KEY"`
				UseSSL    bool   `envconfig:"USE_SSL"`
			} `envconfig:"MINIO"`
		} `envconfig:"STORAGE"`
	} `envconfig:"EXTERNAL"`
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

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

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("processing environment: %w", err)
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
