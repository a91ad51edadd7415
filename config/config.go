package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied setting. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	Port        string
	MongoURI    string
	MongoDB     string
	RedisAddr   string
	JWTSecret   string
	FrontendURL string

	PaystackSecret  string
	PaystackBaseURL string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string

	UploadDir   string
	DeliveryFee float64

	StrictAdmin bool
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads the environment exactly once and returns the shared config.
func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		cfg = &Config{
			Port:            getenv("PORT", ":4000"),
			MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:         getenv("MONGO_DB", "savora"),
			RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
			JWTSecret:       getenv("JWT_SECRET", "dev-only-secret"),
			FrontendURL:     getenv("FRONTEND_URL", "http://localhost:5173"),
			PaystackSecret:  os.Getenv("PAYSTACK_SECRET_KEY"),
			PaystackBaseURL: getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			SMTPHost:        getenv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:        getenv("SMTP_PORT", "587"),
			SMTPUser:        os.Getenv("SMTP_USER"),
			SMTPPass:        os.Getenv("SMTP_PASS"),
			UploadDir:       getenv("UPLOAD_DIR", "static/uploads"),
			DeliveryFee:     5,
			StrictAdmin:     os.Getenv("STRICT_ADMIN") == "true",
		}
		if cfg.Port[0] != ':' {
			cfg.Port = ":" + cfg.Port
		}
	})
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
