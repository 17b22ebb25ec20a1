package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	AppEnv             string
	Port               string
	AppURL             string
	APIBaseURL         string
	APITimeout         time.Duration
	AppAuthKey         string
	AppEncKey          string
	CSRFKey            string
	SessionIdleTimeout time.Duration
	TemplatesDir       string
	CheckoutStore      string
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             string
	PaymentProvider    string
	MidtransClientKey  string
	MidtransEnv        string
	StripePublishable  string
}

const (
	CheckoutStoreMemory = "memory"
	CheckoutStoreMySQL  = "mysql"
)

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		AppEnv:             getenv("APP_ENV", "development"),
		Port:               getenv("APP_PORT", ":3000"),
		AppURL:             getenv("APP_URL", "http://localhost:3000"),
		APIBaseURL:         getenv("API_BASE_URL", "http://localhost:8080/api/v1"),
		APITimeout:         getduration("API_TIMEOUT", 30*time.Second),
		AppAuthKey:         os.Getenv("APP_AUTH_KEY"),
		AppEncKey:          os.Getenv("APP_ENC_KEY"),
		CSRFKey:            os.Getenv("CSRF_KEY"),
		SessionIdleTimeout: getduration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		TemplatesDir:       getenv("TEMPLATES_DIR", "templates"),
		CheckoutStore:      getenv("CHECKOUT_STORE", CheckoutStoreMemory),
		DBHost:             getenv("DB_HOST", "127.0.0.1"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             getenv("DB_PORT", "3306"),
		PaymentProvider:    getenv("PAYMENT_PROVIDER", PaymentProviderStripe),
		MidtransClientKey:  os.Getenv("MIDTRANS_CLIENT_KEY"),
		MidtransEnv:        getenv("MIDTRANS_ENV", "sandbox"),
		StripePublishable:  os.Getenv("STRIPE_PUBLISHABLE_KEY"),
	}
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getduration accepts Go durations ("45s") or a bare number of seconds.
func getduration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("LoadEnv: invalid duration %s=%q, using %v", key, raw, fallback)
	return fallback
}
