package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	HuggingFaceAPIKey string
	SentimentAPIURL   string

	PaystackSecretKey string
	PaystackPublicKey string
	PaystackBaseURL   string

	// Prices are in kobo, the gateway's smallest currency unit.
	MonthlyPriceKobo int64
	YearlyPriceKobo  int64
	Currency         string
}

const defaultSentimentURL = "https://api-inference.huggingface.co/models/j-hartmann/emotion-english-distilroberta-base"

// Load reads .env if present, then the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:              getenv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		HuggingFaceAPIKey: os.Getenv("HUGGINGFACE_API_KEY"),
		SentimentAPIURL:   getenv("SENTIMENT_API_URL", defaultSentimentURL),
		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackPublicKey: os.Getenv("PAYSTACK_PUBLIC_KEY"),
		PaystackBaseURL:   getenv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
		MonthlyPriceKobo:  getenvInt64("PREMIUM_PRICE_MONTHLY", 299900),
		YearlyPriceKobo:   getenvInt64("PREMIUM_PRICE_YEARLY", 2999900),
		Currency:          getenv("CURRENCY", "NGN"),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
