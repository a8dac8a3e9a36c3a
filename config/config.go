package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

type Config struct {
	Port        string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	JWTSecret   string
	AdminAPIKey string
	PriceRule   PriceRule
}

// PriceRule is the product price-range validation applied on create/update.
// It can be switched off entirely with PRODUCT_PRICE_VALIDATION=false.
type PriceRule struct {
	Enabled bool
	Min     decimal.Decimal
	Max     decimal.Decimal
}

// Check returns a user-facing error when the price falls outside the
// configured range.
func (r PriceRule) Check(price decimal.Decimal) error {
	if !r.Enabled {
		return nil
	}
	if price.LessThan(r.Min) || price.GreaterThan(r.Max) {
		return fmt.Errorf("price must be between %s and %s", r.Min, r.Max)
	}
	return nil
}

// Load reads configuration from the environment. Defaults match the
// development setup; godotenv has already populated os.Environ in main.
func Load() Config {
	return Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBUser:      getenv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getenv("DB_NAME", "onlineshop"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),
		PriceRule: PriceRule{
			Enabled: getenv("PRODUCT_PRICE_VALIDATION", "true") != "false",
			Min:     getdecimal("PRODUCT_PRICE_MIN", "0.01"),
			Max:     getdecimal("PRODUCT_PRICE_MAX", "100000"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getdecimal(key, fallback string) decimal.Decimal {
	raw := getenv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
