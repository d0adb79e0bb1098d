package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	CodatAuthHeader string
	CodatAPIURL     string
	WebhookBaseURL  string
	MongoURI        string
	DBName          string
	DBFile          string // JSON file used when no Mongo connection string is set
	Environment     string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		CodatAuthHeader: getEnv("CODAT_AUTH_HEADER", ""),
		CodatAPIURL:     getEnv("CODAT_API_URL", "https://api.codat.io"),
		WebhookBaseURL:  getEnv("CODAT_RECEIVE_WEBHOOK_BASE_URL", "http://localhost:8080"),
		MongoURI:        getEnv("OPTIONAL_MONGODB_CONNECTION_STRING", ""),
		DBName:          getEnv("DB_NAME", "expense-sync"),
		DBFile:          getEnv("DB_FILE", "./db.json"),
		Environment:     getEnv("ENVIRONMENT", "development"),
	}, nil
}

// UseMongo reports whether the document-store backend was selected.
// The decision is made once at process start from the connection string alone.
func (c *Config) UseMongo() bool {
	return c.MongoURI != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
