package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs from the environment. It is
// built once in main and passed down explicitly; no other package reads
// environment variables on its own.
type Config struct {
	Port        string
	DBUrl       string
	RedisAddr   string
	JWTSecret   string
	Env         string
	FrontendURL string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, using environment defaults")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3001"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-key-change-in-production"
		log.Println("JWT_SECRET not set, using default key")
	}

	return Config{
		Port: port,
		// DSN must carry parseTime=true so DATETIME columns scan into
		// time.Time, e.g. user:pass@tcp(localhost:3306)/inventory?parseTime=true
		DBUrl:       os.Getenv("DB_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   secret,
		Env:         env,
		FrontendURL: frontendURL,
	}
}
