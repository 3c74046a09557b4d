package config

import (
	"errors"  // Validation errors
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting the origin list

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort        string   // Application port
	DBUser         string   // Database user
	DBPassword     string   // Database password
	DBHost         string   // Database host
	DBPort         string   // Database port
	DBName         string   // Database name
	DBSSLMode      string   // Postgres sslmode
	JWTSecret      string   // JWT secret key
	RedisAddr      string   // Redis server address
	RedisPass      string   // Redis password
	RedisDB        int      // Redis database number
	AllowedOrigins []string // CORS allow-list
	IsProd         bool     // Is production environment
}

// defaultOrigins is the front-end allow-list used when ALLOWED_ORIGINS is not set
var defaultOrigins = []string{
	"https://bolsoaberto.netlify.app",
	"http://localhost:3000",
	"http://localhost:5500",
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	origins := defaultOrigins
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = nil
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	return &Config{
		AppPort:        port,                           // Application port
		DBUser:         os.Getenv("DB_USER"),           // Database user
		DBPassword:     os.Getenv("DB_PASSWORD"),       // Database password
		DBHost:         os.Getenv("DB_HOST"),           // Database host
		DBPort:         os.Getenv("DB_PORT"),           // Database port
		DBName:         os.Getenv("DB_NAME"),           // Database name
		DBSSLMode:      sslMode,                        // Postgres sslmode
		JWTSecret:      os.Getenv("JWT_SECRET"),        // JWT secret key
		RedisAddr:      os.Getenv("REDIS_ADDR"),        // Redis server address
		RedisPass:      os.Getenv("REDIS_PASS"),        // Redis password
		RedisDB:        redisDB,                        // Redis database number
		AllowedOrigins: origins,                        // CORS allow-list
		IsProd:         os.Getenv("IS_PROD") == "true", // Is production environment
	}
}

// DSN builds the Postgres connection string for gorm
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode
}

// Validate checks the configuration for values the server cannot run without
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	p, err := strconv.Atoi(c.AppPort)
	if err != nil {
		return errors.New("APP_PORT must be a number")
	}
	if p < 1 || p > 65535 {
		return errors.New("APP_PORT must be between 1 and 65535")
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}
