package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress string
	JWTSecret     string

	// MongoURI empty means the file-backed store under DataDir is used.
	MongoURI    string
	MongoDBName string
	DataDir     string

	// FirebaseProjectID set switches session verification from first-party
	// JWTs to Firebase ID tokens.
	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	SendGridAPIKey string
	MailFromEmail  string
}

func Load() *Config {
	// Missing .env is fine; real deployments set env directly.
	_ = godotenv.Load()

	return &Config{
		ServerAddress:           getEnv("SERVER_ADDRESS", ":8080"),
		JWTSecret:               getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDBName:             getEnv("MONGO_DB", "jobboard"),
		DataDir:                 getEnv("DATA_DIR", "./data"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		SendGridAPIKey:          getEnv("SENDGRID_API_KEY", ""),
		MailFromEmail:           getEnv("MAIL_FROM_EMAIL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
