package environment

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Production defines the prod environment
const Production = "prod"

// Staging defines the staging environment
const Staging = "staging"

// Dev defines the dev environment
const Dev = "dev"

// Environment holds all configuration values the service reads at startup
type Environment struct {
	Environment     string `mapstructure:"APP_ENV"`
	Cors            string `mapstructure:"CORS"`
	Secret          string `mapstructure:"SECRET"`
	Port            string `mapstructure:"PORT"`
	Database        string `mapstructure:"DATABASE"`
	DatabaseUrl     string `mapstructure:"DATABASE_URL"`
	Redis           string `mapstructure:"REDIS"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	Sendinblue      string `mapstructure:"SENDINBLUE"`
	GroqAPIKey      string `mapstructure:"GROQ_API_KEY"`
	GroqBaseURL     string `mapstructure:"GROQ_BASE_URL"`
	GroqModel       string `mapstructure:"GROQ_MODEL"`
	TimeZone        string `mapstructure:"TIME_ZONE"`
	Firebase        string `mapstructure:"FIREBASE"`
	GCPProjectID    string `mapstructure:"GCP_PROJECT_ID"`
	BaseUrl         string `mapstructure:"BASE_URL"`
	FrontendBaseUrl string `mapstructure:"FRONTEND_BASE_URL"`
}

// Global is the environment the whole application can read from
var Global Environment

// Initialize reads a .env file when there is one and falls back to the
// process environment otherwise
func Initialize() {
	data, err := godotenv.Read(".env")
	if err != nil {
		data = map[string]string{}
		for _, entry := range os.Environ() {
			parts := strings.SplitN(entry, "=", 2)
			data[parts[0]] = parts[1]
		}
	}

	err = mapstructure.Decode(data, &Global)
	if err != nil {
		panic(err)
	}

	if Global.TimeZone == "" {
		Global.TimeZone = "Asia/Kolkata"
	}

	if Global.Port == "" {
		Global.Port = "80"
	}
}
