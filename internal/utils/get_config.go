package utils

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// Server configuration
	AppPort      string `yaml:"APP_PORT"`
	IsProd       bool   `yaml:"IsProd"`
	LogFile      string `yaml:"LOG_FILE"`
	RateLimitMax int    `yaml:"RATE_LIMIT_MAX"`
	BodyLimitMB  int    `yaml:"BODY_LIMIT_MB"`

	// Upload configuration
	MaxFileSizeMB int    `yaml:"MAX_FILE_SIZE_MB"`
	DefaultLoteID string `yaml:"DEFAULT_LOTE_ID"`

	// Classifier (YOLO) service
	ClassifierURL            string `yaml:"CLASSIFIER_URL"`
	ClassifierTimeoutSeconds int    `yaml:"CLASSIFIER_TIMEOUT_SECONDS"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config = defaultConfig()

func defaultConfig() Config {
	return Config{
		AppPort:                  "3000",
		LogFile:                  "./logs/app.log",
		RateLimitMax:             100,
		BodyLimitMB:              64,
		MaxFileSizeMB:            5,
		ClassifierURL:            "http://localhost:8001/predict/",
		ClassifierTimeoutSeconds: 60,
	}
}

// LoadConfig reads config.yaml from the working directory. A missing file is
// not fatal: defaults and environment variables still apply.
func LoadConfig() {
	LoadConfigFile("config.yaml")
}

func LoadConfigFile(path string) {
	config = defaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	applyEnvOverrides(&config)
}

func applyEnvOverrides(c *Config) {
	overrideString(&c.DBUser, "DB_USER")
	overrideString(&c.DBName, "DB_NAME")
	overrideString(&c.DBPassword, "DB_PASSWORD")
	overrideString(&c.DBPort, "DB_PORT")
	overrideString(&c.DBHost, "DB_HOST")
	overrideString(&c.AppPort, "APP_PORT")
	overrideString(&c.AppPort, "PORT")
	overrideBool(&c.IsProd, "IS_PROD")
	overrideString(&c.LogFile, "LOG_FILE")
	overrideInt(&c.RateLimitMax, "RATE_LIMIT_MAX")
	overrideInt(&c.BodyLimitMB, "BODY_LIMIT_MB")
	overrideInt(&c.MaxFileSizeMB, "MAX_FILE_SIZE_MB")
	overrideString(&c.DefaultLoteID, "DEFAULT_LOTE_ID")
	overrideString(&c.ClassifierURL, "CLASSIFIER_URL")
	overrideInt(&c.ClassifierTimeoutSeconds, "CLASSIFIER_TIMEOUT_SECONDS")
	overrideString(&c.AWSS3Bucket, "AWS_S3_BUCKET")
	overrideString(&c.AWSS3Region, "AWS_S3_REGION")
	overrideString(&c.AWSAccessKey, "AWS_ACCESS_KEY")
	overrideString(&c.AWSSecretKey, "AWS_SECRET_KEY")
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring %s=%q: %s\n", key, v, err)
		return
	}
	*dst = n
}

func overrideBool(dst *bool, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Ignoring %s=%q: %s\n", key, v, err)
		return
	}
	*dst = b
}

func getBoolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "APP_PORT":
		return config.AppPort
	case "IsProd":
		return getBoolString(config.IsProd)
	case "LOG_FILE":
		return config.LogFile
	case "RATE_LIMIT_MAX":
		return strconv.Itoa(config.RateLimitMax)
	case "BODY_LIMIT_MB":
		return strconv.Itoa(config.BodyLimitMB)
	case "MAX_FILE_SIZE_MB":
		return strconv.Itoa(config.MaxFileSizeMB)
	case "DEFAULT_LOTE_ID":
		return config.DefaultLoteID
	case "CLASSIFIER_URL":
		return config.ClassifierURL
	case "CLASSIFIER_TIMEOUT_SECONDS":
		return strconv.Itoa(config.ClassifierTimeoutSeconds)
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	default:
		return ""
	}
}

// GetConfigInt returns the integer value of key, or fallback when the value
// is missing or not a positive number.
func GetConfigInt(key string, fallback int) int {
	n, err := strconv.Atoi(GetConfig(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func IsProduction() bool {
	return config.IsProd
}
