package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/scorecard/pkg/constants"
)

// Config holds the application configuration loaded from flags,
// environment variables, .env files and ~/.scorecard.yaml.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Storage
	DatabasePath string

	// Extraction collaborator
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBackend     string
	GoogleProject     string
	GoogleLocation    string
	ExtractionTimeout time.Duration

	// Calibration
	MatchThreshold  float64
	FlagPenalty     float64
	HighThreshold   float64
	MediumThreshold float64

	// Sessions
	SessionTTL time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.scorecard.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".scorecard")
	}

	// A missing config file is fine
	_ = v.ReadInConfig()

	return configFrom(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_path", constants.DefaultDatabasePath)
	v.SetDefault("gemini_model", constants.DefaultGeminiModel)
	v.SetDefault("gemini_backend", "gemini")
	v.SetDefault("google_cloud_location", "us-central1")
	v.SetDefault("extraction_timeout", constants.ExtractionTimeout)
	v.SetDefault("match_threshold", constants.MatchThreshold)
	v.SetDefault("flag_penalty", constants.FlagPenalty)
	v.SetDefault("high_threshold", constants.HighConfidenceThreshold)
	v.SetDefault("medium_threshold", constants.MediumConfidenceThreshold)
	v.SetDefault("session_ttl", constants.SessionTTL)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

func configFrom(v *viper.Viper) *Config {
	apiKey := v.GetString("google_api_key")
	if apiKey == "" {
		apiKey = v.GetString("gemini_api_key")
	}
	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DatabasePath: v.GetString("database_path"),

		GeminiAPIKey:      apiKey,
		GeminiModel:       v.GetString("gemini_model"),
		GeminiBackend:     v.GetString("gemini_backend"),
		GoogleProject:     v.GetString("google_cloud_project"),
		GoogleLocation:    v.GetString("google_cloud_location"),
		ExtractionTimeout: v.GetDuration("extraction_timeout"),

		MatchThreshold:  v.GetFloat64("match_threshold"),
		FlagPenalty:     v.GetFloat64("flag_penalty"),
		HighThreshold:   v.GetFloat64("high_threshold"),
		MediumThreshold: v.GetFloat64("medium_threshold"),

		SessionTTL: v.GetDuration("session_ttl"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}
}

// UpdateFromFlags updates config values from parsed command flags.
// Call it after cobra parses flags so flags win over file and env values.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel, databasePath string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if databasePath != "" {
		c.DatabasePath = databasePath
	}
}

// loadEnvFiles loads .env.local then .env. godotenv never overrides a
// variable that is already set, so the real environment wins and
// .env.local wins over .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
