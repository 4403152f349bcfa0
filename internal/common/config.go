package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Paths   PathsConfig
	Extract ExtractConfig
	LLM     LLMConfig
	Match   MatchConfig
}

// PathsConfig holds base directories for reports and customer data
type PathsConfig struct {
	ReportsBase string
	DatasBase   string
	RunLogPath  string
}

// ExtractConfig holds PDF text extraction configuration
type ExtractConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "tur+eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	// Quality gate thresholds. Tunables, not invariants.
	MinTextLen    int     // reject below this many characters
	MinPageChars  int     // reject below this many chars per page
	MinAlnumRatio float64 // reject below this alphanumeric ratio
	AcceptDensity int     // default-accept at or above this many chars per page
}

// LLMConfig holds Gemini-related configuration
type LLMConfig struct {
	Model       string
	APIKey      string
	MinInterval time.Duration // minimum gap between consecutive calls
	Timeout     time.Duration
}

// MatchConfig holds fuzzy company matching configuration
type MatchConfig struct {
	MinSimilarity float64
}

// LoadConfig loads configuration from environment variables.
// A .env file in the working directory is honored when present.
func LoadConfig() *Config {
	_ = godotenv.Load()
	return &Config{
		Paths: PathsConfig{
			ReportsBase: getEnv("REPORTS_BASE", "./Reports"),
			DatasBase:   getEnv("DATAS_BASE", "./Datas"),
			RunLogPath:  getEnv("RUNLOG_PATH", "./normvision.db"),
		},
		Extract: ExtractConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "tur+eng"),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			MinTextLen:    getEnvAsInt("QUALITY_MIN_TEXT_LEN", 50),
			MinPageChars:  getEnvAsInt("QUALITY_MIN_PAGE_CHARS", 100),
			MinAlnumRatio: getEnvAsFloat64("QUALITY_MIN_ALNUM_RATIO", 0.3),
			AcceptDensity: getEnvAsInt("QUALITY_ACCEPT_DENSITY", 200),
		},
		LLM: LLMConfig{
			Model:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			MinInterval: getEnvAsDuration("GEMINI_MIN_INTERVAL", 6*time.Second),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
		},
		Match: MatchConfig{
			MinSimilarity: getEnvAsFloat64("MATCH_MIN_SIMILARITY", 0.7),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Paths.ReportsBase == "" {
		return NewAppError("CONFIG_ERROR", "REPORTS_BASE is required", ErrInvalidInput)
	}
	if c.Paths.DatasBase == "" {
		return NewAppError("CONFIG_ERROR", "DATAS_BASE is required", ErrInvalidInput)
	}
	return nil
}

// ValidateLLM checks the configuration needed for Gemini-backed operations.
func (c *Config) ValidateLLM() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.LLM.Model == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_MODEL is required", ErrInvalidInput)
	}
	return nil
}
