package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	RawMailDir string
	OutputDir  string

	BackendAPIBaseURL   string
	BackendAPIToken     string
	BackendRateLimitRPS int
	BackendTimeoutMs    int
	BackendPushBatch    int

	// Import defaults, applied whenever a spreadsheet leaves a field
	// unresolved. Tunable per market without touching the pipeline.
	DefaultPlantName      string
	DefaultRegion         string
	DefaultCity           string
	DefaultResponsible    string
	PhonePlaceholder      string
	DefaultDiscount       float64
	DefaultCommission     float64
	DefaultRating         float64
	PlaceholderMailDomain string

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	MailListenerProvider     string
	MailListenerLabel        string
	MailListenerIntervalSec  int
	MailListenerFetchMax     int
	MailListenerProcessBatch int
	MailListenerAutoExport   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		RawMailDir: getEnv("MAIL_RAW_DIR", filepath.Join(cwd, "data", "raw")),
		OutputDir:  getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		BackendAPIBaseURL:   getEnv("BACKEND_API_BASE_URL", "https://api.solinvestti.com.br/v1"),
		BackendAPIToken:     getEnv("BACKEND_API_TOKEN", ""),
		BackendRateLimitRPS: getEnvInt("BACKEND_RATE_LIMIT_RPS", 5),
		BackendTimeoutMs:    getEnvInt("BACKEND_TIMEOUT_MS", 30000),
		BackendPushBatch:    getEnvInt("BACKEND_PUSH_BATCH", 100),

		DefaultPlantName:      getEnv("IMPORT_DEFAULT_PLANT_NAME", "Nova Usina"),
		DefaultRegion:         getEnv("IMPORT_DEFAULT_REGION", "SP"),
		DefaultCity:           getEnv("IMPORT_DEFAULT_CITY", "São Paulo"),
		DefaultResponsible:    getEnv("IMPORT_DEFAULT_RESPONSIBLE", "Não informado"),
		PhonePlaceholder:      getEnv("IMPORT_PHONE_PLACEHOLDER", "—"),
		DefaultDiscount:       getEnvFloat("IMPORT_DEFAULT_DISCOUNT", 15),
		DefaultCommission:     getEnvFloat("IMPORT_DEFAULT_COMMISSION", 5),
		DefaultRating:         getEnvFloat("IMPORT_DEFAULT_RATING", 3),
		PlaceholderMailDomain: getEnv("IMPORT_MAIL_DOMAIN", "usinas.solinvestti.com.br"),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		MailListenerProvider:     getEnv("MAIL_LISTENER_PROVIDER", "gmail"),
		MailListenerLabel:        getEnv("MAIL_LISTENER_LABEL", "INBOX"),
		MailListenerIntervalSec:  getEnvInt("MAIL_LISTENER_INTERVAL_SEC", 30),
		MailListenerFetchMax:     getEnvInt("MAIL_LISTENER_FETCH_MAX", 20),
		MailListenerProcessBatch: getEnvInt("MAIL_LISTENER_PROCESS_BATCH", 20),
		MailListenerAutoExport:   getEnvBool("MAIL_LISTENER_AUTO_EXPORT", true),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
