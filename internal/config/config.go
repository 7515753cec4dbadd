package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the service reads from the environment.
// godotenv is loaded by main before this runs.
type Config struct {
	Port string

	GeminiAPIKey string
	GeminiModel  string

	// SheetBackend is "google" (default) or "xlsx".
	SheetBackend    string
	SpreadsheetID   string
	WorksheetName   string
	XLSXPath        string
	CredentialsFile string

	// DatabaseDSN is optional; empty disables the mirror store and sync.
	DatabaseDSN string

	CacheTTL     time.Duration
	SyncInterval time.Duration
}

func Load() Config {
	return Config{
		Port:            getenv("PORT", "8080"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		SheetBackend:    getenv("SHEET_BACKEND", "google"),
		SpreadsheetID:   os.Getenv("SPREADSHEET_ID"),
		WorksheetName:   getenv("WORKSHEET_NAME", "Applications"),
		XLSXPath:        getenv("SHEET_XLSX_PATH", "applications.xlsx"),
		CredentialsFile: getenv("GOOGLE_APPLICATION_CREDENTIALS", "credentials.json"),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		CacheTTL:        time.Duration(getint("SHEET_CACHE_TTL", 30)) * time.Second,
		SyncInterval:    time.Duration(getint("SYNC_INTERVAL", 15)) * time.Minute,
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
