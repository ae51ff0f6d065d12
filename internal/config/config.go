// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	RepoPath       string
	ListenAddr     string
	DBPath         string
	PathFilters    []string
	DocExtensions  []string
	DefaultWeekday string
	DefaultTime    string
	OpenAIAPIKey   string
	SummaryModel   string
}

// SummariesEnabled returns true when an API key is configured. Without a key
// the app starts but summary generation returns a disabled notice.
func (c *Config) SummariesEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// Load reads configuration from environment variables and returns a validated
// Config. WIKIREVIEW_REPO_PATH is required; everything else has a default:
// WIKIREVIEW_LISTEN_ADDR (127.0.0.1:8080), WIKIREVIEW_DB_PATH (wikireview.db),
// WIKIREVIEW_PATH_FILTERS (none), WIKIREVIEW_DOC_EXTENSIONS (.md),
// WIKIREVIEW_DEFAULT_WEEKDAY (tuesday), WIKIREVIEW_DEFAULT_TIME (15:00),
// WIKIREVIEW_SUMMARY_MODEL (gpt-4o-mini). WIKIREVIEW_OPENAI_API_KEY is
// optional; without it summaries are disabled.
func Load() (*Config, error) {
	repoPath := os.Getenv("WIKIREVIEW_REPO_PATH")
	if repoPath == "" {
		return nil, fmt.Errorf("WIKIREVIEW_REPO_PATH is required")
	}
	if info, err := os.Stat(repoPath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("WIKIREVIEW_REPO_PATH %q is not a directory", repoPath)
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("WIKIREVIEW_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "wikireview.db"
	if v, ok := os.LookupEnv("WIKIREVIEW_DB_PATH"); ok {
		dbPath = v
	}

	// Rule order is significant: later rules override earlier ones, so the
	// list is kept exactly as written.
	pathFilters := splitList(os.Getenv("WIKIREVIEW_PATH_FILTERS"))

	docExtensions := splitList(os.Getenv("WIKIREVIEW_DOC_EXTENSIONS"))
	if len(docExtensions) == 0 {
		docExtensions = []string{".md"}
	}
	for i, ext := range docExtensions {
		if !strings.HasPrefix(ext, ".") {
			docExtensions[i] = "." + ext
		}
	}

	weekday := "tuesday"
	if v, ok := os.LookupEnv("WIKIREVIEW_DEFAULT_WEEKDAY"); ok {
		weekday = strings.ToLower(strings.TrimSpace(v))
	}

	at := "15:00"
	if v, ok := os.LookupEnv("WIKIREVIEW_DEFAULT_TIME"); ok {
		at = strings.TrimSpace(v)
	}

	model := "gpt-4o-mini"
	if v, ok := os.LookupEnv("WIKIREVIEW_SUMMARY_MODEL"); ok {
		model = v
	}

	return &Config{
		RepoPath:       repoPath,
		ListenAddr:     listenAddr,
		DBPath:         dbPath,
		PathFilters:    pathFilters,
		DocExtensions:  docExtensions,
		DefaultWeekday: weekday,
		DefaultTime:    at,
		OpenAIAPIKey:   os.Getenv("WIKIREVIEW_OPENAI_API_KEY"),
		SummaryModel:   model,
	}, nil
}

// splitList splits a comma-separated env value, trimming whitespace and
// dropping empty items. Returns an empty (non-nil) slice for empty input.
func splitList(v string) []string {
	items := []string{}
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
