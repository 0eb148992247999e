package config

import (
	"log/slog"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order; earlier files and the process environment win.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads whichever env files exist without overriding variables
// already set.
func loadEnvFiles() {
	for _, p := range envFiles {
		if err := godotenv.Load(p); err == nil {
			slog.Debug("Loaded environment file", "path", p)
		}
	}
}
