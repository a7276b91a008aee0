package config

import (
	"os"
	"strconv"
)

// GetEnv returns an environment variable with a fallback default.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvAsInt returns an environment variable parsed as int, with fallback.
func GetEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

// JWTSecret signs and verifies session tokens.
func JWTSecret() []byte {
	return []byte(GetEnv("JWT_SECRET", "change-me-in-production"))
}

// AuditLogPath is where the audit trail is appended.
func AuditLogPath() string {
	return GetEnv("AUDIT_LOG_PATH", "logs/audit.log")
}
