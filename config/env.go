package config

import (
	"os"
	"strconv"
)

// EnvString returns the environment value or the fallback when unset or
// empty.
func EnvString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// EnvInt parses an integer environment value, keeping the fallback on
// absence or garbage.
func EnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
