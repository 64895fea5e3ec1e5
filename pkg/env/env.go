// Package env reads process environment variables that sit outside the
// PRICING_ config surface, such as LOG_FORMAT.
package env

import "os"

// Get returns the named variable's value, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
