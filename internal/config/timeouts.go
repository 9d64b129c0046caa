package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	PollInterval      time.Duration // Interval between instance status and connectivity polls
	InstanceActive    time.Duration // Timeout for an instance to leave the building state
	ServerCreate      time.Duration // Timeout for the provider create call, retries included
	Delete            time.Duration // Timeout for each delete operation
	ProbeTimeout      time.Duration // Per-request timeout of the connectivity probe
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - HOSTPARTY_POLL_INTERVAL (default: 1s)
//   - HOSTPARTY_TIMEOUT_INSTANCE_ACTIVE (default: 15m)
//   - HOSTPARTY_TIMEOUT_SERVER_CREATE (default: 5m)
//   - HOSTPARTY_TIMEOUT_DELETE (default: 5m)
//   - HOSTPARTY_PROBE_TIMEOUT (default: 5s)
//   - HOSTPARTY_RETRY_MAX_ATTEMPTS (default: 5)
//   - HOSTPARTY_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PollInterval:      parseDuration("HOSTPARTY_POLL_INTERVAL", 1*time.Second),
		InstanceActive:    parseDuration("HOSTPARTY_TIMEOUT_INSTANCE_ACTIVE", 15*time.Minute),
		ServerCreate:      parseDuration("HOSTPARTY_TIMEOUT_SERVER_CREATE", 5*time.Minute),
		Delete:            parseDuration("HOSTPARTY_TIMEOUT_DELETE", 5*time.Minute),
		ProbeTimeout:      parseDuration("HOSTPARTY_PROBE_TIMEOUT", 5*time.Second),
		RetryMaxAttempts:  parseInt("HOSTPARTY_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("HOSTPARTY_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a positive duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}

// parseInt parses a non-negative integer from an environment variable.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}

	return i
}
