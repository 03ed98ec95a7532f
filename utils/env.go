package utils

import "os"

var (
	GRIDDLE_ADDR = GetEnvOrDefault("GRIDDLE_ADDR", "http://localhost:3841")

	// Read retry policy for transient transport failures
	READ_MAX_TRIES           = GetEnvOrDefaultInt("GRIDDLE_READ_MAX_TRIES", 4)
	READ_BACKOFF_INITIAL_MS  = GetEnvOrDefaultInt("GRIDDLE_READ_BACKOFF_INITIAL_MS", 50)
	READ_BACKOFF_MAX_MS      = GetEnvOrDefaultInt("GRIDDLE_READ_BACKOFF_MAX_MS", 1000)
	REQUEST_TIMEOUT_SEC      = GetEnvOrDefaultInt("GRIDDLE_REQUEST_TIMEOUT_SEC", 30)

	USERNAME = os.Getenv("GRIDDLE_USERNAME")
	PASSWORD = os.Getenv("GRIDDLE_PASSWORD")
)
