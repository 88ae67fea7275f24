package utils

import (
	"os"
	"strconv"

	"github.com/pathwise/pathwise-backend/internal/logger"
)

// GetEnv reads key from the environment, falling back to defaultVal when
// unset. A nil log skips the lookup trace.
func GetEnv(key, defaultVal string, log *logger.Logger) string {
	val, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not set, using default", "env_var", key, "default", defaultVal)
		}
		return defaultVal
	}
	if log != nil {
		log.Debug("Environment variable found", "env_var", key)
	}
	return val
}

// GetEnvAsInt is GetEnv for integer values; an unset or unparsable variable
// yields defaultVal.
func GetEnvAsInt(key string, defaultVal int, log *logger.Logger) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		if log != nil {
			log.Debug("Environment variable not set, using default", "env_var", key, "default", defaultVal)
		}
		return defaultVal
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		if log != nil {
			log.Debug("Environment variable is not an int, using default", "env_var", key, "value", raw, "default", defaultVal, "error", err)
		}
		return defaultVal
	}
	return parsed
}
