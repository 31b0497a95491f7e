// Package logger configures the process-wide logrus logger.
package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/config"
	log "github.com/sirupsen/logrus"
)

// Prepare applies the configured level and output format to the standard logger.
func Prepare(cfg config.LoggerConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", cfg.Format)
	}

	log.SetOutput(os.Stdout)
	log.SetLevel(level)
	return nil
}
