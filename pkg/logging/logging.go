// Package logging builds the application logger.
package logging

import (
	"go.uber.org/zap"
)

// Setup builds a zap logger. Verbose mode switches to the development
// config so per-entry skip and exclude annotations become visible.
func Setup(verbose bool, appName, appVersion string) (*zap.Logger, error) {
	var cfg zap.Config

	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	cfg.InitialFields = map[string]interface{}{
		"appName":    appName,
		"appVersion": appVersion,
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewExample(), err
	}

	return logger, nil
}
