package logging

import "go.uber.org/zap"

// New creates a new zap logger for code that runs outside the server, where
// config.New has not replaced the global logger
func New() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
