package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/civicdesk/complaint-dashboard/models"
)

// Config holds the project config values
type Config struct {
	Env     string `envconfig:"APP_ENV" default:"production"`
	BaseURL string `envconfig:"BASE_URL"`
	Port    string `envconfig:"PORT" default:"8080"`

	// BackendURL and BackendAppID locate the backend-as-a-service app that owns
	// complaints, users and authentication
	BackendURL     string        `envconfig:"BACKEND_URL" required:"true"`
	BackendAppID   string        `envconfig:"BACKEND_APP_ID" required:"true"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"30s"`

	PageSize             int           `envconfig:"PAGE_SIZE" default:"10"`
	SessionTTL           time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	SessionSweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
	CredentialCacheTTL   time.Duration `envconfig:"CREDENTIAL_CACHE_TTL" default:"5m"`
	RequestTimeout       time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
	AllowedOrigins       []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	LoginRatePerMinute   int           `envconfig:"LOGIN_RATE_PER_MINUTE" default:"10"`
	DisplayTimezone      string        `envconfig:"DISPLAY_TIMEZONE" default:"UTC"`
}

// New sets up all config related services
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// a missing .env is normal outside local development
		zap.S().Debugw("no .env file loaded", "error", err)
	}

	var conf Config
	if err := envconfig.Process("", &conf); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	//setup zap logger and replace default logger
	logger, err := setLogger(conf.Env)
	if err != nil {
		return nil, err
	}
	_ = zap.ReplaceGlobals(logger)

	if conf.PageSize < 1 {
		return nil, fmt.Errorf("PAGE_SIZE must be at least 1, got %d", conf.PageSize)
	}
	return &conf, nil
}

// Location returns the time zone dates are displayed in, UTC when the
// configured zone cannot be loaded
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		zap.S().Warnw("unknown display timezone, using UTC", "timezone", c.DisplayTimezone, "error", err)
		return time.UTC
	}
	return loc
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: errText},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	w.Write(b)
}
