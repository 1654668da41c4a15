package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	commonerrors "github.com/AlibekovAA/profile-editor/internal/common/errors"
)

var ErrInvalidJWTSecret = commonerrors.ErrInvalidJWTSecret

type ProfileConfig struct {
	HTTPPort                string
	DatabaseURL             string
	JWTSecret               string
	AccessTokenTTL          time.Duration
	RequestTimeout          time.Duration
	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
	LogDir                  string
	LogLevel                string
}

// AuthEnabled reports whether the demo login is mounted and profile writes
// require a bearer token.
func (c ProfileConfig) AuthEnabled() bool {
	return c.JWTSecret != ""
}

type ClientConfig struct {
	APIURL          string
	StateDir        string
	LoginLatency    time.Duration
	FetchRetries    int
	FetchRetryDelay time.Duration
	ToastDuration   time.Duration
	RequestTimeout  time.Duration
	LogLevel        string
}

func LoadProfileConfig() (ProfileConfig, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret != "" {
		if err := validateJWTSecret(jwtSecret); err != nil {
			return ProfileConfig{}, err
		}
	}

	return ProfileConfig{
		HTTPPort:                getEnv("PROFILE_HTTP_PORT", constants.DefaultProfileHTTPPort),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		JWTSecret:               jwtSecret,
		AccessTokenTTL:          getDurationEnv("PROFILE_ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		RequestTimeout:          getTimeoutEnv("PROFILE_REQUEST_TIMEOUT", constants.DefaultProfileRequestTimeout),
		CircuitBreakerThreshold: int32(getIntEnv("PROFILE_CB_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerTimeout:   getDurationEnv("PROFILE_CB_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("PROFILE_CB_RESET", constants.DefaultCircuitBreakerReset),
		LogDir:                  getEnv("LOG_DIR", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}, nil
}

func LoadClientConfig() ClientConfig {
	_ = godotenv.Load()

	return ClientConfig{
		APIURL:          getEnv("PROFILE_API_URL", "http://localhost:"+constants.DefaultProfileHTTPPort),
		StateDir:        getEnv("PROFILE_STATE_DIR", defaultStateDir()),
		LoginLatency:    getDurationEnv("PROFILE_LOGIN_LATENCY", constants.DefaultLoginLatency),
		FetchRetries:    getIntEnv("PROFILE_FETCH_RETRIES", constants.DefaultFetchRetries),
		FetchRetryDelay: getDurationEnv("PROFILE_FETCH_RETRY_DELAY", constants.DefaultFetchRetryDelay),
		ToastDuration:   getDurationEnv("PROFILE_TOAST_DURATION", constants.DefaultToastDuration),
		RequestTimeout:  getTimeoutEnv("PROFILE_CLIENT_TIMEOUT", constants.DefaultClientTimeout),
		LogLevel:        getEnv("LOG_LEVEL", "warning"),
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "profilectl")
	}
	return ".profilectl"
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return ErrInvalidJWTSecret.WithCause(fmt.Errorf("got %d bytes", len(secret)))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// getTimeoutEnv is getDurationEnv for deadlines: zero or negative values fall
// back, since an expired deadline would fail every call.
func getTimeoutEnv(key string, fallback time.Duration) time.Duration {
	if d := getDurationEnv(key, fallback); d > 0 {
		return d
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
