package constants

import "time"

const (
	ProfileID = "1"

	ProfileNameMinLength     = 2
	ProfileNameMaxLength     = 50
	ProfileBioMinLength      = 10
	ProfileBioMaxLength      = 500
	ProfilePhoneMinLength    = 10
	ProfileLocationMinLength = 2
	ProfileLocationMaxLength = 100

	LoginPasswordMinLength = 3
	JWTSecretMinLength     = 32

	DefaultMaxRequestSize = 1 << 20

	SessionStorageKey    = "auth-storage"
	SessionSchemaVersion = 1
	DefaultLoginLatency  = 1 * time.Second

	DefaultFetchRetries    = 3
	DefaultFetchRetryDelay = 1 * time.Second
	DefaultToastDuration   = 3 * time.Second
	DefaultClientTimeout   = 10 * time.Second

	RateLimitLoginRequestsPerSecond   = 1.0
	RateLimitLoginBurst               = 5
	RateLimitUpdateRequestsPerSecond  = 2.0
	RateLimitUpdateBurst              = 10
	RateLimitGeneralRequestsPerSecond = 20.0
	RateLimitGeneralBurst             = 40
	RateLimitCleanupInterval          = 5 * time.Minute

	DBPoolMaxConns        = 10
	DBPoolMinConns        = 1
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = 1 * time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = 1 * time.Second
	DBPoolMetricsInterval = 30 * time.Second
	DBMigrationTimeout    = 1 * time.Minute

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultProfileHTTPPort         = "8080"
	DefaultProfileRequestTimeout   = 5 * time.Second
	DefaultAccessTokenTTL          = 24 * time.Hour
	DefaultCircuitBreakerThreshold = 5
	DefaultCircuitBreakerTimeout   = 5 * time.Second
	DefaultCircuitBreakerReset     = 10 * time.Second

	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024
	WebSocketWriteWait       = 10 * time.Second
	WebSocketPongWait        = 60 * time.Second
	WebSocketPingPeriod      = (WebSocketPongWait * 9) / 10
	WebSocketMaxMessageSize  = 4096
	WebSocketSendBufSize     = 16

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
