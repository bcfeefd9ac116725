package constants

const (
	EnvDevelopment      = "development"
	EnvProduction       = "production"
	EnvTest             = "test"
	CsrfInputName       = "_csrf"
	CsrfTokenContextKey = "csrf.token"
	SessionCookieName   = "mentorform_session_id"
	CsrfCookieName      = "mentorform_csrf"
	NotifyEventName     = "notify"
	VisitorContextKey   = "visitor.id"
	LastSeenSessionKey  = "last_seen"
	DefaultAPIURL       = "http://localhost:5000"
	StorageMemory       = "memory"
	StoragePostgres     = "postgres"
	StorageRedis        = "redis"
)
