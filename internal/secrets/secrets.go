package secrets

import (
	"os"
)

// Secrets holds the connection strings for the optional session storage backends.
type Secrets interface {
	DatabaseUrl() string
	RedisUrl() string
}

func New() Secrets {
	return &secrets{
		databaseUrl: os.Getenv("DATABASE_URL"),
		redisUrl:    os.Getenv("REDIS_URL"),
	}
}

type secrets struct {
	databaseUrl string
	redisUrl    string
}

func (s secrets) DatabaseUrl() string {
	return s.databaseUrl
}

func (s secrets) RedisUrl() string {
	return s.redisUrl
}
