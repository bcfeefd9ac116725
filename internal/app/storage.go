package app

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/gofiber/storage/redis/v3"

	"mentorform/internal/config"
	"mentorform/internal/constants"
)

var ErrUnknownStorage = errors.New("unknown session storage")

// newSessionStorage returns the storage shared by sessions and csrf tokens. Nil selects fiber's
// in-memory default.
func newSessionStorage(config *config.Config) (fiber.Storage, error) {
	switch config.SessionStorage {
	case constants.StorageMemory, "":
		return nil, nil
	case constants.StoragePostgres:
		if config.DatabaseUrl == "" {
			return nil, fmt.Errorf("%s session storage: DATABASE_URL is not set", config.SessionStorage)
		}
		return postgres.New(postgres.Config{
			ConnectionURI: config.DatabaseUrl,
			Table:         "mentorform_sessions",
		}), nil
	case constants.StorageRedis:
		if config.RedisUrl == "" {
			return nil, fmt.Errorf("%s session storage: REDIS_URL is not set", config.SessionStorage)
		}
		return redis.New(redis.Config{
			URL: config.RedisUrl,
		}), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, config.SessionStorage)
}
