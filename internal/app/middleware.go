package app

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"mentorform/internal/constants"
)

// Visitor makes sure every browser has a session and exposes its id in the locals. The id keys
// the visitor's backend cookie jar.
func Visitor(sessionStore *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionStore.Get(c)
		if err != nil {
			return err
		}

		c.Locals(constants.VisitorContextKey, sess.ID())

		sess.Set(constants.LastSeenSessionKey, time.Now().Unix())
		if err := sess.Save(); err != nil {
			return err
		}

		return c.Next()
	}
}

func visitorID(c *fiber.Ctx) string {
	id, _ := c.Locals(constants.VisitorContextKey).(string)
	return id
}
