package app

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mentorform/internal/api"
	"mentorform/internal/config"
	"mentorform/internal/constants"
	"mentorform/internal/credentials"
	"mentorform/internal/view"
	errorviews "mentorform/views/errors"
)

func New(config *config.Config, log *zap.Logger, jars *credentials.Registry) (*fiber.App, error) {
	fiberlog.Debugf("Starting app with env=%s api=%s storage=%s", config.Env, config.APIURL, config.SessionStorage)

	app := fiber.New(fiber.Config{
		AppName:      "MentorForm 0.1.0",
		ErrorHandler: errorHandler,
	})

	storage, err := newSessionStorage(config)
	if err != nil {
		return nil, err
	}

	sessionStore := session.New(session.Config{
		Expiration:     config.SessionExpiration,
		KeyLookup:      "cookie:" + constants.SessionCookieName,
		CookieSecure:   config.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
		Storage:        storage,
	})

	app.Use(logger.New(logger.Config{
		DisableColors: config.DisableLogColors,
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: config.EnableStackTrace,
	}))
	app.Use(compress.New())
	// htmx is loaded from a CDN that does not send CORP headers.
	app.Use(helmet.New(helmet.Config{
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	if config.CorsOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     config.CorsOrigins,
			AllowCredentials: true,
		}))
	}
	app.Use(favicon.New())
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(config.StaticFS),
		PathPrefix: "static",
	}))

	forms := &FormHandlers{
		client:   api.New(config.APIURL, config.APITimeout),
		jars:     jars,
		sessions: sessionStore,
		log:      log,
	}

	// Health checks are polled by tooling without a browser session.
	app.Get("/healthz", forms.Healthz)

	// Combine two CSRF extractors: use form field as default
	// so forms work without JS, with header as fallback.
	csrfFromForm := csrf.CsrfFromForm(constants.CsrfInputName)
	csrfFromHeader := csrf.CsrfFromHeader(csrf.HeaderName)

	app.Use(csrf.New(csrf.Config{
		CookieName:     constants.CsrfCookieName,
		CookieSecure:   config.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		Expiration:     config.SessionExpiration,
		Storage:        storage,
		KeyGenerator:   uuid.NewString,
		Extractor: func(c *fiber.Ctx) (string, error) {
			token, err := csrfFromForm(c)
			if err == nil {
				return token, nil
			}

			if errors.Is(err, csrf.ErrMissingForm) {
				return csrfFromHeader(c)
			}

			return "", err
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			fiberlog.Error("CSRF error: ", err.Error())
			return view.RenderComponent(c, fiber.StatusForbidden,
				errorviews.GenericError(fiber.StatusForbidden, "Forbidden"))
		},
		ContextKey: constants.CsrfTokenContextKey,
	}))

	app.Use(Visitor(sessionStore))

	app.Get("/", forms.Show)
	app.Post("/form/toggle", forms.Toggle)
	app.Post("/form/submit", forms.Submit)
	app.Post("/logout", forms.Logout)

	return app, nil
}
