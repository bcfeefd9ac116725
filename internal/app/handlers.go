package app

import (
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"mentorform/internal/api"
	"mentorform/internal/authform"
	"mentorform/internal/constants"
	"mentorform/internal/credentials"
	"mentorform/internal/logging"
	"mentorform/internal/view"
	"mentorform/views/auth"
)

type FormHandlers struct {
	client   *api.Client
	jars     *credentials.Registry
	sessions *session.Store
	log      *zap.Logger
}

// Show renders a fresh form. Nothing typed earlier survives a reload.
func (h *FormHandlers) Show(c *fiber.Ctx) error {
	return view.RenderComponent(c, fiber.StatusOK, auth.Page(auth.Props{State: authform.DefaultState()}))
}

// Toggle flips the mode of the posted form and sends it back with every value kept.
func (h *FormHandlers) Toggle(c *fiber.Ctx) error {
	form, err := parseForm(c)
	if err != nil {
		return err
	}

	var props auth.Props
	unsubscribe := form.Subscribe(func(s authform.State) {
		props.State = s
	})
	defer unsubscribe()

	form.ToggleMode()

	return view.RenderSwap(c, fiber.StatusOK, auth.Card(props), auth.Page(props))
}

// Submit validates the posted form, sends it to the backend with the visitor's cookies and
// renders the outcome.
func (h *FormHandlers) Submit(c *fiber.Ctx) error {
	form, err := parseForm(c)
	if err != nil {
		return err
	}

	notifier := authform.NotifierFunc(func(n authform.Notification) {
		if err := view.Trigger(c, constants.NotifyEventName, n); err != nil {
			fiberlog.Error(err)
		}
	})

	client := h.client.WithCookieJar(h.jars.Jar(visitorID(c)))
	submitter := authform.NewSubmitter(client, notifier, logging.UserSink(h.log))

	outcome := submitter.Submit(c.UserContext(), form)
	logging.Outcome(h.log, outcome)

	props := auth.Props{
		State:        form.State(),
		Errors:       outcome.Invalid,
		Notification: outcome.Notification,
	}

	status := fiber.StatusOK
	if outcome.Kind == authform.OutcomeInvalid {
		status = fiber.StatusUnprocessableEntity
	}

	return view.RenderSwap(c, status, auth.Card(props), auth.Page(props))
}

// Logout ends the visitor's backend session and forgets its cookies.
func (h *FormHandlers) Logout(c *fiber.Ctx) error {
	id := visitorID(c)

	if _, err := h.client.WithCookieJar(h.jars.Jar(id)).Logout(c.UserContext()); err != nil {
		h.log.Warn("backend logout failed", zap.Error(err))
	}
	h.jars.Drop(id)

	sess, err := h.sessions.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Reset(); err != nil {
		return err
	}
	if err := sess.Save(); err != nil {
		return err
	}

	props := auth.Props{State: authform.DefaultState()}
	return view.RenderSwap(c, fiber.StatusOK, auth.Card(props), auth.Page(props))
}

// Healthz reports whether the backend answers. The app itself is healthy if it can reply.
func (h *FormHandlers) Healthz(c *fiber.Ctx) error {
	backend := "healthy"
	if _, err := h.client.Health(c.UserContext()); err != nil {
		h.log.Debug("backend health check failed", zap.Error(err))
		backend = "unreachable"
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"backend": backend,
	})
}

func parseForm(c *fiber.Ctx) (*authform.Form, error) {
	var in auth.AuthForm
	if err := c.BodyParser(&in); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	state, err := in.State()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return authform.Restore(state), nil
}
