package authform

import (
	"context"

	"mentorform/internal/api"
)

const (
	MessageSuccess      = "Success!"
	MessageNetworkError = "Network error"
	messageErrorPrefix  = "Error: "
	messageUnknownError = "request failed"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is the blocking message shown to the user once a submission finishes.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// UserSink receives the user object returned by a successful submission.
type UserSink interface {
	User(user map[string]any)
}

type UserSinkFunc func(user map[string]any)

func (f UserSinkFunc) User(user map[string]any) { f(user) }

// Backend is the part of *api.Client the submitter needs.
type Backend interface {
	Post(ctx context.Context, path string, body any) (*api.Result, error)
}

type OutcomeKind int

const (
	// OutcomeInvalid means the form was rejected locally and nothing was sent.
	OutcomeInvalid OutcomeKind = iota + 1
	OutcomeSuccess
	OutcomeFailure
	OutcomeNetworkError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeNetworkError:
		return "network_error"
	}
	return "unknown"
}

type Outcome struct {
	Kind         OutcomeKind
	Endpoint     string
	Notification *Notification
	User         map[string]any
	Invalid      map[string]string
	// Err is the transport error behind OutcomeNetworkError. It is never shown to the user.
	Err error
}

type Submitter struct {
	backend  Backend
	notifier Notifier
	users    UserSink
}

func NewSubmitter(backend Backend, notifier Notifier, users UserSink) *Submitter {
	return &Submitter{
		backend:  backend,
		notifier: notifier,
		users:    users,
	}
}

// Submit sends the form once. Every outcome is final: there is no retry, and the form keeps
// whatever the user typed. The form is not locked while the request is in flight.
func (s *Submitter) Submit(ctx context.Context, form *Form) Outcome {
	state := form.State()
	endpoint := state.Endpoint()

	if invalid := Validate(state); len(invalid) > 0 {
		return Outcome{Kind: OutcomeInvalid, Endpoint: endpoint, Invalid: invalid}
	}

	res, err := s.backend.Post(ctx, endpoint, state.Request())
	if err != nil {
		return s.finish(Outcome{
			Kind:         OutcomeNetworkError,
			Endpoint:     endpoint,
			Notification: &Notification{Level: LevelError, Message: MessageNetworkError},
			Err:          err,
		})
	}

	if res.Success {
		if s.users != nil {
			s.users.User(res.User)
		}
		return s.finish(Outcome{
			Kind:         OutcomeSuccess,
			Endpoint:     endpoint,
			Notification: &Notification{Level: LevelSuccess, Message: MessageSuccess},
			User:         res.User,
		})
	}

	msg := res.Error
	if msg == "" {
		msg = messageUnknownError
	}
	return s.finish(Outcome{
		Kind:         OutcomeFailure,
		Endpoint:     endpoint,
		Notification: &Notification{Level: LevelError, Message: messageErrorPrefix + msg},
	})
}

func (s *Submitter) finish(o Outcome) Outcome {
	if s.notifier != nil && o.Notification != nil {
		s.notifier.Notify(*o.Notification)
	}
	return o
}
