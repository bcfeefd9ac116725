// Package authform holds the login/registration form: its state, the submission flow and the
// outcome reported back to the user.
package authform

import (
	"errors"
	"fmt"

	"mentorform/internal/api"
)

type Mode string

const (
	ModeLogin    Mode = "login"
	ModeRegister Mode = "register"
)

var ErrUnknownMode = errors.New("unknown form mode")

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLogin, ModeRegister:
		return Mode(s), nil
	case "":
		return ModeLogin, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) Toggle() Mode {
	if m == ModeRegister {
		return ModeLogin
	}
	return ModeRegister
}

type Role string

const (
	RoleMentee Role = "mentee"
	RoleMentor Role = "mentor"
)

// Roles lists the selectable roles in display order.
var Roles = []Role{RoleMentee, RoleMentor}

// State is a snapshot of every field of the form.
type State struct {
	Email    string
	Password string
	Name     string
	Role     Role
	Mode     Mode
}

// DefaultState is the form as first shown: login mode, mentee preselected.
func DefaultState() State {
	return State{
		Role: RoleMentee,
		Mode: ModeLogin,
	}
}

func (s State) IsLogin() bool {
	return s.Mode != ModeRegister
}

// Endpoint is the backend path the state submits to.
func (s State) Endpoint() string {
	if s.IsLogin() {
		return api.LoginPath
	}
	return api.RegisterPath
}
