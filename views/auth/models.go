package auth

import (
	"mentorform/internal/authform"
)

// AuthForm is the posted form. Mode travels in a hidden input since the browser holds the
// state between requests.
type AuthForm struct {
	Mode     string `form:"mode"`
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Role     string `form:"role"`
}

// State converts the posted fields. An unknown mode is an error; an empty role falls back to
// mentee like the select's default option.
func (f AuthForm) State() (authform.State, error) {
	mode, err := authform.ParseMode(f.Mode)
	if err != nil {
		return authform.State{}, err
	}

	role := authform.Role(f.Role)
	if role == "" {
		role = authform.RoleMentee
	}

	return authform.State{
		Email:    f.Email,
		Password: f.Password,
		Name:     f.Name,
		Role:     role,
		Mode:     mode,
	}, nil
}

// Props is everything the card renders from.
type Props struct {
	State        authform.State
	Errors       map[string]string
	Notification *authform.Notification
}

func (p Props) Title() string {
	return "Mentoring Platform"
}

func (p Props) Subtitle() string {
	if p.State.IsLogin() {
		return "Welcome Back!"
	}
	return "Join Us Today"
}

func (p Props) SubmitLabel() string {
	if p.State.IsLogin() {
		return "Login"
	}
	return "Create Account"
}

func (p Props) TogglePrompt() string {
	if p.State.IsLogin() {
		return "Don't have an account? "
	}
	return "Already have an account? "
}

func (p Props) ToggleLabel() string {
	if p.State.IsLogin() {
		return "Sign Up"
	}
	return "Login"
}

func RoleLabel(r authform.Role) string {
	switch r {
	case authform.RoleMentee:
		return "I'm looking for a mentor"
	case authform.RoleMentor:
		return "I want to be a mentor"
	}
	return string(r)
}

// isSelected treats an empty role as mentee, the select's default option.
func isSelected(r, selected authform.Role) bool {
	if selected == "" {
		selected = authform.RoleMentee
	}
	return r == selected
}
