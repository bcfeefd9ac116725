package auth

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorform/internal/authform"
	"mentorform/internal/constants"
)

func render(t *testing.T, p Props) string {
	t.Helper()
	ctx := context.WithValue(context.Background(), constants.CsrfTokenContextKey, "token-123")

	var buf bytes.Buffer
	require.NoError(t, Card(p).Render(ctx, &buf))
	return buf.String()
}

func TestCardLoginMode(t *testing.T) {
	html := render(t, Props{State: authform.DefaultState()})

	assert.Contains(t, html, "Mentoring Platform")
	assert.Contains(t, html, "Welcome Back!")
	assert.Contains(t, html, `name="email" type="email"`)
	assert.Contains(t, html, `name="password" type="password"`)
	assert.NotContains(t, html, `name="name"`)
	assert.NotContains(t, html, `<select`)
	assert.Contains(t, html, ">Login</button>")
	assert.Contains(t, html, "Don&#39;t have an account? ")
	assert.Contains(t, html, ">Sign Up</button>")
	assert.Contains(t, html, `name="_csrf" value="token-123"`)
	assert.Contains(t, html, `name="mode" value="login"`)
	assert.NotContains(t, html, `role="alert"`)
}

func TestCardRegisterMode(t *testing.T) {
	s := authform.DefaultState()
	s.Mode = authform.ModeRegister
	s.Role = authform.RoleMentor

	html := render(t, Props{State: s})

	assert.Contains(t, html, "Join Us Today")
	assert.Contains(t, html, "Full Name")
	assert.Contains(t, html, `name="name" type="text"`)
	assert.Contains(t, html, `<option value="mentee">I&#39;m looking for a mentor</option>`)
	assert.Contains(t, html, `<option value="mentor" selected>I want to be a mentor</option>`)
	assert.Contains(t, html, ">Create Account</button>")
	assert.Contains(t, html, "Already have an account? ")
	assert.Contains(t, html, `name="mode" value="register"`)
}

func TestCardRetainsEscapedValues(t *testing.T) {
	s := authform.State{
		Email:    `a"b@example.com`,
		Password: "<secret>",
		Name:     "Ada",
		Role:     authform.RoleMentee,
		Mode:     authform.ModeRegister,
	}

	html := render(t, Props{State: s})

	assert.Contains(t, html, `value="a&#34;b@example.com"`)
	assert.Contains(t, html, `value="&lt;secret&gt;"`)
	assert.Contains(t, html, `value="Ada"`)
}

func TestCardShowsNotificationAndErrors(t *testing.T) {
	html := render(t, Props{
		State:        authform.DefaultState(),
		Errors:       map[string]string{"email": "The Email field is required."},
		Notification: &authform.Notification{Level: authform.LevelError, Message: "Error: Invalid credentials"},
	})

	assert.Contains(t, html, `<div role="alert" class="notice" data-level="error">Error: Invalid credentials</div>`)
	assert.Contains(t, html, `<p class="field-error">The Email field is required.</p>`)
}

func TestPageWrapsCard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Page(Props{State: authform.DefaultState()}).Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<title>Mentoring Platform</title>")
	assert.Contains(t, html, `id="auth-card"`)
	assert.Contains(t, html, `addEventListener("notify"`)
}

func TestAuthFormState(t *testing.T) {
	s, err := AuthForm{Mode: "register", Name: "Ada", Email: "ada@example.com", Password: "pw"}.State()
	require.NoError(t, err)
	assert.Equal(t, authform.ModeRegister, s.Mode)
	assert.Equal(t, authform.RoleMentee, s.Role)
	assert.Equal(t, "Ada", s.Name)

	s, err = AuthForm{}.State()
	require.NoError(t, err)
	assert.Equal(t, authform.DefaultState(), s)

	_, err = AuthForm{Mode: "admin"}.State()
	assert.ErrorIs(t, err, authform.ErrUnknownMode)
}
