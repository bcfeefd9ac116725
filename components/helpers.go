package components

import (
	"context"

	"mentorform/internal/constants"
)

// GetCsrfToken reads the token the csrf middleware stored in the request locals. fiber locals
// are fasthttp user values, which the request context exposes through Value.
func GetCsrfToken(ctx context.Context) string {
	if csrfToken, ok := ctx.Value(constants.CsrfTokenContextKey).(string); ok {
		return csrfToken
	}
	return ""
}
