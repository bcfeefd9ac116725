// Package api is the client for the mentoring platform REST backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	LoginPath    = "/api/login"
	RegisterPath = "/api/register"
	LogoutPath   = "/api/logout"
	HealthPath   = "/api/health"
)

// ErrTransport wraps every failure where the backend did not produce a usable JSON reply:
// unreachable host, timeout, DNS failure, or a body that is not JSON.
var ErrTransport = errors.New("backend transport failure")

// Result is the reply shape shared by the backend's auth endpoints.
type Result struct {
	Success bool           `json:"success"`
	User    map[string]any `json:"user,omitempty"`
	Error   string         `json:"error,omitempty"`
	Message string         `json:"message,omitempty"`

	// Status is the HTTP status code of the reply.
	Status int `json:"-"`
}

type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Client posts JSON to the backend. Requests carry the cookies held in the client's jar, and
// cookies set by the backend are stored back into it.
type Client struct {
	baseURL string
	timeout time.Duration
	jar     *Jar
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
	}
}

// WithCookieJar returns a copy of the client bound to jar.
func (c *Client) WithCookieJar(jar *Jar) *Client {
	cp := *c
	cp.jar = jar
	return &cp
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends body as JSON to path and decodes the reply.
func (c *Client) Post(ctx context.Context, path string, body any) (*Result, error) {
	var res *Result
	status, err := c.do(ctx, fiber.MethodPost, path, body, &res)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, emptyReply(fiber.MethodPost, path, status)
	}
	res.Status = status
	return res, nil
}

func (c *Client) Logout(ctx context.Context) (*Result, error) {
	return c.Post(ctx, LogoutPath, nil)
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h *Health
	status, err := c.do(ctx, fiber.MethodGet, HealthPath, nil, &h)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, emptyReply(fiber.MethodGet, HealthPath, status)
	}
	return h, nil
}

// emptyReply covers a JSON null body, which decodes without error but carries no reply.
func emptyReply(method, path string, status int) error {
	return fmt.Errorf("%w: %s %s: empty reply (status %d)", ErrTransport, method, path, status)
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	timeout, err := c.timeoutFor(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}

	resp := fiber.AcquireResponse()
	defer fiber.ReleaseResponse(resp)

	a := fiber.AcquireAgent()
	a.SetResponse(resp)
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if timeout > 0 {
		a.Timeout(timeout)
	}

	if c.jar != nil {
		c.jar.addTo(a)
	}

	if body != nil {
		a.JSON(body)
	}

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}

	// Bytes releases the agent. resp and respBody stay valid until resp is released.
	code, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		return code, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, errors.Join(errs...))
	}

	if c.jar != nil {
		c.jar.store(&resp.Header)
	}

	if err := json.Unmarshal(respBody, v); err != nil {
		return code, fmt.Errorf("%w: %s %s: decode reply (status %d): %w", ErrTransport, method, path, code, err)
	}

	return code, nil
}

// timeoutFor returns the earlier of the configured timeout and the ctx deadline. A deadline
// already passed is an error so the request is never sent without a bound.
func (c *Client) timeoutFor(ctx context.Context) (time.Duration, error) {
	d := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		rem := time.Until(deadline)
		if rem <= 0 {
			return 0, context.DeadlineExceeded
		}
		if d <= 0 || rem < d {
			d = rem
		}
	}
	return d, nil
}
