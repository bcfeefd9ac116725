package api

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// Jar holds the cookies the backend set for one visitor. The client only ever talks to one
// backend host, so cookies are keyed by name alone.
type Jar struct {
	mu      sync.Mutex
	cookies map[string]*fasthttp.Cookie
	now     func() time.Time
}

func NewJar() *Jar {
	return &Jar{
		cookies: make(map[string]*fasthttp.Cookie),
		now:     time.Now,
	}
}

// Cookie returns the stored value for name, or "" if there is none.
func (j *Jar) Cookie(name string) string {
	j.mu.Lock()
	defer j.mu.Unlock()

	c, ok := j.cookies[name]
	if !ok || j.expired(c) {
		return ""
	}
	return string(c.Value())
}

func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.cookies)
}

// addTo replays the stored cookies on the agent's request. Expired ones are dropped.
func (j *Jar) addTo(a *fiber.Agent) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for name, c := range j.cookies {
		if j.expired(c) {
			delete(j.cookies, name)
			continue
		}
		a.Cookie(name, string(c.Value()))
	}
}

// store keeps every cookie set by the response. An empty value or a past expiry clears it.
func (j *Jar) store(h *fasthttp.ResponseHeader) {
	j.mu.Lock()
	defer j.mu.Unlock()

	h.VisitAllCookie(func(_, value []byte) {
		c := &fasthttp.Cookie{}
		if err := c.ParseBytes(value); err != nil {
			return
		}

		name := string(c.Key())
		if len(c.Value()) == 0 || j.expired(c) {
			delete(j.cookies, name)
			return
		}
		j.cookies[name] = c
	})
}

func (j *Jar) expired(c *fasthttp.Cookie) bool {
	exp := c.Expire()
	return exp != fasthttp.CookieExpireUnlimited && !exp.After(j.now())
}
