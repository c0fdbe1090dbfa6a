package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (domain.Identity, error) {
	if token != "good" {
		return domain.Identity{}, errors.New("bad token")
	}
	return domain.Identity{UserID: "u1", Role: domain.RoleUser}, nil
}

func status(t *testing.T, app *fiber.App, path, authz string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode
}

func TestJWT(t *testing.T) {
	log := zap.NewNop().Sugar()
	app := fiber.New()
	app.Get("/me", JWT(stubVerifier{}, log), func(c *fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(id.UserID)
	})

	cases := []struct {
		authz string
		want  int
	}{
		{"", fiber.StatusUnauthorized},
		{"Token good", fiber.StatusUnauthorized},
		{"Bearer bad", fiber.StatusUnauthorized},
		{"Bearer good", fiber.StatusOK},
	}
	for _, tc := range cases {
		if got := status(t, app, "/me", tc.authz); got != tc.want {
			t.Fatalf("%q: expected %d got %d", tc.authz, tc.want, got)
		}
	}
}

type observed struct {
	mu     sync.Mutex
	route  string
	status int
}

func (o *observed) ObserveRequest(_, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.route, o.status = route, status
}

func TestRequestLoggerRendersErrors(t *testing.T) {
	obs := &observed{}
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop().Sugar(), obs))
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "nope")
	})

	req := httptest.NewRequest("GET", "/items/42", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusTeapot {
		t.Fatalf("expected 418 got %d", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Fatalf("expected a request id header")
	}
	if obs.route != "/items/:id" || obs.status != fiber.StatusTeapot {
		t.Fatalf("expected route pattern and status got %q %d", obs.route, obs.status)
	}
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop().Sugar(), nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get(HeaderRequestID); got != "abc" {
		t.Fatalf("expected abc got %q", got)
	}
}

func TestRecovery(t *testing.T) {
	app := fiber.New()
	app.Use(Recovery(zap.NewNop().Sugar()))
	app.Get("/boom", func(c *fiber.Ctx) error { panic("boom") })

	if got := status(t, app, "/boom", ""); got != fiber.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", got)
	}
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, zap.NewNop().Sugar())
	defer l.Close()
	app := fiber.New()
	app.Get("/", l.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < visitorBurst; i++ {
		if got := status(t, app, "/", ""); got != fiber.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, got)
		}
	}
	if got := status(t, app, "/", ""); got != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", got)
	}
}

type memCounter struct {
	mu   sync.Mutex
	hits map[string]int64
	err  error
}

func (m *memCounter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if m.hits == nil {
		m.hits = map[string]int64{}
	}
	m.hits[key]++
	return m.hits[key], nil
}

func TestRateLimiter(t *testing.T) {
	counter := &memCounter{}
	rl := NewRateLimiter(counter, "rl", 2, time.Minute, zap.NewNop().Sugar())
	app := fiber.New()
	app.Get("/", rl.ByIP(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		if got := status(t, app, "/", ""); got != fiber.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, got)
		}
	}
	if got := status(t, app, "/", ""); got != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", got)
	}

	counter.err = errors.New("redis down")
	if got := status(t, app, "/", ""); got != fiber.StatusOK {
		t.Fatalf("expected limiter to fail open got %d", got)
	}
}
