package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type statusBody struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func passing() CheckFunc {
	return func(context.Context) error { return nil }
}

func failing(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func call(t *testing.T, endpoint http.HandlerFunc) (int, statusBody) {
	t.Helper()

	w := httptest.NewRecorder()
	endpoint(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body statusBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func runN(c *check, n int) {
	for range n {
		c.run(context.Background())
	}
}

func TestLiveEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		runs       int
		check      CheckFunc
		opts       []CheckOption
		wantStatus int
		wantChecks map[string]string
	}{
		{name: "passing", runs: 1, check: passing(), wantStatus: http.StatusOK},
		{name: "healthy before first run", runs: 0, check: failing("down"), wantStatus: http.StatusOK},
		{name: "below threshold", runs: 2, check: failing("down"), wantStatus: http.StatusOK},
		{
			name:       "threshold reached",
			runs:       3,
			check:      failing("connection refused"),
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"db": "connection refused"},
		},
		{
			name:       "custom threshold",
			runs:       1,
			check:      failing("down"),
			opts:       []CheckOption{WithFailureThreshold(1)},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"db": "down"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(nil)
			h.AddLivenessCheck("db", time.Second, tt.check, tt.opts...)
			runN(h.liveness[0], tt.runs)

			code, body := call(t, h.LiveEndpoint)
			assert.Equal(t, tt.wantStatus, code)
			if tt.wantChecks == nil {
				assert.Equal(t, "ok", body.Status)
				assert.Empty(t, body.Checks)
			} else {
				assert.Equal(t, "unhealthy", body.Status)
				assert.Equal(t, tt.wantChecks, body.Checks)
			}
		})
	}
}

func TestReadyEndpoint(t *testing.T) {
	h := New(nil)
	h.AddReadinessCheck("postgres", time.Second, passing())
	h.AddReadinessCheck("redis", time.Second, failing("redis ping: EOF"))

	code, body := call(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, map[string]string{"_readiness": "service is not ready"}, body.Checks)
	assert.False(t, h.IsReady())

	h.SetReady(true)
	code, _ = call(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, h.IsReady())

	runN(h.readiness[1], 3)
	code, body = call(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, map[string]string{"redis": "redis ping: EOF"}, body.Checks)
	assert.False(t, h.IsReady())

	h.SetReady(false)
	_, body = call(t, h.ReadyEndpoint)
	assert.Len(t, body.Checks, 2)
}

func TestCheckRecovery(t *testing.T) {
	var (
		mu   sync.Mutex
		fail = true
	)
	fn := func(context.Context) error {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return errors.New("down")
		}
		return nil
	}

	c := newCheck("flaky", time.Second, fn, []CheckOption{WithSuccessThreshold(2)})
	runN(c, 3)
	require.False(t, c.healthy.Load())

	mu.Lock()
	fail = false
	mu.Unlock()

	assert.False(t, c.run(context.Background()), "one success is below the threshold")
	assert.False(t, c.healthy.Load())
	assert.True(t, c.run(context.Background()))
	assert.True(t, c.healthy.Load())
	assert.NoError(t, c.err())
}

func TestStart_LogsTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := New(zap.New(core))
	h.AddLivenessCheck("broken", time.Second, failing("down"), WithFailureThreshold(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.Start(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("Health check failing").Len() == 1
	}, time.Second, 5*time.Millisecond)

	h.Stop()
	h.Stop()
}

func TestCheckers(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	assert.NoError(t, RedisCheck(client)(ctx))
	mr.Close()
	assert.Error(t, RedisCheck(client)(ctx))

	assert.NoError(t, PingCheck(pingerFunc(func(context.Context) error { return nil }))(ctx))
	assert.ErrorContains(t, PingCheck(pingerFunc(func(context.Context) error { return errors.New("refused") }))(ctx), "refused")

	assert.NoError(t, GoroutineCountCheck(1_000_000)(ctx))
	assert.Error(t, GoroutineCountCheck(0)(ctx))
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
