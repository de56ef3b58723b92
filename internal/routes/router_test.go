package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"volunteer-match/internal/config"
	"volunteer-match/internal/infrastructure/cache"
	"volunteer-match/internal/infrastructure/database/memory"
	"volunteer-match/internal/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{BasePath: "/api/v1", Environment: "test"},
		Query:     config.QueryConfig{OrdersDefaultLimit: 100, UsersDefaultLimit: 10},
		RateLimit: config.RateLimitConfig{GeneralRPS: 1000, GeneralBurst: 1000},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET", "POST"}},
	}
}

func newTestEngine(t *testing.T) (*gin.Engine, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	sessionCache := cache.NewSessionCache(cache.NewClient(config.RedisConfig{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = sessionCache.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := memory.NewStore()
	m := metrics.New()
	engine := SetupRoutes(ctx, testConfig(), Dependencies{
		Users:        store.Users(),
		Sessions:     store.Sessions(),
		Orders:       store.Orders(),
		SessionCache: sessionCache,
		Database:     store,
		CacheHealth:  sessionCache,
		Metrics:      m,
	})
	return engine, m
}

func serve(engine http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSetupRoutes_RegisterThenMeUsesCache(t *testing.T) {
	engine, m := newTestEngine(t)

	rec := serve(engine, http.MethodPost, "/api/v1/register",
		`{"phone_number":"+15550100000","first_name":"Ada","last_name":"Byron","type":"senior","token":"t-1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}

	rec = serve(engine, http.MethodGet, "/api/v1/me", "", "t-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"phone_number":"+15550100000"`) {
		t.Fatalf("unexpected /me body: %s", rec.Body.String())
	}

	if got := testutil.ToFloat64(m.SessionCacheLookups.WithLabelValues("hit")); got != 1 {
		t.Fatalf("expected one cache hit, got %v", got)
	}
}

func TestSetupRoutes_ServesHealthAndMetrics(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := serve(engine, http.MethodGet, "/api/v1/health", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"cache":"healthy"`) {
		t.Fatalf("health: got %d %s", rec.Code, rec.Body.String())
	}

	serve(engine, http.MethodGet, "/api/v1/orders", "", "")

	rec = serve(engine, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`http_requests_total{method="GET",route="/api/v1/orders",status="200"} 1`,
		"order_query_duration_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected metrics output to contain %q", want)
		}
	}
}

func TestSetupRoutes_UnknownRouteIs404(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := serve(engine, http.MethodGet, "/orders", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected routes to live under the base path, got %d", rec.Code)
	}
}
