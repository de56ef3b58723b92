package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"volunteer-match/internal/config"
	"volunteer-match/internal/infrastructure/database/memory"
	"volunteer-match/internal/middleware"
	"volunteer-match/internal/usecase/order"
	"volunteer-match/internal/usecase/user"

	"github.com/gin-gonic/gin"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Query: config.QueryConfig{OrdersDefaultLimit: 100, UsersDefaultLimit: 10}}
	store := memory.NewStore()
	userService := user.NewService(store.Users(), store.Sessions(), nil, cfg, nil)
	orderService := order.NewService(store.Orders(), cfg, nil)

	router := gin.New()
	api := router.Group("")
	NewHealthHandler(store, nil).RegisterRoutes(api)
	NewUserHandler(userService).RegisterRoutes(api)
	NewOrderHandler(orderService).RegisterRoutes(api)
	authHandler := NewAuthHandler(userService)
	authHandler.RegisterRoutes(api)

	session := api.Group("")
	session.Use(middleware.SessionMiddleware(userService))
	authHandler.RegisterSessionRoutes(session)

	return router
}

func do(t *testing.T, router http.Handler, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func createUser(t *testing.T, router http.Handler, phone, userType string, lat, lon float64) int64 {
	t.Helper()
	rec, env := do(t, router, http.MethodPost, "/users", map[string]interface{}{
		"phone_number": phone,
		"first_name":   "Ada",
		"last_name":    "Byron",
		"type":         userType,
		"latitude":     lat,
		"longitude":    lon,
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var u user.UserResponse
	if err := json.Unmarshal(env.Data, &u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	return u.ID
}

func TestUserEndpoints(t *testing.T) {
	router := newTestRouter(t)
	id := createUser(t, router, "+15550100000", "senior", 40, -75)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantMsg    string
	}{
		{
			name:   "duplicate phone after sanitizing",
			method: http.MethodPost,
			path:   "/users",
			body: map[string]interface{}{
				"phone_number": "+1 (555) 010-0000", "first_name": "B", "last_name": "C", "type": "volunteer",
			},
			wantStatus: http.StatusConflict,
			wantMsg:    "Phone number already registered",
		},
		{
			name:       "invalid user type",
			method:     http.MethodPost,
			path:       "/users",
			body:       map[string]interface{}{"phone_number": "+15550100001", "first_name": "B", "last_name": "C", "type": "admin"},
			wantStatus: http.StatusBadRequest,
		},
		{name: "malformed body", method: http.MethodPost, path: "/users", body: "not an object", wantStatus: http.StatusBadRequest, wantMsg: "Invalid request body"},
		{name: "get existing", method: http.MethodGet, path: "/users/1", wantStatus: http.StatusOK},
		{name: "get invalid id", method: http.MethodGet, path: "/users/abc", wantStatus: http.StatusBadRequest, wantMsg: "Invalid user ID"},
		{name: "get missing", method: http.MethodGet, path: "/users/999", wantStatus: http.StatusNotFound, wantMsg: "User not found"},
		{name: "update missing", method: http.MethodPut, path: "/users/999", body: map[string]interface{}{"first_name": "X"}, wantStatus: http.StatusNotFound},
		{name: "list", method: http.MethodGet, path: "/users?skip=0&limit=5", wantStatus: http.StatusOK},
		{name: "list negative skip", method: http.MethodGet, path: "/users?skip=-1", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, router, tt.method, tt.path, tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantMsg != "" && env.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, env.Message)
			}
		})
	}

	rec, env := do(t, router, http.MethodPut, "/users/1", map[string]interface{}{"first_name": "  Grace "}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated user.UserResponse
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if updated.FirstName != "Grace" || updated.LastName != "Byron" || updated.ID != id {
		t.Fatalf("unexpected partial update result: %+v", updated)
	}

	rec, env = do(t, router, http.MethodDelete, "/users/1", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	var deleted user.UserResponse
	if err := json.Unmarshal(env.Data, &deleted); err != nil || deleted.ID != id {
		t.Fatalf("expected deleted user in response, got %s", env.Data)
	}

	if rec, _ := do(t, router, http.MethodGet, "/users/1", nil, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestOrderEndpoints(t *testing.T) {
	router := newTestRouter(t)
	near := createUser(t, router, "+15550100000", "senior", 40, -75)
	far := createUser(t, router, "+15550100001", "senior", 40.1, -75.1)

	for _, senior := range []int64{far, near} {
		rec, env := do(t, router, http.MethodPost, "/orders", map[string]interface{}{
			"category":    "groceries",
			"senior_id":   senior,
			"description": map[string]interface{}{"items": []string{"milk"}},
		}, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create order: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var o order.OrderResponse
		if err := json.Unmarshal(env.Data, &o); err != nil {
			t.Fatalf("decode order: %v", err)
		}
		if o.Status != "pending" || o.CreatedAt.IsZero() {
			t.Fatalf("expected server defaults, got %+v", o)
		}
	}

	t.Run("list by distance", func(t *testing.T) {
		rec, env := do(t, router, http.MethodGet, "/orders?latitude=40&longitude=-75&sort_by=distance", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var items []map[string]interface{}
		if err := json.Unmarshal(env.Data, &items); err != nil {
			t.Fatalf("decode items: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(items))
		}
		if int64(items[0]["senior_id"].(float64)) != near {
			t.Fatalf("expected nearest senior first, got %v", items[0])
		}
		if d, ok := items[0]["distance"].(float64); !ok || d > 1e-3 {
			t.Fatalf("expected zero distance for co-located senior, got %v", items[0]["distance"])
		}
	})

	t.Run("list without reference omits distance", func(t *testing.T) {
		_, env := do(t, router, http.MethodGet, "/orders?category=groceries&sort_by=created_at&sort_direction=desc", nil, nil)
		var items []map[string]interface{}
		if err := json.Unmarshal(env.Data, &items); err != nil {
			t.Fatalf("decode items: %v", err)
		}
		for _, item := range items {
			if _, ok := item["distance"]; ok {
				t.Fatalf("unexpected distance key: %v", item)
			}
		}
	})

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
		wantMsg    string
	}{
		{name: "distance sort without reference", method: http.MethodGet, path: "/orders?sort_by=distance", wantStatus: http.StatusBadRequest},
		{name: "unknown sort field", method: http.MethodGet, path: "/orders?sort_by=description", wantStatus: http.StatusBadRequest},
		{name: "bad direction", method: http.MethodGet, path: "/orders?sort_by=id&sort_direction=up", wantStatus: http.StatusBadRequest},
		{name: "malformed timestamp", method: http.MethodGet, path: "/orders?valid_since=yesterday", wantStatus: http.StatusBadRequest, wantMsg: "Invalid query parameters"},
		{name: "latitude out of range", method: http.MethodGet, path: "/orders?latitude=91&longitude=0", wantStatus: http.StatusBadRequest},
		{name: "non-numeric latitude", method: http.MethodGet, path: "/orders?latitude=abc&longitude=0", wantStatus: http.StatusBadRequest, wantMsg: "Invalid query parameters"},
		{name: "NaN latitude", method: http.MethodGet, path: "/orders?latitude=NaN&longitude=0", wantStatus: http.StatusBadRequest, wantMsg: "Invalid query parameters"},
		{name: "infinite longitude", method: http.MethodGet, path: "/orders?latitude=0&longitude=%2BInf", wantStatus: http.StatusBadRequest, wantMsg: "Invalid query parameters"},
		{
			name:       "unknown senior",
			method:     http.MethodPost,
			path:       "/orders",
			body:       map[string]interface{}{"category": "other", "senior_id": 999},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid category",
			method:     http.MethodPost,
			path:       "/orders",
			body:       map[string]interface{}{"category": "cooking", "senior_id": near},
			wantStatus: http.StatusBadRequest,
		},
		{name: "get invalid id", method: http.MethodGet, path: "/orders/0", wantStatus: http.StatusBadRequest, wantMsg: "Invalid order ID"},
		{name: "get missing", method: http.MethodGet, path: "/orders/999", wantStatus: http.StatusNotFound, wantMsg: "Order not found"},
		{name: "delete missing", method: http.MethodDelete, path: "/orders/999", wantStatus: http.StatusNotFound},
		{name: "update status", method: http.MethodPut, path: "/orders/1", body: map[string]interface{}{"status": "completed"}, wantStatus: http.StatusOK},
		{name: "delete existing", method: http.MethodDelete, path: "/orders/1", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, router, tt.method, tt.path, tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantMsg != "" && env.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, env.Message)
			}
		})
	}
}

func TestSessionEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := do(t, router, http.MethodPost, "/register", map[string]interface{}{
		"phone_number": "+15550100000",
		"first_name":   "Ada",
		"last_name":    "Byron",
		"type":         "volunteer",
		"token":        "device-token",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	createUser(t, router, "+15550100001", "senior", 40, -75)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		headers    map[string]string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "login",
			method:     http.MethodPost,
			path:       "/login",
			body:       map[string]string{"phone_number": "+1 555 010 0000", "token": "device-token"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "login with unknown token",
			method:     http.MethodPost,
			path:       "/login",
			body:       map[string]string{"phone_number": "+15550100000", "token": "other"},
			wantStatus: http.StatusNotFound,
			wantMsg:    "User not found",
		},
		{
			name:       "login with token of another user",
			method:     http.MethodPost,
			path:       "/login",
			body:       map[string]string{"phone_number": "+15550100001", "token": "device-token"},
			wantStatus: http.StatusNotFound,
			wantMsg:    "User not found",
		},
		{
			name:       "me",
			method:     http.MethodGet,
			path:       "/me",
			headers:    map[string]string{"Authorization": "Bearer device-token"},
			wantStatus: http.StatusOK,
		},
		{name: "me without token", method: http.MethodGet, path: "/me", wantStatus: http.StatusUnauthorized},
		{
			name:       "me with unknown token",
			method:     http.MethodGet,
			path:       "/me",
			headers:    map[string]string{"Authorization": "Bearer nope"},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, router, tt.method, tt.path, tt.body, tt.headers)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantMsg != "" && env.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, env.Message)
			}
		})
	}
}

type stubChecker struct{ err error }

func (s stubChecker) Health(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		database   HealthChecker
		cache      HealthChecker
		wantStatus int
		wantCache  string
	}{
		{"healthy without cache", stubChecker{}, nil, http.StatusOK, "disabled"},
		{"healthy with cache", stubChecker{}, stubChecker{}, http.StatusOK, "healthy"},
		{"cache outage degrades", stubChecker{}, stubChecker{err: errors.New("refused")}, http.StatusOK, "degraded"},
		{"database outage", stubChecker{err: errors.New("refused")}, stubChecker{}, http.StatusServiceUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			NewHealthHandler(tt.database, tt.cache).RegisterRoutes(router.Group(""))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["cache"] != tt.wantCache {
				t.Fatalf("expected cache %q, got %q", tt.wantCache, body["cache"])
			}
		})
	}
}

func TestRespondWithError_UnexpectedErrorIsHidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/orders", nil)

	respondWithError(c, errors.New("pq: connection reset"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("connection reset")) {
		t.Fatalf("internal error leaked to client: %s", rec.Body.String())
	}
}
