package router

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/foodcourt/internal/domain/model"
	pkgAuth "github.com/polkiloo/foodcourt/internal/pkg/auth"
	testhelpers "github.com/polkiloo/foodcourt/internal/test"
)

func buildEngine(t *testing.T, facade testhelpers.FoodCourtFacadeStub) *gin.Engine {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	live := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSwitchingProtocols)
	})
	engine := Setup(facade, live, logger)
	gin.SetMode(gin.TestMode)
	return engine
}

func serve(engine *gin.Engine, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, req)
	return resp
}

func facadeWithToken() testhelpers.FoodCourtFacadeStub {
	return testhelpers.FoodCourtFacadeStub{
		AdminFacadeStub: testhelpers.AdminFacadeStub{ParseFn: func(token string) (int64, error) {
			if token != "good" {
				return 0, pkgAuth.ErrInvalidToken
			}
			return 1, nil
		}},
	}
}

func TestSetupPublicRoutes(t *testing.T) {
	engine := buildEngine(t, facadeWithToken())

	resp := serve(engine, http.MethodPost, "/api/orders", `{"foodName":"Tea","quantity":1,"price":10,"tableNumber":2}`, map[string]string{"X-User-ID": "u1"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for create, got %d", resp.Code)
	}

	resp = serve(engine, http.MethodGet, "/api/orders?userId=u1", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for orders, got %d", resp.Code)
	}

	resp = serve(engine, http.MethodGet, "/api/foods", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for menu, got %d", resp.Code)
	}

	resp = serve(engine, http.MethodPost, "/api/admins/login", `{"email":"a@example.com","password":"secret123"}`, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for login, got %d", resp.Code)
	}

	resp = serve(engine, http.MethodGet, "/healthz", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for health, got %d", resp.Code)
	}

	resp = serve(engine, http.MethodGet, "/ws", "", nil)
	if resp.Code != http.StatusSwitchingProtocols {
		t.Fatalf("expected live handler to serve /ws, got %d", resp.Code)
	}
}

func TestSetupAdminRoutesRequireToken(t *testing.T) {
	engine := buildEngine(t, facadeWithToken())

	protected := []struct{ method, target, body string }{
		{http.MethodPatch, "/api/orders/o1/status", `{"status":"Ready"}`},
		{http.MethodPost, "/api/foods", `{"name":"Dosa","price":50}`},
		{http.MethodPut, "/api/foods/f1", `{"name":"Dosa","price":50}`},
		{http.MethodDelete, "/api/foods/f1", ""},
		{http.MethodPost, "/api/admins", `{"email":"b@example.com","password":"longenough"}`},
		{http.MethodGet, "/api/admins", ""},
		{http.MethodDelete, "/api/admins/2", ""},
	}
	for _, tc := range protected {
		resp := serve(engine, tc.method, tc.target, tc.body, nil)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token, got %d", tc.method, tc.target, resp.Code)
		}
		resp = serve(engine, tc.method, tc.target, tc.body, map[string]string{"Authorization": "Bearer good"})
		if resp.Code >= 300 {
			t.Fatalf("%s %s: expected success with token, got %d: %s", tc.method, tc.target, resp.Code, resp.Body.String())
		}
	}
}

func TestSetupDeleteOrderPassesAdminIdentity(t *testing.T) {
	var actor model.Viewer
	facade := facadeWithToken()
	facade.OrderFacadeStub.DeleteFn = func(_ context.Context, _ string, v model.Viewer) error {
		actor = v
		return nil
	}
	engine := buildEngine(t, facade)

	resp := serve(engine, http.MethodDelete, "/api/orders/o1", "", map[string]string{"Authorization": "Bearer good"})
	if resp.Code != http.StatusOK || !actor.Admin() {
		t.Fatalf("expected admin delete, got %d %+v", resp.Code, actor)
	}

	resp = serve(engine, http.MethodDelete, "/api/orders/o1", "", map[string]string{"X-User-ID": "u1"})
	if resp.Code != http.StatusOK || actor.Admin() || actor.UserID != "u1" {
		t.Fatalf("expected customer delete, got %d %+v", resp.Code, actor)
	}

	resp = serve(engine, http.MethodDelete, "/api/orders/o1", "", map[string]string{"Authorization": "Bearer bad"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected bad token to be rejected, got %d", resp.Code)
	}
}

func TestSetupMetrics(t *testing.T) {
	engine := buildEngine(t, facadeWithToken())
	serve(engine, http.MethodPost, "/api/orders", `{"foodName":"Tea","quantity":1,"price":10,"tableNumber":2}`, nil)

	resp := serve(engine, http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "foodcourt_orders_created_total") {
		t.Fatalf("expected order counter in exposition")
	}
}
