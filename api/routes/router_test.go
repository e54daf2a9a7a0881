package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/marketplace-backend/api/controllers"
	"github.com/angelmondragon/marketplace-backend/internal/flash"
	"github.com/angelmondragon/marketplace-backend/internal/orders"
	pkgAuth "github.com/angelmondragon/marketplace-backend/pkg/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/auth/session"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubOrdersService struct {
	lastActor orders.Actor
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, actor orders.Actor, orderID int64, status string) (*orders.OrderSummary, error) {
	s.lastActor = actor
	return &orders.OrderSummary{ID: orderID}, nil
}

func (s *stubOrdersService) List(ctx context.Context, actor orders.Actor, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	s.lastActor = actor
	return &orders.OrderList{Orders: []orders.OrderSummary{}}, nil
}

func (s *stubOrdersService) Detail(ctx context.Context, actor orders.Actor, orderID int64) (*orders.OrderDetail, error) {
	s.lastActor = actor
	return &orders.OrderDetail{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "marketplace",
			ExpirationMinutes: 60,
		},
		Session: config.SessionConfig{CookieName: "mp_session"},
	}
}

func newTestRouter(t *testing.T, ordersSvc orders.Service) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testConfig()
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	registry := prometheus.NewRegistry()

	handler := NewRouter(cfg, logg, Services{Orders: ordersSvc}, Deps{
		Pingers:     map[string]controllers.Pinger{"postgres": stubPinger{}},
		Sessions:    stubSessionManager{},
		Flash:       flash.NewMemoryStore(),
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
	})
	return handler, cfg
}

func bearer(t *testing.T, cfg *config.Config, userID int64, role enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestPublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t, &stubOrdersService{})

	cases := []struct {
		path     string
		status   int
		location string
	}{
		{path: "/health/live", status: http.StatusOK},
		{path: "/health/ready", status: http.StatusOK},
		{path: "/", status: http.StatusSeeOther, location: "/products/"},
	}

	for _, tc := range cases {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if resp.Code != tc.status {
			t.Fatalf("%s: expected %d got %d", tc.path, tc.status, resp.Code)
		}
		if tc.location != "" && resp.Header().Get("Location") != tc.location {
			t.Fatalf("%s: expected location %q got %q", tc.path, tc.location, resp.Header().Get("Location"))
		}
		if resp.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s: expected request id header", tc.path)
		}
	}
}

func TestMetricsEndpointExposesRequestCounters(t *testing.T) {
	router, _ := newTestRouter(t, &stubOrdersService{})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) == 0 {
		t.Fatal("expected metrics output")
	}
}

func TestFlashCookieIssuedOnFirstVisit(t *testing.T) {
	router, _ := newTestRouter(t, &stubOrdersService{})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	found := false
	for _, c := range resp.Result().Cookies() {
		if c.Name == "mp_session_flash" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected flash cookie on first visit")
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router, _ := newTestRouter(t, &stubOrdersService{})

	for _, path := range []string{"/orders/", "/cart/", "/checkout/", "/seller/dashboard", "/admin/dashboard"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, resp.Code)
		}
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	router, cfg := newTestRouter(t, &stubOrdersService{})

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.Header.Set("Authorization", bearer(t, cfg, 5, enums.RoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestCustomerAreaRejectsSeller(t *testing.T) {
	router, cfg := newTestRouter(t, &stubOrdersService{})

	req := httptest.NewRequest(http.MethodGet, "/checkout/", nil)
	req.Header.Set("Authorization", bearer(t, cfg, 9, enums.RoleSeller))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestCustomerCannotUpdateOrderStatus(t *testing.T) {
	router, cfg := newTestRouter(t, &stubOrdersService{})

	req := httptest.NewRequest(http.MethodPost, "/orders/3/update-status", nil)
	req.Header.Set("Authorization", bearer(t, cfg, 5, enums.RoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestOrdersReceiveAuthenticatedActor(t *testing.T) {
	svc := &stubOrdersService{}
	router, cfg := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
	req.Header.Set("Authorization", bearer(t, cfg, 42, enums.RoleSeller))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastActor.UserID != 42 || svc.lastActor.Role != enums.RoleSeller {
		t.Fatalf("unexpected actor %+v", svc.lastActor)
	}
}
