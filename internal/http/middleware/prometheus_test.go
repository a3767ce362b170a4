package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(pm.Handler())
	return app, pm, reg
}

func TestPrometheusMiddleware_Counts(t *testing.T) {
	app, pm, _ := newMetricsApp(t)
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/agent/users/:id", ok)
	app.Delete("/agent/wallets/bank-cards/:id", ok)
	app.Post("/agent/withdrawals/:id/review", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusConflict, "already resolved")
	})

	tests := []struct {
		method, target string
		wantPath       string
		wantStatus     string
	}{
		{"GET", "/agent/users/17", "/agent/users/:id", "200"},
		{"GET", "/agent/users/18", "/agent/users/:id", "200"},
		{"DELETE", "/agent/wallets/bank-cards/3", "/agent/wallets/bank-cards/:id", "200"},
		{"POST", "/agent/withdrawals/9/review", "/agent/withdrawals/:id/review", "409"},
	}
	for _, tt := range tests {
		_, err := app.Test(httptest.NewRequest(tt.method, tt.target, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/agent/users/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pm.requestCount.WithLabelValues("DELETE", "/agent/wallets/bank-cards/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(pm.requestCount.WithLabelValues("POST", "/agent/withdrawals/:id/review", "409")))
	assert.Equal(t, 3, testutil.CollectAndCount(pm.requestDuration))
	assert.Equal(t, float64(0), testutil.ToFloat64(pm.inFlight))
}

func TestPrometheusMiddleware_UnmatchedRoutesShareOneLabel(t *testing.T) {
	app, pm, _ := newMetricsApp(t)
	app.Get("/agent/profile", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, target := range []string{"/wp-login.php", "/.env", "/agent/nope"} {
		_, err := app.Test(httptest.NewRequest("GET", target, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(pm.requestCount))
}

func TestPrometheusMiddleware_HandlerNotFoundKeepsRoute(t *testing.T) {
	app, pm, _ := newMetricsApp(t)
	app.Get("/agent/withdrawals/:id", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	_, err := app.Test(httptest.NewRequest("GET", "/agent/withdrawals/404", nil))
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/agent/withdrawals/:id", "404")))
}

func TestPrometheusMiddleware_SkipsScrapes(t *testing.T) {
	app, _, reg := newMetricsApp(t)
	app.Get(metricsPath, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	_, err := app.Test(httptest.NewRequest("GET", metricsPath, nil))
	require.NoError(t, err)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "backoffice_http_requests_total" {
			assert.Empty(t, mf.GetMetric())
		}
	}
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	assert.Error(t, err)
}

func TestPrometheusMiddleware_UnauthorizedCounted(t *testing.T) {
	app, pm, _ := newMetricsApp(t)
	app.Get("/agent/profile", Auth(staticAuth{}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/agent/profile", nil))
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/agent/profile", "401")))
}

func TestPrometheusMiddleware_LabelsSurviveLaterRequests(t *testing.T) {
	app, _, reg := newMetricsApp(t)
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/agent/users/:id", ok)
	app.Post("/agent/withdrawals/:id/review", ok)
	app.Delete("/agent/wallets/crypto/:id", ok)

	for _, req := range []struct{ method, target string }{
		{"GET", "/agent/users/17"},
		{"POST", "/agent/withdrawals/9/review"},
		{"DELETE", "/agent/wallets/crypto/2"},
		{"GET", "/agent/users/18"},
	} {
		_, err := app.Test(httptest.NewRequest(req.method, req.target, nil))
		require.NoError(t, err)
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "backoffice_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			got[labels["method"]+" "+labels["path"]] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{
		"GET /agent/users/:id":               2,
		"POST /agent/withdrawals/:id/review": 1,
		"DELETE /agent/wallets/crypto/:id":   1,
	}, got)
}
