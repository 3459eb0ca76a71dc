package middleware_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"catalog/internal/logger"
	"catalog/internal/middleware"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired(t *testing.T) {
	logger.Discard()
	ctx := context.Background()
	users := repositories.NewMockUserRepository()
	auth := services.NewAuthService(users, "secret")
	require.NoError(t, auth.RegisterUser(ctx, &models.User{Username: "editor", Email: "e@example.com", Password: "password123"}))
	token, err := auth.LoginUser(ctx, "editor", "password123")
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/private", middleware.AuthRequired(auth), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.LocalUsername).(string))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, fiber.StatusUnauthorized},
		{"garbage", "Bearer nope", fiber.StatusUnauthorized},
		{"valid", "Bearer " + token, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(registry)

	app := fiber.New()
	app.Use(metrics.Handler())
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		time.Sleep(time.Millisecond)
		return c.SendStatus(fiber.StatusNoContent)
	})

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/items/"+id, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}

	families, err := registry.Gather()
	require.NoError(t, err)
	byName := map[string]*dto.MetricFamily{}
	for _, f := range families {
		byName[f.GetName()] = f
	}

	requests := byName["catalog_http_requests_total"]
	require.NotNil(t, requests)
	require.Len(t, requests.GetMetric(), 1)
	m := requests.GetMetric()[0]
	assert.Equal(t, 2.0, m.GetCounter().GetValue())
	labels := map[string]string{}
	for _, l := range m.GetLabel() {
		labels[l.GetName()] = l.GetValue()
	}
	assert.Equal(t, map[string]string{"method": "GET", "route": "/items/:id", "status": "204"}, labels)

	duration := byName["catalog_http_request_duration_seconds"]
	require.NotNil(t, duration)
	assert.Equal(t, uint64(2), duration.GetMetric()[0].GetHistogram().GetSampleCount())
}
