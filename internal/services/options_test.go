package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/feliz-storefront/internal/config"
)

func TestNewServiceOptions_LogSink(t *testing.T) {
	cfg := &config.Config{
		PublicStoreDomain: "feliz.myshopify.com",
		StorefrontCountry: "US",
		CartCacheTTL:      time.Minute,
		DeferredTimeout:   time.Second,
		AnalyticsSink:     config.SinkLog,
	}

	opts, err := NewServiceOptions(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, opts.SpannerClient)

	rec := httptest.NewRecorder()
	opts.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	opts.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code, "events API needs the spanner sink")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, opts.Close(ctx))
}
