package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaykit/contact-relay/internal/contacts"
	"github.com/relaykit/contact-relay/internal/http/handlers"
	"github.com/relaykit/contact-relay/internal/pipeline"
	"github.com/relaykit/contact-relay/pkg/logging"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	p := pipeline.New(nil, nil, nil, nil)
	h := handlers.NewBatchHandler(p, contacts.DefaultDialPlan, logging.Default())
	return New(&Config{BatchHandler: h})
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
	require.Contains(t, rec.Body.String(), `"send_enabled":false`)
}

func TestBatchRoutesRegistered(t *testing.T) {
	r := newTestRouter(t)

	body := `{"rows":[{"nome":"Ana","telefone":"31987654321"}],"mapping":{"name":"nome","phone":"telefone"}}`
	for _, path := range []string{"/v1/batches/classify", "/v1/batches/export"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
	}

	// Send is routed but disabled without a configured gateway.
	req := httptest.NewRequest(http.MethodPost, "/v1/batches/send", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/nope", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
