package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAuth(t *testing.T) {
	before := testutil.ToFloat64(authEventsTotal.WithLabelValues("login", "failure"))
	RecordAuth("login", false)
	RecordAuth("login", true)
	assert.Equal(t, before+1, testutil.ToFloat64(authEventsTotal.WithLabelValues("login", "failure")))
}

func TestHandler_ExposesCounters(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/books", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookshelf_http_requests_total")
}
