package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRelationChange(t *testing.T) {
	before := testutil.ToFloat64(RelationChanges.WithLabelValues("favorites", "add"))
	RecordRelationChange("favorites", "add")
	RecordRelationChange("favorites", "add")
	after := testutil.ToFloat64(RelationChanges.WithLabelValues("favorites", "add"))
	if after-before != 2 {
		t.Errorf("counter moved by %v, want 2", after-before)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/tags", "200"))
	RecordAPIRequest("GET", "/api/tags", 200, 3*time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/tags", "200")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/recipes/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/recipes/:id", "204"))
	for _, path := range []string{"/api/recipes/1", "/api/recipes/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	if got := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "/api/recipes/:id", "204")); got != before+2 {
		t.Errorf("requests = %v, want %v", got, before+2)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(w.Body.String(), "foodgram_http_requests_total") {
		t.Error("expected /metrics to expose foodgram_http_requests_total")
	}
}
