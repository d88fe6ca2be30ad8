// Package metrics provides Prometheus metrics for the quizvfs server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizvfs_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizvfs_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Tree metrics
	vfsMovesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizvfs_vfs_moves_total",
			Help: "Drag-and-drop moves by category and outcome",
		},
		[]string{"category", "result"},
	)

	vfsReconcileTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizvfs_vfs_reconcile_total",
			Help: "Number of tree reconciliations against the quiz store",
		},
	)

	vfsReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quizvfs_vfs_reconcile_duration_seconds",
			Help:    "Time to load quizzes and reconcile the tree",
			Buckets: prometheus.DefBuckets,
		},
	)

	vfsTreeNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quizvfs_vfs_tree_nodes",
			Help: "Number of files and folders in the workspace tree",
		},
		[]string{"workspace"},
	)

	vfsPersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizvfs_vfs_persist_failures_total",
			Help: "Failed writes of the tree to its store or mirror",
		},
		[]string{"target"},
	)

	// Blob metrics
	blobOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizvfs_blob_operation_duration_seconds",
			Help:    "Blob store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	blobOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizvfs_blob_operations_total",
			Help: "Total blob store operations",
		},
		[]string{"operation", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordMove records a move attempt. category is the move's category name.
func RecordMove(category string, moved bool) {
	result := "moved"
	if !moved {
		result = "rejected"
	}
	vfsMovesTotal.WithLabelValues(category, result).Inc()
}

// RecordReconcile records one reconciliation pass.
func RecordReconcile(duration time.Duration) {
	vfsReconcileTotal.Inc()
	vfsReconcileDuration.Observe(duration.Seconds())
}

// SetTreeNodes sets the node count of a workspace tree.
func SetTreeNodes(workspace string, count int) {
	vfsTreeNodes.WithLabelValues(workspace).Set(float64(count))
}

// RecordPersistFailure counts a failed tree write. target is "store" or "mirror".
func RecordPersistFailure(target string) {
	vfsPersistFailures.WithLabelValues(target).Inc()
}

// RecordBlobOperation records a blob store operation.
func RecordBlobOperation(operation string, duration time.Duration, success bool) {
	blobOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	status := "success"
	if !success {
		status = "error"
	}
	blobOperationsTotal.WithLabelValues(operation, status).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns HTTP middleware that records request metrics. Requests
// are labelled by chi route pattern so path parameters do not explode the
// label space.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		RecordHTTPRequest(r.Method, routePattern(r), rw.statusCode, time.Since(start))
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
