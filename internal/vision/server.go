package vision

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/blazeintel/havf-core/internal/athlete"
	"github.com/blazeintel/havf-core/internal/middleware"
)

// InferenceRequest is the body of POST /inference (§6.2 request
// vocabulary, carried over the HTTP transport instead of a raw
// length-prefixed socket).
type InferenceRequest struct {
	FrameData string           `json:"frame_data"`
	Options   InferenceOptions `json:"options"`
}

// InferenceResponse always includes worker_id, success, and
// processing_time_ms regardless of outcome (§6.2 responses).
type InferenceResponse struct {
	WorkerID         string                  `json:"worker_id"`
	Success          bool                    `json:"success"`
	ProcessingTimeMs float64                 `json:"processing_time_ms"`
	Frame            *athlete.DetectionFrame `json:"frame,omitempty"`
	Error            string                  `json:"error,omitempty"`
}

// NewServer builds the loopback-only chi router one worker process
// serves: POST /inference, GET /status, POST /shutdown, plus swagger
// docs for operability (§4.16). shutdownFn is called after the response
// for /shutdown is written, letting main() exit the process. metrics may
// be nil, in which case requests simply aren't instrumented.
func NewServer(w *Worker, logger *log.Logger, metrics *middleware.VisionMetrics, shutdownFn func()) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	r.Post("/inference", handleInference(w, metrics))
	r.Get("/status", handleStatus(w))
	r.Post("/shutdown", handleShutdown(w, shutdownFn))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// handleInference godoc
// @Summary Run detection on one frame
// @Accept json
// @Produce json
// @Router /inference [post]
func handleInference(w *Worker, metrics *middleware.VisionMetrics) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		var req InferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(rw, http.StatusBadRequest, InferenceResponse{
				WorkerID: w.ID, Success: false, Error: "malformed request body",
			})
			return
		}

		start := time.Now()
		frame := w.Infer([]byte(req.FrameData), req.Options)
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6

		if metrics != nil {
			metrics.InferenceLatency.WithLabelValues(req.Options.Sport).Observe(frame.LatencyMs)
			if _, ok := w.Detector.(*FallbackDetector); ok {
				metrics.FallbackTotal.Inc()
			}
		}

		writeJSON(rw, http.StatusOK, InferenceResponse{
			WorkerID:         w.ID,
			Success:          true,
			ProcessingTimeMs: elapsed,
			Frame:            &frame,
		})
	}
}

// handleStatus godoc
// @Summary Report this worker's state and running counters
// @Produce json
// @Router /status [get]
func handleStatus(w *Worker) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, w.Status())
	}
}

// handleShutdown godoc
// @Summary Finish the in-flight frame and terminate this worker
// @Produce json
// @Router /shutdown [post]
func handleShutdown(w *Worker, shutdownFn func()) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		w.Shutdown()
		writeJSON(rw, http.StatusOK, map[string]any{
			"worker_id": w.ID, "success": true, "processing_time_ms": 0,
		})
		if shutdownFn != nil {
			go shutdownFn()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
