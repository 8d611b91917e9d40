// Package vision implements the per-frame object detection worker (C8)
// and the process pool that supervises and dispatches to it (C9).
package vision

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"sync"

	"github.com/blazeintel/havf-core/internal/athlete"
	"github.com/blazeintel/havf-core/internal/clock"
)

// WorkerState names one step of the worker's lifecycle (§4.8).
type WorkerState string

const (
	StateInitializing WorkerState = "initializing"
	StateReady        WorkerState = "ready"
	StateProcessing   WorkerState = "processing"
	StateDegraded     WorkerState = "degraded"
	StateShuttingDown WorkerState = "shutting_down"
	StateTerminated   WorkerState = "terminated"
)

// InferenceOptions configures one inference call.
type InferenceOptions struct {
	Sport               string  `json:"sport"`
	ConfidenceThreshold  float64 `json:"confidence_threshold"`
	ChampionshipLevel    bool    `json:"championship_level"`
}

// Counters are the running totals a worker reports via status (§5:
// "Worker counters ... reported to the dispatcher via the status
// command, never shared memory").
type Counters struct {
	FramesProcessed  int64
	TotalLatencyMs   float64
	CompliantFrames  int64
}

// Status summarizes one worker's health and running counters.
type Status struct {
	WorkerID string
	State    WorkerState
	Counters Counters
}

// Worker runs detection for a single stream of frames, single-threaded
// internally (§5). It holds its own counters and state; nothing outside
// Worker mutates them.
type Worker struct {
	ID       string
	Clock    clock.Clock
	Detector Detector

	mu               sync.Mutex
	state            WorkerState
	counters         Counters
	degradedAtStartup bool
}

// NewWorker constructs a Worker in the initializing state. modelLoadable
// models whether a real detector loaded; when false, the worker starts
// degraded and falls back to FallbackDetector permanently for its
// lifetime (§4.8 failure modes: "Model load fails → fallback takes over
// permanently for this worker; state is logged once").
func NewWorker(id string, clk clock.Clock, modelLoadable bool, realDetector Detector) *Worker {
	w := &Worker{ID: id, Clock: clk, state: StateInitializing}
	if modelLoadable && realDetector != nil {
		w.Detector = realDetector
		w.state = StateReady
	} else {
		w.Detector = NewFallbackDetector()
		w.state = StateDegraded
		w.degradedAtStartup = true
	}
	return w
}

// DegradedAtStartup reports whether this worker began life unable to
// load a real model. The worker command logs this once at startup rather
// than on every frame (§4.8 failure modes: "state is logged once").
func (w *Worker) DegradedAtStartup() bool {
	return w.degradedAtStartup
}

// Ready transitions a degraded worker to ready-with-fallback, matching
// the state diagram's "(model load fails) → degraded → ready (fallback)"
// edge: the worker is fully operational, just running the fallback
// detector instead of a real model.
func (w *Worker) Ready() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateDegraded {
		w.state = StateReady
	}
}

// Infer implements the C8 contract: infer(frame_bytes, options) ->
// DetectionFrame. Decode or per-frame exceptions are swallowed into an
// empty detection set; the worker never crashes on a bad frame.
func (w *Worker) Infer(frameData []byte, opts InferenceOptions) athlete.DetectionFrame {
	w.mu.Lock()
	w.state = StateProcessing
	w.mu.Unlock()

	start := w.Clock.Now()

	pixels, width, height, err := decodeFrame(frameData)

	var detections []athlete.Detection
	if err == nil {
		raw := w.Detector.Detect(pixels, width, height)
		detections = FilterBySport(raw, opts.Sport, opts.ConfidenceThreshold)
	}

	latencyMs := float64(w.Clock.Now().Sub(start).Nanoseconds()) / 1e6

	frame := athlete.NewDetectionFrame(start.UnixMilli(), w.ID, opts.Sport, detections, latencyMs)

	w.mu.Lock()
	w.counters.FramesProcessed++
	w.counters.TotalLatencyMs += latencyMs
	if frame.ChampionshipCompliant {
		w.counters.CompliantFrames++
	}
	w.state = StateReady
	w.mu.Unlock()

	return frame
}

// Status returns a snapshot of the worker's current state and counters.
func (w *Worker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Status{WorkerID: w.ID, State: w.state, Counters: w.counters}
}

// Shutdown transitions the worker through shutting_down to terminated.
// Any in-flight frame is assumed already finished by the caller before
// invoking Shutdown (§5: "finish the in-flight frame, close the socket,
// exit").
func (w *Worker) Shutdown() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateShuttingDown
	w.state = StateTerminated
}

// decodeFrame accepts raw image bytes or a data: URL, decodes it, and
// flattens it to grayscale intensities for the fallback detector. A
// decode failure returns a non-nil error; callers treat that as an empty
// detection set rather than propagating it (§4.8 failure modes).
func decodeFrame(data []byte) ([]byte, int, int, error) {
	raw := data
	if strings.HasPrefix(string(data), "data:") {
		idx := strings.Index(string(data), ",")
		if idx < 0 {
			return nil, 0, 0, fmt.Errorf("vision: malformed data URL")
		}
		decoded, err := base64.StdEncoding.DecodeString(string(data[idx+1:]))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("vision: base64 decode: %w", err)
		}
		raw = decoded
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("vision: image decode: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			gray := (299*int(r>>8) + 587*int(g>>8) + 114*int(b>>8)) / 1000
			pixels[y*width+x] = byte(gray)
		}
	}

	return pixels, width, height, nil
}
