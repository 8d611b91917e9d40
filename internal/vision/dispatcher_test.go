package vision

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blazeintel/havf-core/internal/clock"
)

// fakeWorkerServer spins up a real HTTP server in front of a Worker, the
// same transport the dispatcher speaks to a spawned subprocess over.
func fakeWorkerServer(t *testing.T, id string) (*httptest.Server, *Worker) {
	t.Helper()
	w := NewWorker(id, &clock.Frozen{At: time.Now()}, false, nil)
	w.Ready()
	srv := httptest.NewServer(NewServer(w, nil, nil, nil))
	t.Cleanup(srv.Close)
	return srv, w
}

func newTestDispatcher(t *testing.T, n int) *Dispatcher {
	t.Helper()
	servers := make(map[string]*httptest.Server, n)
	d := NewDispatcher(nil, func(id string) (*WorkerProc, error) {
		srv, _ := fakeWorkerServer(t, id)
		servers[id] = srv
		return NewWorkerProc(id, srv.URL, nil), nil
	})
	if err := d.Start(n); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return d
}

func TestDispatcher_DispatchRoundRobinsAcrossWorkers(t *testing.T) {
	d := newTestDispatcher(t, 2)

	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		resp, err := d.Dispatch(context.Background(), InferenceRequest{FrameData: "x"})
		if err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
		seen[resp.WorkerID] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected both workers to receive a request, saw %v", seen)
	}
}

func TestDispatcher_StatusAggregatesEveryWorker(t *testing.T) {
	d := newTestDispatcher(t, 3)

	status := d.Status(context.Background())
	if len(status.Workers) != 3 {
		t.Fatalf("expected 3 worker statuses, got %d", len(status.Workers))
	}
	for _, ws := range status.Workers {
		if ws.State != StateReady {
			t.Errorf("worker %s state = %v, want ready", ws.WorkerID, ws.State)
		}
	}
}

func TestDispatcher_DispatchBeforeStartReturnsError(t *testing.T) {
	d := NewDispatcher(nil, func(id string) (*WorkerProc, error) { return nil, nil })

	_, err := d.Dispatch(context.Background(), InferenceRequest{})
	if err == nil {
		t.Fatal("expected an error dispatching with no workers started")
	}
}

func TestDispatcher_BackpressureWhenEveryQueueFull(t *testing.T) {
	d := newTestDispatcher(t, 1)

	// Saturate the single worker's queue by reserving every slot directly.
	wp := d.workers[0]
	for i := 0; i < QueueDepth; i++ {
		wp.sem <- struct{}{}
	}

	_, err := d.Dispatch(context.Background(), InferenceRequest{FrameData: "x"})
	if err != ErrBackpressure {
		t.Errorf("err = %v, want ErrBackpressure", err)
	}
}

func TestDispatcher_StatusReportsTerminatedForUnreachableWorker(t *testing.T) {
	srv, _ := fakeWorkerServer(t, "worker-0")
	d := NewDispatcher(nil, func(id string) (*WorkerProc, error) {
		return NewWorkerProc(id, srv.URL, nil), nil
	})
	if err := d.Start(1); err != nil {
		t.Fatalf("Start: %v", err)
	}
	srv.Close() // worker now unreachable

	status := d.Status(context.Background())
	if len(status.Workers) != 1 || status.Workers[0].State != StateTerminated {
		t.Errorf("expected an unreachable worker to report terminated, got %+v", status.Workers)
	}
}
