package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// QueueDepth is the max outstanding requests per worker before the
// dispatcher rejects new frames with Backpressure (§5).
const QueueDepth = 8

// ErrBackpressure is returned when every worker's queue is full.
var ErrBackpressure = fmt.Errorf("vision: backpressure, all worker queues full")

// WorkerProc supervises one os/exec-launched worker process: its HTTP
// client, base URL, and a bounded semaphore standing in for its request
// queue depth.
type WorkerProc struct {
	id      string
	baseURL string
	cmd     *exec.Cmd
	client  *http.Client
	sem     chan struct{}

	degraded atomic.Bool
}

// Dispatcher maintains a pool of N worker processes, dispatching frames
// round-robin and aggregating status across the pool (C9, §4.9).
type Dispatcher struct {
	mu      sync.Mutex
	workers []*WorkerProc
	next    int
	logger  *log.Logger

	spawn func(id string) (*WorkerProc, error)
}

// NewDispatcher builds a Dispatcher. spawnFn launches one worker process
// (typically via os/exec running this same binary with `vision worker`)
// and returns its reachable base URL; it's injected so tests can spawn
// in-process fakes instead of real subprocesses.
func NewDispatcher(logger *log.Logger, spawnFn func(id string) (*WorkerProc, error)) *Dispatcher {
	return &Dispatcher{logger: logger, spawn: spawnFn}
}

// Start launches n worker processes and adds them to the pool.
func (d *Dispatcher) Start(n int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("worker-%d", i)
		wp, err := d.spawn(id)
		if err != nil {
			return fmt.Errorf("vision: spawn %s: %w", id, err)
		}
		d.workers = append(d.workers, wp)
	}
	return nil
}

// Dispatch sends one inference request to the next worker in
// round-robin order that has a free queue slot. If every worker's queue is full, it returns
// ErrBackpressure immediately rather than blocking indefinitely.
func (d *Dispatcher) Dispatch(ctx context.Context, req InferenceRequest) (*InferenceResponse, error) {
	wp, err := d.pick()
	if err != nil {
		return nil, err
	}
	defer func() { <-wp.sem }()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("vision: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, wp.baseURL+"/inference", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := wp.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("vision: dispatch to %s: %w", wp.id, err)
	}
	defer resp.Body.Close()

	var out InferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("vision: decode response from %s: %w", wp.id, err)
	}
	return &out, nil
}

// pick selects the next worker in round-robin order with a free queue
// slot, reserving that slot before returning.
func (d *Dispatcher) pick() (*WorkerProc, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.workers) == 0 {
		return nil, fmt.Errorf("vision: no workers started")
	}

	for i := 0; i < len(d.workers); i++ {
		idx := (d.next + i) % len(d.workers)
		wp := d.workers[idx]
		select {
		case wp.sem <- struct{}{}:
			d.next = (idx + 1) % len(d.workers)
			return wp, nil
		default:
			continue
		}
	}
	return nil, ErrBackpressure
}

// PoolStatus aggregates every worker's status (§4.9: "Exposes status()
// aggregating every worker's counters").
type PoolStatus struct {
	Workers []Status
}

// Status queries every worker's /status endpoint and aggregates the
// result. A worker that fails to respond is reported terminated rather
// than aborting the whole aggregation.
func (d *Dispatcher) Status(ctx context.Context) PoolStatus {
	d.mu.Lock()
	workers := append([]*WorkerProc(nil), d.workers...)
	d.mu.Unlock()

	out := PoolStatus{}
	for _, wp := range workers {
		st, err := fetchWorkerStatus(ctx, wp)
		if err != nil {
			out.Workers = append(out.Workers, Status{WorkerID: wp.id, State: StateTerminated})
			continue
		}
		out.Workers = append(out.Workers, st)
	}
	return out
}

func fetchWorkerStatus(ctx context.Context, wp *WorkerProc) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, wp.baseURL+"/status", nil)
	if err != nil {
		return Status{}, err
	}
	resp, err := wp.client.Do(req)
	if err != nil {
		return Status{}, err
	}
	defer resp.Body.Close()

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return Status{}, err
	}
	return st, nil
}

// Supervise watches each worker process for an unexpected exit and
// relaunches it once, marking it degraded until the replacement reports
// ready (§10.5). Call in a goroutine; it returns when ctx is canceled.
func (d *Dispatcher) Supervise(ctx context.Context) {
	d.mu.Lock()
	workers := append([]*WorkerProc(nil), d.workers...)
	d.mu.Unlock()

	var wg sync.WaitGroup
	for _, wp := range workers {
		wg.Add(1)
		go func(wp *WorkerProc) {
			defer wg.Done()
			d.watch(ctx, wp)
		}(wp)
	}
	wg.Wait()
}

func (d *Dispatcher) watch(ctx context.Context, wp *WorkerProc) {
	if wp.cmd == nil {
		return
	}

	err := wp.cmd.Wait()
	select {
	case <-ctx.Done():
		return
	default:
	}

	if err == nil {
		return
	}

	wp.degraded.Store(true)
	d.logf("worker %s exited unexpectedly (%v), restarting once", wp.id, err)

	replacement, spawnErr := d.spawn(wp.id)
	if spawnErr != nil {
		d.logf("worker %s restart failed: %v", wp.id, spawnErr)
		return
	}

	d.mu.Lock()
	for i, w := range d.workers {
		if w.id == wp.id {
			d.workers[i] = replacement
			break
		}
	}
	d.mu.Unlock()

	waitForReady(ctx, replacement)
	replacement.degraded.Store(false)
}

func waitForReady(ctx context.Context, wp *WorkerProc) {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := fetchWorkerStatus(ctx, wp); err == nil {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (d *Dispatcher) logf(format string, args ...any) {
	if d.logger == nil {
		return
	}
	d.logger.Warnf(format, args...)
}

// NewWorkerProc wires a freshly spawned worker's HTTP client and queue
// semaphore. Exported constructor for spawn functions to call.
func NewWorkerProc(id, baseURL string, cmd *exec.Cmd) *WorkerProc {
	return &WorkerProc{
		id:      id,
		baseURL: baseURL,
		cmd:     cmd,
		client:  &http.Client{Timeout: 5 * time.Second},
		sem:     make(chan struct{}, QueueDepth),
	}
}
