package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/blazeintel/havf-core/internal/clock"
	"github.com/blazeintel/havf-core/internal/config"
	"github.com/blazeintel/havf-core/internal/echo"
	"github.com/blazeintel/havf-core/internal/middleware"
	"github.com/blazeintel/havf-core/internal/vision"
)

// VisionCmd creates the vision command group: a single-process worker
// entry point (`vision worker`) and the pool supervisor that spawns N of
// them (`vision pool`), matching the "N worker processes, not threads"
// concurrency model (§5).
func VisionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vision",
		Short: "Vision worker and dispatcher operations",
		Long:  "Run a single detection worker process or a supervised pool of them.",
	}
	cmd.AddCommand(VisionWorkerCmd())
	cmd.AddCommand(VisionPoolCmd())
	return cmd
}

// VisionWorkerCmd starts one worker process's loopback HTTP transport
// (§4.16). This codebase carries no real object-detection model runtime
// in its dependency pack, so every worker starts in the degraded state
// and runs permanently on the functional fallback detector (§10.6) — a
// documented, not accidental, consequence of "model load fails" always
// being true here.
func VisionWorkerCmd() *cobra.Command {
	var port int
	var id string
	var debug bool

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run a single vision detection worker",
		Long:  "Serves POST /inference, GET /status, POST /shutdown on loopback for one worker process.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisionWorker(cmd, port, id, debug)
		},
	}

	cmd.Flags().IntVar(&port, "port", 9500, "Loopback port to listen on")
	cmd.Flags().StringVar(&id, "id", "worker-0", "Worker identifier reported in status and detection frames")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable verbose request logging")
	return cmd
}

func runVisionWorker(cmd *cobra.Command, port int, id string, debug bool) error {
	cfg, _ := config.Load("")

	timeFmt := time.Kitchen
	logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFmt,
		Prefix:          "📹",
		ReportCaller:    debug,
	})

	clk := clock.Real{}
	worker := vision.NewWorker(id, clk, false, nil)
	if worker.DegradedAtStartup() {
		logger.Warnf("worker %s: no model runtime available, running on fallback detector", id)
		worker.Ready()
	}

	visionMetrics := middleware.NewVisionMetrics(prometheus.DefaultRegisterer, id)

	addr := fmt.Sprintf("%s:%d", cfgVisionHost(cfg), port)

	srv := &http.Server{Addr: addr}
	shutdownFn := func() {
		time.Sleep(50 * time.Millisecond)
		_ = srv.Shutdown(context.Background())
	}
	srv.Handler = vision.NewServer(worker, logger, visionMetrics, shutdownFn)

	echo.Successf("✓ vision worker %s listening on %s", id, addr)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		_ = srv.Shutdown(context.Background())
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func cfgVisionHost(cfg *config.Config) string {
	if cfg == nil || cfg.Vision.Host == "" {
		return "127.0.0.1"
	}
	return cfg.Vision.Host
}

// VisionPoolCmd starts the dispatcher and N worker subprocesses, then
// waits for SIGINT/SIGTERM to shut the pool down cleanly (§4.9, §10.5).
func VisionPoolCmd() *cobra.Command {
	var workers int
	var basePort int

	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Start a supervised pool of vision workers",
		Long:  "Spawns N worker processes and relaunches a worker once if it exits unexpectedly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVisionPool(cmd, workers, basePort)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Number of worker processes (default: from config, 4)")
	cmd.Flags().IntVar(&basePort, "base-port", 0, "First worker's port; subsequent workers increment (default: from config)")
	return cmd
}

func runVisionPool(cmd *cobra.Command, workers, basePort int) error {
	echo.Header("Vision Worker Pool")

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("error: failed to load config: %w", err)
	}
	if workers <= 0 {
		workers = cfg.Vision.Workers
	}
	if basePort <= 0 {
		basePort = cfg.Vision.BasePort
	}

	logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "📹",
	})

	selfPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("error: cannot locate own binary to spawn workers: %w", err)
	}

	nextPort := basePort
	spawn := func(id string) (*vision.WorkerProc, error) {
		port := nextPort
		nextPort++

		proc := exec.Command(selfPath, "vision", "worker", "--port", strconv.Itoa(port), "--id", id)
		proc.Stdout = cmd.OutOrStdout()
		proc.Stderr = cmd.ErrOrStderr()
		if err := proc.Start(); err != nil {
			return nil, fmt.Errorf("spawn %s: %w", id, err)
		}

		baseURL := fmt.Sprintf("http://%s:%d", cfgVisionHost(cfg), port)
		return vision.NewWorkerProc(id, baseURL, proc), nil
	}

	dispatcher := vision.NewDispatcher(logger, spawn)
	if err := dispatcher.Start(workers); err != nil {
		return fmt.Errorf("error: %w", err)
	}
	echo.Successf("✓ %d vision workers started (base port %d)", workers, basePort)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go dispatcher.Supervise(ctx)

	<-ctx.Done()
	echo.Info("shutting down vision pool...")

	status := dispatcher.Status(context.Background())
	for _, s := range status.Workers {
		echo.Infof("  %s: %s (%d frames processed)", s.WorkerID, s.State, s.Counters.FramesProcessed)
	}

	return nil
}
