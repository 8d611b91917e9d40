package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blazeintel/havf-core/internal/cache"
	"github.com/blazeintel/havf-core/internal/config"
	"github.com/blazeintel/havf-core/internal/echo"
	"github.com/blazeintel/havf-core/internal/ledger"
	"github.com/blazeintel/havf-core/internal/store"
)

// StatusCmd reports data freshness: when each league was last ingested
// on disk, and what the run ledger (if reachable) says about its last
// attempt.
func StatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show league data freshness",
		Long:  "Display the last-write time of each persisted league file alongside the run ledger's history, where reachable.",
		RunE:  runStatus,
	}
	cmd.Flags().Bool("flush-cache", false, "invalidate all cached upstream provider responses before reporting")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	echo.Header("Data Status")
	ctx := cmd.Context()

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("error: failed to load config: %w", err)
	}

	dataStore, err := store.New("data")
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}

	var runs map[string]ledger.Run
	l, err := ledger.Connect(cfg.Database.URL)
	if err != nil {
		echo.Infof("⚠ run ledger unreachable: %v", err)
	} else {
		defer l.DB.Close()
		runs, err = l.LatestRuns(ctx)
		if err != nil {
			echo.Infof("⚠ unable to read run ledger: %v", err)
			runs = map[string]ledger.Run{}
		}
	}

	echo.Info("Leagues:")
	for _, def := range leagueDefs {
		mtime, exists := dataStore.LeagueFileInfo(def.Code)
		if !exists {
			echo.Infof("  • %s: %s", def.Code, echo.ErrorStyle().Render("no data on disk"))
		} else {
			echo.Successf("  ✓ %s: last written %s", def.Code, humanizeModTime(mtime))
		}

		if run, ok := runs[def.Code]; ok {
			echo.Infof("    Last ledger entry: %s", formatRun(run))
		} else {
			echo.Infof("    Last ledger entry: never recorded")
		}
	}

	logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{ReportTimestamp: false})
	cacheClient := buildCacheClient(cfg, logger)
	if cacheClient == nil {
		echo.Info("")
		echo.Infof("Cache: disabled")
	} else {
		echo.Info("")
		if flush, _ := cmd.Flags().GetBool("flush-cache"); flush {
			deleted, err := cacheClient.InvalidateByPrefix(ctx, cacheClient.KeyPrefix(cache.KeyTypeUpstream, ""))
			if err != nil {
				echo.Infof("  ⚠ cache flush failed: %v", err)
			} else {
				echo.Infof("Cache: flushed %d cached upstream response(s)", deleted)
			}
		}

		echo.Info("Cache occupancy:")
		stats, err := cacheClient.GetStats(ctx, cacheClient.KeyPrefix(cache.KeyTypeUpstream, "")+"*")
		if err != nil {
			echo.Infof("  ⚠ unable to read cache stats: %v", err)
		} else if stats.Count == 0 {
			echo.Info("  no upstream responses cached")
		} else {
			echo.Infof("  %d upstream response(s) cached", stats.Count)
		}
	}

	echo.Info("")
	echo.Success("✓ Status check completed")
	return nil
}

func humanizeModTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return fmt.Sprintf("%s (%s ago)", t.Format("2006-01-02 15:04"), time.Since(t).Round(time.Minute))
}

func formatRun(run ledger.Run) string {
	finished := "running"
	if run.FinishedAt != nil {
		finished = fmt.Sprintf("%s ago", time.Since(*run.FinishedAt).Round(time.Minute))
	}
	return fmt.Sprintf("%s, %d rows, finished %s", run.Status, run.RowCount, finished)
}
