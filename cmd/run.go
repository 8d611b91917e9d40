package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/blazeintel/havf-core/internal/athlete"
	"github.com/blazeintel/havf-core/internal/cache"
	"github.com/blazeintel/havf-core/internal/clock"
	"github.com/blazeintel/havf-core/internal/config"
	"github.com/blazeintel/havf-core/internal/echo"
	"github.com/blazeintel/havf-core/internal/fetch"
	"github.com/blazeintel/havf-core/internal/ingest"
	"github.com/blazeintel/havf-core/internal/ledger"
	"github.com/blazeintel/havf-core/internal/readiness"
	"github.com/blazeintel/havf-core/internal/registry"
	"github.com/blazeintel/havf-core/internal/store"
	"github.com/blazeintel/havf-core/internal/validate"
)

// defaultRateLimit is the sliding-window quota applied to every league
// agent's fetch client absent a more specific per-provider figure.
var defaultRateLimit = fetch.Limit{Calls: 30, Period: time.Minute}

// RunCmd builds the `run` orchestrator command (C10, §6.1).
func RunCmd() *cobra.Command {
	var live bool
	var leaguesFlag string
	var focusTeamsFlag string
	var agentFlag string
	var skipTests bool
	var skipReadiness bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run league ingestion, readiness aggregation, and validation",
		Long:  "Sequences league ingestion agents in priority order, aggregates team readiness, and validates the schema contract.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrchestrator(cmd, orchestratorArgs{
				live:          live,
				leagues:       leaguesFlag,
				focusTeams:    focusTeamsFlag,
				agent:         agentFlag,
				skipTests:     skipTests,
				skipReadiness: skipReadiness,
			})
		},
	}

	cmd.Flags().BoolVar(&live, "live", false, "Fetch from live provider APIs instead of fixtures (also requires LIVE_FETCH=1)")
	cmd.Flags().StringVar(&leaguesFlag, "leagues", "", "Comma-separated leagues to run (default: all — mlb,nfl,ncaa,nba,hs,nil,intl)")
	cmd.Flags().StringVar(&focusTeamsFlag, "focus-teams", "", "Comma-separated team_ids to feature in the readiness report, in priority order")
	cmd.Flags().StringVar(&agentFlag, "agent", "", "Run a single league agent only (one of: mlb,nfl,ncaa,nba,hs,nil,intl)")
	cmd.Flags().BoolVar(&skipTests, "skip-tests", false, "Skip the schema-contract validation stage")
	cmd.Flags().BoolVar(&skipReadiness, "skip-readiness", false, "Skip the readiness aggregation stage")
	return cmd
}

type orchestratorArgs struct {
	live          bool
	leagues       string
	focusTeams    string
	agent         string
	skipTests     bool
	skipReadiness bool
}

// exitError carries a process exit code alongside a human-readable
// error so main can distinguish "some stage failed" (1) from "fatal
// config error" (2) (§6.1).
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

// ExitCode extracts the process exit code RunCmd's RunE intends,
// defaulting to 1 for any other error and 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return 1
}

func runOrchestrator(cmd *cobra.Command, a orchestratorArgs) error {
	echo.Header("HAV-F Ingestion Run")

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		echo.Errorf("✗ config error: %v", err)
		return &exitError{code: 2, err: err}
	}

	leagueNames, err := resolveLeagues(a.leagues, a.agent)
	if err != nil {
		echo.Errorf("✗ config error: %v", err)
		return &exitError{code: 2, err: err}
	}

	focusTeams := cfg.FocusTeams
	if a.focusTeams != "" {
		focusTeams = splitCSVArg(a.focusTeams)
	}

	liveEnabled := a.live && os.Getenv("LIVE_FETCH") == "1"
	if a.live && !liveEnabled {
		echo.Info("⚠ --live given but LIVE_FETCH=1 is not set; falling back to fixtures")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	clk := clock.Real{}
	reg := registry.New()

	logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "🏟️ ",
		ReportCaller:    cfg.Vision.DebugMode,
	})

	dataStore, err := store.New("data")
	if err != nil {
		echo.Errorf("✗ config error: %v", err)
		return &exitError{code: 2, err: err}
	}

	cacheClient := buildCacheClient(cfg, logger)
	ledgerClient := connectLedger(ctx, cfg, logger)
	if ledgerClient != nil {
		defer ledgerClient.DB.Close()
	}

	anyStageFailed := false
	var unifiedTeams []athlete.Team
	var unifiedPlayers []athlete.Athlete

	for _, name := range leagueNames {
		def, ok := findLeagueDef(strings.ToLower(name))
		if !ok {
			continue
		}

		if ctx.Err() != nil {
			echo.Info("⚠ cancellation requested, stopping before next league")
			anyStageFailed = true
			break
		}

		echo.Infof("→ running %s agent (live=%v)", def.Code, liveEnabled)

		runID := startLedgerRun(ctx, ledgerClient, def.Code, clk.Now())

		agent := &ingest.Agent{
			League:    def.Code,
			Registry:  reg,
			Fetcher:   fetch.NewClient(defaultRateLimit, clk, cacheClient),
			Store:     dataStore,
			Clock:     clk,
			Live:      liveEnabled,
			Logger:    logger,
			LiveURL:   def.LiveURL,
			Normalize: def.Normalize,
		}

		result, runErr := agent.Run(ctx)
		finishLedgerRun(ctx, ledgerClient, runID, int64(result.RowCount), runErr)

		if runErr != nil {
			echo.Errorf("✗ %s failed: %v", def.Code, runErr)
			anyStageFailed = true
			continue
		}

		failedTeams := 0
		for _, tr := range result.Teams {
			if tr.State == ingest.StateFailed {
				failedTeams++
				continue
			}
			unifiedPlayers = append(unifiedPlayers, tr.Athletes...)
			if entry, ok := reg.Lookup(tr.TeamID); ok {
				unifiedTeams = append(unifiedTeams, athlete.Team{
					TeamID:   entry.TeamID,
					Name:     entry.Name,
					Sport:    entry.Sport,
					League:   entry.League,
					Division: entry.Division,
					Location: entry.Location,
					Season:   athlete.Season{WinPct: tr.WinPct},
					Roster:   rosterIDs(tr.Athletes),
				})
			}
		}
		if failedTeams > 0 {
			echo.Infof("  ⚠ %d of %d teams failed for %s", failedTeams, len(result.Teams), def.Code)
		}
		echo.Successf("✓ %s: %d players written", def.Code, result.RowCount)
	}

	if err := dataStore.WriteUnified(store.UnifiedEnvelope{
		Version:     store.UnifiedVersion,
		GeneratedAt: clk.Now(),
		Teams:       unifiedTeams,
		Players:     unifiedPlayers,
	}); err != nil {
		echo.Errorf("✗ unified write failed: %v", err)
		anyStageFailed = true
	}

	if !a.skipReadiness {
		if err := runReadinessStage(dataStore, unifiedTeams, unifiedPlayers, focusTeams, clk); err != nil {
			echo.Errorf("✗ readiness aggregation failed: %v", err)
			anyStageFailed = true
		} else {
			echo.Success("✓ readiness report written")
		}
	} else {
		echo.Info("⚠ readiness aggregation skipped (--skip-readiness)")
	}

	if !a.skipTests {
		if err := runValidationStage(unifiedPlayers); err != nil {
			echo.Errorf("✗ validation failed: %v", err)
			anyStageFailed = true
		} else {
			echo.Success("✓ schema contract validated")
		}
	} else {
		echo.Info("⚠ validation skipped (--skip-tests)")
	}

	echo.Info("")
	if anyStageFailed {
		echo.Error("✗ run completed with failures")
		return &exitError{code: 1, err: fmt.Errorf("one or more stages failed")}
	}

	echo.Success("✓ run completed successfully")
	return nil
}

func rosterIDs(players []athlete.Athlete) []string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.PlayerID
	}
	return ids
}

func resolveLeagues(leaguesFlag, agentFlag string) ([]string, error) {
	if agentFlag != "" {
		if _, ok := findLeagueDef(strings.ToLower(agentFlag)); !ok {
			return nil, fmt.Errorf("unknown league for --agent: %q", agentFlag)
		}
		return []string{agentFlag}, nil
	}

	if leaguesFlag == "" {
		all := make([]string, 0, len(leagueDefs))
		for _, d := range leagueDefs {
			all = append(all, d.CLIName)
		}
		return all, nil
	}

	requested := splitCSVArg(leaguesFlag)
	for _, name := range requested {
		if _, ok := findLeagueDef(strings.ToLower(name)); !ok {
			return nil, fmt.Errorf("unknown league: %q", name)
		}
	}
	return requested, nil
}

func splitCSVArg(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func buildCacheClient(cfg *config.Config, logger *log.Logger) *cache.Client {
	if !cfg.Cache.Enabled {
		return nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Warnf("cache disabled: invalid redis url: %v", err)
		return nil
	}
	redisClient := redis.NewClient(opts)
	return cache.NewClient(redisClient, cache.Config{
		App:     "havf",
		Env:     "run",
		Version: cfg.Cache.Version,
		Enabled: true,
		TTLs: cache.TTLConfig{
			Upstream: time.Duration(cfg.Cache.TTLs.Upstream) * time.Second,
			Negative: time.Duration(cfg.Cache.TTLs.Negative) * time.Second,
		},
	})
}

func connectLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) *ledger.Ledger {
	l, err := ledger.Connect(cfg.Database.URL)
	if err != nil {
		logger.Warnf("run ledger unavailable, proceeding without it: %v", err)
		return nil
	}
	if err := l.Migrate(ctx); err != nil {
		logger.Warnf("run ledger migration failed, proceeding without it: %v", err)
		return nil
	}
	return l
}

func startLedgerRun(ctx context.Context, l *ledger.Ledger, league string, startedAt time.Time) int64 {
	if l == nil {
		return 0
	}
	id, err := l.StartRun(ctx, league, startedAt)
	if err != nil {
		return 0
	}
	return id
}

func finishLedgerRun(ctx context.Context, l *ledger.Ledger, id int64, rowCount int64, runErr error) {
	if l == nil || id == 0 {
		return
	}
	_ = l.FinishRun(ctx, id, rowCount, runErr)
}

// runReadinessStage builds one TeamRoster per team from this run's
// unified teams/players (C7 reads the just-persisted unified view rather
// than re-reading each per-league file from disk, since win_pct only
// lives on the Team record).
func runReadinessStage(dataStore *store.Store, teams []athlete.Team, players []athlete.Athlete, focusTeams []string, clk clock.Clock) error {
	byTeam := make(map[string][]athlete.Athlete)
	for _, p := range players {
		byTeam[p.TeamID] = append(byTeam[p.TeamID], p)
	}

	summaries := make([]readiness.TeamSummary, 0, len(teams))
	for _, t := range teams {
		summaries = append(summaries, readiness.BuildTeamSummary(readiness.TeamRoster{
			TeamID:   t.TeamID,
			League:   t.League,
			WinPct:   t.Season.WinPct,
			Athletes: byTeam[t.TeamID],
		}))
	}

	report := readiness.BuildReport(clk.Now(), summaries, focusTeams)
	return dataStore.WriteReadiness(report)
}

func runValidationStage(players []athlete.Athlete) error {
	errs := validate.Players(players, make(map[string]bool))
	if len(errs) == 0 {
		return nil
	}
	for _, e := range errs {
		echo.Infof("  ⚠ %s", e.Error())
	}
	return fmt.Errorf("%d schema-contract violations", len(errs))
}
