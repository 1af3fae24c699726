package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/orchestrators/pipeline"
	"github.com/frostline-games/worldstate/internal/orchestrators/reconcile"
	"github.com/frostline-games/worldstate/internal/orchestrators/settle"
	"github.com/frostline-games/worldstate/internal/pkg/clock"
	"github.com/frostline-games/worldstate/internal/pkg/idgen"
	redisclient "github.com/frostline-games/worldstate/internal/redis"
	"github.com/frostline-games/worldstate/internal/repositories/session"
)

// envConfig is the daemon-side configuration, read from the environment.
// Flags override it.
type envConfig struct {
	RedisAddr string `env:"WORLDSTATE_REDIS_ADDR" envDefault:"localhost:6379"`
	SessionID string `env:"WORLDSTATE_SESSION_ID" envDefault:"primary"`
}

var (
	beforePath string
	afterPath  string
	outPath    string
	sessionID  string
	turnID     int
	redisAddr  string
)

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Reconcile one committed turn",
	Long: `Reads the before and after world documents as JSON, runs the two-phase
reconciliation pipeline against the session store, and writes the repaired
document.`,
	RunE: runSettle,
}

func init() {
	settleCmd.Flags().StringVar(&beforePath, "before", "", "path to the previous turn's document (required)")
	settleCmd.Flags().StringVar(&afterPath, "after", "", "path to the committed document (required)")
	settleCmd.Flags().StringVar(&outPath, "out", "", "path to write the reconciled document (default stdout)")
	settleCmd.Flags().StringVar(&sessionID, "session", "", "session ID (default from WORLDSTATE_SESSION_ID)")
	settleCmd.Flags().IntVar(&turnID, "turn", 0, "turn number of the committed document")
	settleCmd.Flags().StringVar(&redisAddr, "redis", "", "redis address (default from WORLDSTATE_REDIS_ADDR)")
	_ = settleCmd.MarkFlagRequired("before")
	_ = settleCmd.MarkFlagRequired("after")
}

func runSettle(cmd *cobra.Command, args []string) error {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if sessionID == "" {
		sessionID = cfg.SessionID
	}
	if redisAddr == "" {
		redisAddr = cfg.RedisAddr
	}

	before, err := readDocument(beforePath)
	if err != nil {
		return err
	}
	doc, err := readDocument(afterPath)
	if err != nil {
		return err
	}

	svc, err := buildPipeline(redisAddr)
	if err != nil {
		return err
	}

	out, err := svc.Run(cmd.Context(), &pipeline.RunInput{
		SessionID: sessionID,
		TurnID:    turnID,
		Doc:       doc,
		Before:    before,
	})
	if err != nil {
		return fmt.Errorf("settle turn: %w", err)
	}
	for _, pe := range out.PhaseErrors {
		slog.Warn("phase did not settle", "phase", pe.Phase, "error", pe.Err)
	}

	return writeDocument(outPath, doc)
}

// buildPipeline wires the full engine against a Redis session store.
func buildPipeline(addr string) (pipeline.Service, error) {
	client, err := redisclient.NewClient(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	realClock := clock.New()
	repo, err := session.NewRedisRepository(&session.Config{
		Client: client,
		Clock:  realClock,
	})
	if err != nil {
		return nil, fmt.Errorf("create session repository: %w", err)
	}

	reconcileSvc, err := reconcile.NewOrchestrator(&reconcile.Config{})
	if err != nil {
		return nil, fmt.Errorf("create reconcile orchestrator: %w", err)
	}
	settleSvc, err := settle.NewOrchestrator(&settle.Config{
		SessionRepo: repo,
		Clock:       realClock,
		IDGenerator: idgen.NewUUID("roll"),
		Roller:      settle.NewRoller(),
	})
	if err != nil {
		return nil, fmt.Errorf("create settle orchestrator: %w", err)
	}

	return pipeline.NewOrchestrator(&pipeline.Config{
		Reconcile: reconcileSvc,
		Settle:    settleSvc,
		Instance:  pipeline.RegisterInstance(),
	})
}

func readDocument(path string) (*world.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc world.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &doc, nil
}

func writeDocument(path string, doc *world.Document) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	raw = append(raw, '\n')
	if path == "" {
		_, err = os.Stdout.Write(raw)
		return err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
