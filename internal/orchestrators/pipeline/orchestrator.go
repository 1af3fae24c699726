// Package pipeline wires the first-phase structural repairs and the
// last-phase settlements into one transaction around a committed turn.
package pipeline

//go:generate mockgen -destination=mock/mock_service.go -package=pipelinemock github.com/frostline-games/worldstate/internal/orchestrators/pipeline Service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frostline-games/worldstate/internal/errors"
	"github.com/frostline-games/worldstate/internal/orchestrators/reconcile"
	"github.com/frostline-games/worldstate/internal/orchestrators/settle"
)

// Service runs the full reconciliation transaction for one turn.
type Service interface {
	Run(ctx context.Context, input *RunInput) (*RunOutput, error)
}

// Config holds the dependencies for the pipeline orchestrator
type Config struct {
	Reconcile reconcile.Service
	Settle    settle.Service

	// Instance arbitrates between concurrently loaded engines. Nil means
	// this pipeline always runs.
	Instance *Instance

	Logger *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Reconcile == nil {
		vb.RequiredField("Reconcile")
	}
	if c.Settle == nil {
		vb.RequiredField("Settle")
	}

	return vb.Build()
}

type orchestrator struct {
	reconcile reconcile.Service
	settle    settle.Service
	instance  *Instance
	log       *slog.Logger
}

// NewOrchestrator creates a new pipeline orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &orchestrator{
		reconcile: cfg.Reconcile,
		settle:    cfg.Settle,
		instance:  cfg.Instance,
		log:       log,
	}, nil
}

// Ensure orchestrator implements Service
var _ Service = (*orchestrator)(nil)

// Run executes both phases over the committed document. The before
// snapshot is deep-copied once up front so no phase can see a sibling's
// mutations through it. Each phase is isolated: a panic or error is
// logged and recorded, and the remaining phases still run.
func (o *orchestrator) Run(ctx context.Context, input *RunInput) (*RunOutput, error) {
	if input == nil || input.Doc == nil || input.Before == nil {
		return nil, errors.InvalidArgument("document and before-snapshot are required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}

	if !o.instance.Active() {
		o.log.Warn("retired pipeline instance skipped turn",
			"session_id", input.SessionID, "turn_id", input.TurnID)
		return &RunOutput{Skipped: true}, nil
	}

	doc := input.Doc
	before := input.Before.Clone()
	out := &RunOutput{}

	// First phase: structural repairs.
	o.phase(out, "merge_characters", func() error {
		res, err := o.reconcile.MergeCharacters(ctx, &reconcile.MergeCharactersInput{Doc: doc})
		if res != nil {
			out.Merged = res.Merged
		}
		return err
	})
	o.phase(out, "sanitize_stages", func() error {
		res, err := o.reconcile.SanitizeStages(ctx, &reconcile.SanitizeStagesInput{Doc: doc, Before: before})
		if res != nil {
			out.MovedOnstage = res.MovedOnstage
			out.MovedOffstage = res.MovedOffstage
		}
		return err
	})
	o.phase(out, "reconcile_rooms", func() error {
		res, err := o.reconcile.ReconcileRooms(ctx, &reconcile.ReconcileRoomsInput{Doc: doc, Before: before})
		if res != nil {
			out.LocationChanges = res.Changes
		}
		return err
	})
	o.phase(out, "adjust_clock", func() error {
		res, err := o.reconcile.AdjustClock(ctx, &reconcile.AdjustClockInput{Doc: doc, Before: before})
		if res != nil {
			out.ClockAdjusted = res.Adjusted
		}
		return err
	})

	// Last phase: settlements against the durable store.
	o.phase(out, "daily_roll", func() error {
		res, err := o.settle.SettleDailyRoll(ctx, &settle.SettleDailyRollInput{
			SessionID: input.SessionID, TurnID: input.TurnID, Doc: doc, Before: before,
		})
		out.DailyRoll = res
		return err
	})
	o.phase(out, "scope_delta", func() error {
		res, err := o.settle.ApplyScopeDelta(ctx, &settle.ApplyScopeDeltaInput{
			SessionID: input.SessionID, Doc: doc,
		})
		if res != nil {
			out.Scope = res.Scope
		}
		return err
	})
	o.phase(out, "offstage", func() error {
		res, err := o.settle.SettleOffstage(ctx, &settle.SettleOffstageInput{
			SessionID: input.SessionID, Doc: doc, Before: before,
		})
		if res != nil {
			out.Simulated = res.Simulated
			out.Deaths = res.Deaths
		}
		return err
	})
	o.phase(out, "mission", func() error {
		res, err := o.settle.SettleMission(ctx, &settle.SettleMissionInput{
			SessionID: input.SessionID, TurnID: input.TurnID, Doc: doc, Before: before,
		})
		if res != nil {
			out.MissionStage = res.Stage
			out.MissionAdvanced = res.Advanced
		}
		return err
	})

	return out, nil
}

// phase runs one settlement step with panic and error isolation.
func (o *orchestrator) phase(out *RunOutput, name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Internalf("phase %s panicked: %v", name, r)
			o.log.Error("settlement phase panicked", "phase", name, "panic", fmt.Sprint(r))
			out.PhaseErrors = append(out.PhaseErrors, PhaseError{Phase: name, Err: err})
		}
	}()
	if err := fn(); err != nil {
		o.log.Error("settlement phase failed", "phase", name, "error", err)
		out.PhaseErrors = append(out.PhaseErrors, PhaseError{Phase: name, Err: err})
	}
}
