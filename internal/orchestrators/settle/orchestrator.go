// Package settle implements the last-phase settlements that run after the
// structural repairs: the daily progression roll, the shelter scope delta,
// the offstage health and death settlement, and the mission stage machine.
// These are the operations that touch the durable session store.
package settle

//go:generate mockgen -destination=mock/mock_service.go -package=settlemock github.com/frostline-games/worldstate/internal/orchestrators/settle Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/frostline-games/worldstate/internal/errors"
	"github.com/frostline-games/worldstate/internal/pkg/clock"
	"github.com/frostline-games/worldstate/internal/pkg/idgen"
	"github.com/frostline-games/worldstate/internal/repositories/session"
	"github.com/frostline-games/worldstate/internal/rules"
)

// Service defines the last-phase settlement operations, in the order the
// pipeline runs them.
type Service interface {
	SettleDailyRoll(ctx context.Context, input *SettleDailyRollInput) (*SettleDailyRollOutput, error)
	ApplyScopeDelta(ctx context.Context, input *ApplyScopeDeltaInput) (*ApplyScopeDeltaOutput, error)
	SettleOffstage(ctx context.Context, input *SettleOffstageInput) (*SettleOffstageOutput, error)
	SettleMission(ctx context.Context, input *SettleMissionInput) (*SettleMissionOutput, error)
}

// Roller is the die used for the daily progression roll. Tests swap in a
// fixed sequence.
type Roller interface {
	// RollProgress returns a uniform value in [0,10] and a human-readable
	// description of the throw.
	RollProgress() (int, string, error)
}

type toolkitRoller struct{}

// NewRoller returns the production roller backed by rpg-toolkit dice.
func NewRoller() Roller {
	return toolkitRoller{}
}

// RollProgress throws 1d11 and shifts it onto [0,10].
func (toolkitRoller) RollProgress() (int, string, error) {
	roll, err := dice.NewRoll(1, 11)
	if err != nil {
		return 0, "", errors.Wrap(err, "failed to create progress roll")
	}
	return roll.GetValue() - 1, roll.GetDescription(), nil
}

// Config holds the dependencies for the settle orchestrator
type Config struct {
	SessionRepo session.Repository
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Roller      Roller
	Logger      *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

type orchestrator struct {
	sessionRepo session.Repository
	clock       clock.Clock
	idGen       idgen.Generator
	roller      Roller
	log         *slog.Logger
}

// NewOrchestrator creates a new settle orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &orchestrator{
		sessionRepo: cfg.SessionRepo,
		clock:       cfg.Clock,
		idGen:       cfg.IDGenerator,
		roller:      cfg.Roller,
		log:         log,
	}, nil
}

// Ensure orchestrator implements Service
var _ Service = (*orchestrator)(nil)

// loadScope reads the session's shelter scope, treating an unset value as
// empty.
func (o *orchestrator) loadScope(ctx context.Context, sessionID string) (map[string][]string, error) {
	out, err := o.sessionRepo.GetScope(ctx, session.GetScopeInput{SessionID: sessionID})
	if err != nil {
		if errors.IsNotFound(err) {
			return map[string][]string{}, nil
		}
		return nil, errors.Wrap(err, "failed to load shelter scope")
	}
	if out.Scope == nil {
		return map[string][]string{}, nil
	}
	return out.Scope, nil
}

// loadHealthRules reads the session's health tuning, falling back to the
// defaults when nothing is stored.
func (o *orchestrator) loadHealthRules(ctx context.Context, sessionID string) (rules.HealthRules, error) {
	out, err := o.sessionRepo.GetHealthRules(ctx, session.GetHealthRulesInput{SessionID: sessionID})
	if err != nil {
		if errors.IsNotFound(err) {
			return rules.DefaultHealthRules(), nil
		}
		return rules.HealthRules{}, errors.Wrap(err, "failed to load health rules")
	}
	return out.Rules, nil
}
