// Package session provides the repository interface and types for the
// durable per-session state the reconciliation engine keeps outside the
// narrator-visible document: the shelter scope, the health simulation
// tuning, the daily-roll ledger, and debug switches.
package session

import (
	"context"
	"sort"
	"time"

	"github.com/frostline-games/worldstate/internal/rules"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/frostline-games/worldstate/internal/repositories/session Repository

// Roll reasons recorded in the ledger.
const (
	RollReasonGuarantee = "guarantee"
	RollReasonLucky     = "lucky"
	RollReasonNormal    = "normal"
	RollReasonNone      = "none"
)

// Roll sources recorded in the ledger.
const (
	RollSourceAuto   = "auto"
	RollSourceManual = "manual"
	RollSourceSeed   = "seed"
)

// UpgradeState is the durable daily-progression ledger. The document's
// display fields are rewritten from it every turn; narrator edits to those
// fields never reach this state.
type UpgradeState struct {
	// LastRollDate is the world date of the most recent settled roll.
	LastRollDate string `json:"last_roll_date"`

	// DaysSinceUpgrade counts settled days since the last level-up.
	// At 7 the next roll is a guaranteed upgrade.
	DaysSinceUpgrade int `json:"days_since_upgrade"`

	// RollHistory keys ledger entries by world date. Pruned to the most
	// recent entries by date order.
	RollHistory map[string]*RollRecord `json:"roll_history,omitempty"`

	// ManualRequest is a pending narrator-triggered roll. Takes
	// precedence over the date-advance path and is cleared once settled.
	ManualRequest *ManualRollRequest `json:"manual_request,omitempty"`

	// Last settlement metadata, for the display rewrite.
	LastEventID     string `json:"last_event_id,omitempty"`
	LastSettledTurn int    `json:"last_settled_turn,omitempty"`

	// UpdatedAt is stamped by the repository on every write.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// RollRecord is one settled daily roll.
type RollRecord struct {
	// Roll is the d11 result in [0,10]; nil for guarantee days where no
	// die was thrown.
	Roll      *int      `json:"roll,omitempty"`
	Upgraded  bool      `json:"upgraded"`
	Reason    string    `json:"reason"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	EventID   string    `json:"event_id"`
	TurnID    int       `json:"turn_id"`
	Trigger   string    `json:"trigger,omitempty"`
}

// ManualRollRequest is a narrator-written request for an immediate roll.
type ManualRollRequest struct {
	ID        string    `json:"id"`
	TurnID    int       `json:"turn_id"`
	Date      string    `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

// DebugFlags toggles extra settlement logging for a session.
type DebugFlags struct {
	Verbose     bool `json:"verbose"`
	TraceRooms  bool `json:"trace_rooms"`
	TraceHealth bool `json:"trace_health"`
}

// GetScopeInput requests a session's shelter scope.
type GetScopeInput struct {
	SessionID string
}

// GetScopeOutput carries the stored scope, floor -> sorted room numbers.
type GetScopeOutput struct {
	Scope map[string][]string
}

// SetScopeInput replaces a session's shelter scope.
type SetScopeInput struct {
	SessionID string
	Scope     map[string][]string
}

// SetScopeOutput is the result of storing a scope.
type SetScopeOutput struct{}

// GetHealthRulesInput requests a session's health tuning.
type GetHealthRulesInput struct {
	SessionID string
}

// GetHealthRulesOutput carries the stored tuning.
type GetHealthRulesOutput struct {
	Rules rules.HealthRules
}

// SetHealthRulesInput replaces a session's health tuning.
type SetHealthRulesInput struct {
	SessionID string
	Rules     rules.HealthRules
}

// SetHealthRulesOutput is the result of storing health tuning.
type SetHealthRulesOutput struct{}

// GetUpgradeStateInput requests a session's daily-roll ledger.
type GetUpgradeStateInput struct {
	SessionID string
}

// GetUpgradeStateOutput carries the stored ledger.
type GetUpgradeStateOutput struct {
	State *UpgradeState
}

// SetUpgradeStateInput replaces a session's daily-roll ledger.
type SetUpgradeStateInput struct {
	SessionID string
	State     *UpgradeState
}

// SetUpgradeStateOutput is the result of storing the ledger.
type SetUpgradeStateOutput struct{}

// GetDebugFlagsInput requests a session's debug switches.
type GetDebugFlagsInput struct {
	SessionID string
}

// GetDebugFlagsOutput carries the stored switches.
type GetDebugFlagsOutput struct {
	Flags DebugFlags
}

// SetDebugFlagsInput replaces a session's debug switches.
type SetDebugFlagsInput struct {
	SessionID string
	Flags     DebugFlags
}

// SetDebugFlagsOutput is the result of storing debug switches.
type SetDebugFlagsOutput struct{}

// Repository defines the storage operations for per-session engine state.
// Every Get returns NotFound when nothing has been stored yet; callers
// treat that as the zero state.
type Repository interface {
	GetScope(ctx context.Context, input GetScopeInput) (*GetScopeOutput, error)
	SetScope(ctx context.Context, input SetScopeInput) (*SetScopeOutput, error)

	GetHealthRules(ctx context.Context, input GetHealthRulesInput) (*GetHealthRulesOutput, error)
	SetHealthRules(ctx context.Context, input SetHealthRulesInput) (*SetHealthRulesOutput, error)

	GetUpgradeState(ctx context.Context, input GetUpgradeStateInput) (*GetUpgradeStateOutput, error)
	SetUpgradeState(ctx context.Context, input SetUpgradeStateInput) (*SetUpgradeStateOutput, error)

	GetDebugFlags(ctx context.Context, input GetDebugFlagsInput) (*GetDebugFlagsOutput, error)
	SetDebugFlags(ctx context.Context, input SetDebugFlagsInput) (*SetDebugFlagsOutput, error)
}

// PruneHistory trims the roll history to the most recent keep entries by
// date order. The ledger grows one entry per settled day; 120 days is the
// retention the display and tampering checks need.
func (s *UpgradeState) PruneHistory(keep int) {
	if len(s.RollHistory) <= keep {
		return
	}
	dates := make([]string, 0, len(s.RollHistory))
	for date := range s.RollHistory {
		dates = append(dates, date)
	}
	// Dates are zero-padded ISO strings; lexical order is date order.
	sort.Strings(dates)
	for _, date := range dates[:len(dates)-keep] {
		delete(s.RollHistory, date)
	}
}
