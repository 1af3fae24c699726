package session

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/frostline-games/worldstate/internal/errors"
	"github.com/frostline-games/worldstate/internal/pkg/clock"
	redisclient "github.com/frostline-games/worldstate/internal/redis"
	"github.com/frostline-games/worldstate/internal/rules"
)

const (
	// Key pattern: worldstate:{session_id}:{field}
	keyPrefix = "worldstate:"

	fieldScope        = "scope"
	fieldHealthRules  = "health_rules"
	fieldUpgradeState = "upgrade_state"
	fieldDebugFlags   = "debug_flags"

	errSessionIDEmpty = "session ID cannot be empty"
	errStateNil       = "upgrade state cannot be nil"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for session state
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// GetScope retrieves a session's shelter scope
func (r *redisRepository) GetScope(ctx context.Context, input GetScopeInput) (*GetScopeOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	var scope map[string][]string
	if err := r.getJSON(ctx, r.buildKey(input.SessionID, fieldScope), &scope); err != nil {
		return nil, err
	}

	return &GetScopeOutput{Scope: scope}, nil
}

// SetScope replaces a session's shelter scope
func (r *redisRepository) SetScope(ctx context.Context, input SetScopeInput) (*SetScopeOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	if err := r.setJSON(ctx, r.buildKey(input.SessionID, fieldScope), input.Scope); err != nil {
		return nil, err
	}

	return &SetScopeOutput{}, nil
}

// GetHealthRules retrieves a session's health simulation tuning
func (r *redisRepository) GetHealthRules(ctx context.Context, input GetHealthRulesInput) (*GetHealthRulesOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	var stored rules.HealthRules
	if err := r.getJSON(ctx, r.buildKey(input.SessionID, fieldHealthRules), &stored); err != nil {
		return nil, err
	}

	return &GetHealthRulesOutput{Rules: stored.Normalized()}, nil
}

// SetHealthRules replaces a session's health simulation tuning
func (r *redisRepository) SetHealthRules(ctx context.Context, input SetHealthRulesInput) (*SetHealthRulesOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	if err := r.setJSON(ctx, r.buildKey(input.SessionID, fieldHealthRules), input.Rules.Normalized()); err != nil {
		return nil, err
	}

	return &SetHealthRulesOutput{}, nil
}

// GetUpgradeState retrieves a session's daily-roll ledger
func (r *redisRepository) GetUpgradeState(ctx context.Context, input GetUpgradeStateInput) (*GetUpgradeStateOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	var state UpgradeState
	if err := r.getJSON(ctx, r.buildKey(input.SessionID, fieldUpgradeState), &state); err != nil {
		return nil, err
	}

	return &GetUpgradeStateOutput{State: &state}, nil
}

// SetUpgradeState replaces a session's daily-roll ledger
func (r *redisRepository) SetUpgradeState(ctx context.Context, input SetUpgradeStateInput) (*SetUpgradeStateOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}
	if input.State == nil {
		return nil, errors.InvalidArgument(errStateNil)
	}

	input.State.UpdatedAt = r.clock.Now()
	if err := r.setJSON(ctx, r.buildKey(input.SessionID, fieldUpgradeState), input.State); err != nil {
		return nil, err
	}

	return &SetUpgradeStateOutput{}, nil
}

// GetDebugFlags retrieves a session's debug switches
func (r *redisRepository) GetDebugFlags(ctx context.Context, input GetDebugFlagsInput) (*GetDebugFlagsOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	var flags DebugFlags
	if err := r.getJSON(ctx, r.buildKey(input.SessionID, fieldDebugFlags), &flags); err != nil {
		return nil, err
	}

	return &GetDebugFlagsOutput{Flags: flags}, nil
}

// SetDebugFlags replaces a session's debug switches
func (r *redisRepository) SetDebugFlags(ctx context.Context, input SetDebugFlagsInput) (*SetDebugFlagsOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument(errSessionIDEmpty)
	}

	if err := r.setJSON(ctx, r.buildKey(input.SessionID, fieldDebugFlags), input.Flags); err != nil {
		return nil, err
	}

	return &SetDebugFlagsOutput{}, nil
}

func (r *redisRepository) getJSON(ctx context.Context, key string, out any) error {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return errors.NotFoundf("no value stored at %s", key)
		}
		return errors.Wrapf(err, "failed to get %s from Redis", key)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %s", key)
	}
	return nil
}

func (r *redisRepository) setJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", key)
	}

	// Session state is durable; no TTL.
	if err := r.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return errors.Wrapf(err, "failed to store %s in Redis", key)
	}
	return nil
}

// buildKey creates the Redis key for one session field
func (r *redisRepository) buildKey(sessionID, field string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, sessionID, field)
}
