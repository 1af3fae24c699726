package settle

import (
	"context"

	"github.com/frostline-games/worldstate/internal/errors"
	"github.com/frostline-games/worldstate/internal/repositories/session"
	"github.com/frostline-games/worldstate/internal/rules"
)

// ApplyScopeDelta consumes the narrator's one-shot scope delta: removals
// always apply, additions stick while the floor is under its capacity at
// the current shelter level, and the result is normalized, written to the
// session store, mirrored into the document for the narrator to read, and
// the delta trigger is cleared. Running the settlement again with no delta
// is a no-op apart from re-normalization.
func (o *orchestrator) ApplyScopeDelta(ctx context.Context, input *ApplyScopeDeltaInput) (*ApplyScopeDeltaOutput, error) {
	if input == nil || input.Doc == nil {
		return nil, errors.InvalidArgument("document is required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	doc := input.Doc

	scope, err := o.loadScope(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	delta := doc.Shelter.ScopeDelta
	applied := !delta.Empty()
	next := rules.ApplyScopeDelta(scope, delta, doc.Shelter.Level)

	if _, err := o.sessionRepo.SetScope(ctx, session.SetScopeInput{
		SessionID: input.SessionID,
		Scope:     next,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to store shelter scope")
	}

	// Mirror an empty scope as absent so the field round-trips stably
	// through the document's JSON form.
	if len(next) > 0 {
		doc.Shelter.ActiveScope = next
	} else {
		doc.Shelter.ActiveScope = nil
	}
	doc.Shelter.ScopeDelta = nil

	if applied {
		o.log.Info("applied scope delta",
			"session_id", input.SessionID, "level", doc.Shelter.Level, "scope", next)
	}
	return &ApplyScopeDeltaOutput{Scope: next, Applied: applied}, nil
}
