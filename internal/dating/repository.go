package dating

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/sangam-discovery/internal/common/database"
)

// DecisionLedger answers which targets a requester has already acted on.
type DecisionLedger interface {
	GetDecidedTargetIDs(ctx context.Context, requesterID string) (map[string]struct{}, error)
}

type postgresDecisionLedger struct {
	db      *sqlx.DB
	breaker *database.Breaker
}

// NewPostgresDecisionLedger reads the decisions table. breaker is optional.
func NewPostgresDecisionLedger(db *sqlx.DB, breaker *database.Breaker) DecisionLedger {
	return &postgresDecisionLedger{db: db, breaker: breaker}
}

func (l *postgresDecisionLedger) GetDecidedTargetIDs(ctx context.Context, requesterID string) (map[string]struct{}, error) {
	decisions, err := database.Execute(l.breaker, func() ([]Decision, error) {
		var rows []Decision
		query := `
			SELECT actor_id::text AS actor_id, target_id::text AS target_id, action, created_at
			FROM decisions
			WHERE actor_id::text = $1`
		if err := l.db.SelectContext(ctx, &rows, query, requesterID); err != nil {
			return nil, fmt.Errorf("failed to load decisions: %w", err)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}

	return decidedTargets(requesterID, decisions), nil
}

// decidedTargets projects the target ids of requesterID's decisions. Every
// action excludes the target, superlikes included.
func decidedTargets(requesterID string, decisions []Decision) map[string]struct{} {
	out := make(map[string]struct{}, len(decisions))
	for _, d := range decisions {
		if d.ActorID != requesterID || d.TargetID == "" {
			continue
		}
		out[d.TargetID] = struct{}{}
	}
	return out
}
