package boxscore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matchday/platform/internal/domain"
)

// Cache TTLs keyed by match state: live box scores churn with every append,
// finished ones only change through adjustScore corrections.
const (
	liveTTL  = 2 * time.Hour
	finalTTL = 6 * time.Hour
)

// Projection is a cached box-score snapshot.
type Projection struct {
	BoxScore  *BoxScore          `json:"box_score"`
	Status    domain.MatchStatus `json:"status"`
	UpdatedAt string             `json:"updated_at"`
}

// UpdateProjection caches a match's box-score projection.
func UpdateProjection(ctx context.Context, store Store, status domain.MatchStatus, box *BoxScore) error {
	p := Projection{
		BoxScore:  box,
		Status:    status,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	ttl := liveTTL
	if status == domain.StatusFinished {
		ttl = finalTTL
	}
	return SetJSON(ctx, store, projectionKey(box.MatchID.String()), p, ttl)
}

// GetProjection retrieves a cached box-score projection.
func GetProjection(ctx context.Context, store Store, matchID string) (*Projection, error) {
	var p Projection
	if err := GetJSON(ctx, store, projectionKey(matchID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyEventToProjection folds one freshly appended event into the cached
// projection and rewrites it under the current status TTL, so reads never
// rescan the ledger while the cache is warm. A cache miss is not an error:
// the next read rebuilds and re-seeds the projection.
func ApplyEventToProjection(ctx context.Context, store Store, status domain.MatchStatus, homeTeamID, awayTeamID uuid.UUID, schema domain.CounterSchema, e *domain.MatchEvent) error {
	p, err := GetProjection(ctx, store, e.MatchID.String())
	if err != nil {
		return nil
	}
	acc := Resume(p.BoxScore, homeTeamID, awayTeamID, schema)
	acc.ApplyEvent(e)
	return UpdateProjection(ctx, store, status, acc.Snapshot())
}

// InvalidateProjection removes a match's cached box score, forcing the next
// read through the rebuild path.
func InvalidateProjection(ctx context.Context, store Store, matchID string) error {
	return store.Delete(ctx, projectionKey(matchID))
}

func projectionKey(matchID string) string {
	return fmt.Sprintf("projection:boxscore:%s", matchID)
}
