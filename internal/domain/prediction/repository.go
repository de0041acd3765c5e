package prediction

import "context"

// Repository persists match predictions.
type Repository interface {
	Insert(ctx context.Context, p Prediction) error
	GetLatestByMatch(ctx context.Context, matchID string) (Prediction, bool, error)
	ListRecent(ctx context.Context, limit int) ([]Prediction, error)
}
