package modelperf

import "context"

type Repository interface {
	Insert(ctx context.Context, snapshot Snapshot) error
	GetLatest(ctx context.Context) (Snapshot, bool, error)
	List(ctx context.Context, limit int) ([]Snapshot, error)
}
