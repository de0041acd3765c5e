package quiniela

import "context"

// SlipRepository persists user betting slips.
type SlipRepository interface {
	Insert(ctx context.Context, slip UserSlip) error
	GetByID(ctx context.Context, slipID string) (UserSlip, bool, error)
	ListBySeason(ctx context.Context, season string) ([]UserSlip, error)
	ListAll(ctx context.Context) ([]UserSlip, error)
	Update(ctx context.Context, slip UserSlip) error
}

// ConfigRepository persists saved 15-match round configurations.
type ConfigRepository interface {
	Upsert(ctx context.Context, config CustomConfig) error
	GetByID(ctx context.Context, configID string) (CustomConfig, bool, error)
	ListBySeason(ctx context.Context, season string) ([]CustomConfig, error)
}
