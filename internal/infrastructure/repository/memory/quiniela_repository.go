package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/quiniela"
)

type QuinielaSlipRepository struct {
	mu    sync.RWMutex
	slips map[string]quiniela.UserSlip
}

func NewQuinielaSlipRepository() *QuinielaSlipRepository {
	return &QuinielaSlipRepository{slips: make(map[string]quiniela.UserSlip)}
}

func (r *QuinielaSlipRepository) Insert(_ context.Context, slip quiniela.UserSlip) error {
	if err := slip.ValidateBasic(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.slips[slip.ID]; exists {
		return fmt.Errorf("slip id=%s already exists", slip.ID)
	}
	if slip.CreatedAt.IsZero() {
		slip.CreatedAt = time.Now().UTC()
	}
	if slip.UpdatedAt.IsZero() {
		slip.UpdatedAt = slip.CreatedAt
	}
	r.slips[slip.ID] = slip

	return nil
}

func (r *QuinielaSlipRepository) GetByID(_ context.Context, slipID string) (quiniela.UserSlip, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slip, ok := r.slips[slipID]
	return slip, ok, nil
}

func (r *QuinielaSlipRepository) ListBySeason(_ context.Context, season string) ([]quiniela.UserSlip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]quiniela.UserSlip, 0, len(r.slips))
	for _, slip := range r.slips {
		if slip.Season == season {
			out = append(out, slip)
		}
	}
	sortSlips(out)

	return out, nil
}

func (r *QuinielaSlipRepository) ListAll(_ context.Context) ([]quiniela.UserSlip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]quiniela.UserSlip, 0, len(r.slips))
	for _, slip := range r.slips {
		out = append(out, slip)
	}
	sortSlips(out)

	return out, nil
}

func (r *QuinielaSlipRepository) Update(_ context.Context, slip quiniela.UserSlip) error {
	if err := slip.ValidateBasic(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.slips[slip.ID]; !exists {
		return fmt.Errorf("slip id=%s not found", slip.ID)
	}
	slip.UpdatedAt = time.Now().UTC()
	r.slips[slip.ID] = slip

	return nil
}

func sortSlips(slips []quiniela.UserSlip) {
	sort.Slice(slips, func(i, j int) bool {
		if slips[i].Season != slips[j].Season {
			return slips[i].Season < slips[j].Season
		}
		if slips[i].Round != slips[j].Round {
			return slips[i].Round < slips[j].Round
		}
		if !slips[i].CreatedAt.Equal(slips[j].CreatedAt) {
			return slips[i].CreatedAt.Before(slips[j].CreatedAt)
		}
		return slips[i].ID < slips[j].ID
	})
}

type QuinielaConfigRepository struct {
	mu      sync.RWMutex
	configs map[string]quiniela.CustomConfig
}

func NewQuinielaConfigRepository() *QuinielaConfigRepository {
	return &QuinielaConfigRepository{configs: make(map[string]quiniela.CustomConfig)}
}

func (r *QuinielaConfigRepository) Upsert(_ context.Context, config quiniela.CustomConfig) error {
	if err := config.ValidateBasic(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if config.CreatedAt.IsZero() {
		if existing, ok := r.configs[config.ID]; ok {
			config.CreatedAt = existing.CreatedAt
		} else {
			config.CreatedAt = time.Now().UTC()
		}
	}
	config.UpdatedAt = time.Now().UTC()
	r.configs[config.ID] = config

	return nil
}

func (r *QuinielaConfigRepository) GetByID(_ context.Context, configID string) (quiniela.CustomConfig, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.configs[configID]
	return config, ok, nil
}

func (r *QuinielaConfigRepository) ListBySeason(_ context.Context, season string) ([]quiniela.CustomConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]quiniela.CustomConfig, 0, len(r.configs))
	for _, config := range r.configs {
		if config.Season == season {
			out = append(out, config)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}
