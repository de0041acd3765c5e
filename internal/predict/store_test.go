package predict

import (
	"testing"
	"time"
)

func TestModelStoreRoundtrip(t *testing.T) {
	store := NewModelStore(t.TempDir())

	model, _, err := TrainEnsemble(syntheticSamples(120), time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := store.Save(model); err != nil {
		t.Fatalf("save: expected no error, got %v", err)
	}

	loaded, err := store.Load(model.Version)
	if err != nil {
		t.Fatalf("load: expected no error, got %v", err)
	}
	if loaded.Version != model.Version {
		t.Fatalf("expected version %s, got %s", model.Version, loaded.Version)
	}
	if len(loaded.FeatureNames) != len(FeatureNames) {
		t.Fatalf("expected %d feature names, got %d", len(FeatureNames), len(loaded.FeatureNames))
	}
	if loaded.Scaler == nil || loaded.Softmax == nil || loaded.Poisson == nil {
		t.Fatalf("loaded model must carry scaler and both members")
	}
}

func TestModelStoreVersionsAreImmutable(t *testing.T) {
	store := NewModelStore(t.TempDir())

	model, _, err := TrainEnsemble(syntheticSamples(120), time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := store.Save(model); err != nil {
		t.Fatalf("first save: expected no error, got %v", err)
	}
	if err := store.Save(model); err == nil {
		t.Fatalf("second save of same version must fail")
	}
}

func TestModelStoreLoadLatest(t *testing.T) {
	store := NewModelStore(t.TempDir())

	older, _, err := TrainEnsemble(syntheticSamples(120), time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	newer, _, err := TrainEnsemble(syntheticSamples(120), time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := store.Save(older); err != nil {
		t.Fatalf("save older: %v", err)
	}
	if err := store.Save(newer); err != nil {
		t.Fatalf("save newer: %v", err)
	}

	latest, err := store.LoadLatest()
	if err != nil {
		t.Fatalf("load latest: expected no error, got %v", err)
	}
	if latest.Version != newer.Version {
		t.Fatalf("expected latest %s, got %s", newer.Version, latest.Version)
	}
}

func TestModelStoreLoadLatestEmpty(t *testing.T) {
	store := NewModelStore(t.TempDir() + "/missing")

	latest, err := store.LoadLatest()
	if err != nil {
		t.Fatalf("expected no error for empty store, got %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil model for empty store")
	}
}
