package predict

import (
	"math"
	"testing"
)

func TestFitScaler(t *testing.T) {
	rows := [][]float64{
		{1, 10},
		{3, 10},
	}

	scaler, err := FitScaler(rows)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if scaler.Mean[0] != 2 || scaler.Mean[1] != 10 {
		t.Fatalf("unexpected means: %v", scaler.Mean)
	}
	// Constant columns keep unit std so transforms stay finite.
	if scaler.Std[1] != 1 {
		t.Fatalf("constant column must fall back to std 1, got %.4f", scaler.Std[1])
	}

	scaled := scaler.Transform([]float64{3, 10})
	if math.Abs(scaled[0]-1) > 1e-9 || scaled[1] != 0 {
		t.Fatalf("unexpected transform: %v", scaled)
	}
}

func TestFitScalerRejectsEmptyAndRagged(t *testing.T) {
	if _, err := FitScaler(nil); err == nil {
		t.Fatalf("expected error for empty dataset")
	}
	if _, err := FitScaler([][]float64{{1, 2}, {1}}); err == nil {
		t.Fatalf("expected error for ragged rows")
	}
}

func TestTrainSoftmaxSeparable(t *testing.T) {
	var rows [][]float64
	var labels []int
	for i := 0; i < 60; i++ {
		switch i % 3 {
		case 0:
			rows = append(rows, []float64{2, 0})
			labels = append(labels, ClassHome)
		case 1:
			rows = append(rows, []float64{0, 0})
			labels = append(labels, ClassDraw)
		default:
			rows = append(rows, []float64{-2, 0})
			labels = append(labels, ClassAway)
		}
	}

	model, err := TrainSoftmax(rows, labels)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := model.Predict([]float64{2, 0}); got != ClassHome {
		t.Fatalf("expected home class, got %d", got)
	}
	if got := model.Predict([]float64{-2, 0}); got != ClassAway {
		t.Fatalf("expected away class, got %d", got)
	}

	probs := model.Probabilities([]float64{2, 0})
	sum := probs[ClassHome] + probs[ClassDraw] + probs[ClassAway]
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("probabilities must sum to 1, got %.9f", sum)
	}
	for _, p := range probs {
		if p < probFloor-1e-9 {
			t.Fatalf("probability below floor: %.4f", p)
		}
	}
}

func TestTrainSoftmaxRejectsMismatchedLabels(t *testing.T) {
	if _, err := TrainSoftmax([][]float64{{1}}, nil); err == nil {
		t.Fatalf("expected error for mismatched labels")
	}
}

func TestFeatureImportance(t *testing.T) {
	model := &SoftmaxModel{Weights: [][]float64{
		{0.1, 1.0, -0.5},
		{0.2, -1.0, 0.5},
		{0.3, 0.5, 0.5},
	}}

	importance := model.FeatureImportance([]string{"a", "b"})
	if math.Abs(importance["a"]-2.5/3) > 1e-9 {
		t.Fatalf("importance a: expected %.4f, got %.4f", 2.5/3, importance["a"])
	}
	if math.Abs(importance["b"]-1.5/3) > 1e-9 {
		t.Fatalf("importance b: expected %.4f, got %.4f", 1.5/3, importance["b"])
	}
}
