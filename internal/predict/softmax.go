package predict

import (
	"fmt"
	"math"
)

// Class indices for model outputs, fixed across training and inference.
const (
	ClassHome = 0
	ClassDraw = 1
	ClassAway = 2
	NumClass  = 3
)

const (
	softmaxIters = 400
	softmaxLR    = 0.15
	probFloor    = 0.02
)

// SoftmaxModel is a multinomial logistic classifier over standardized
// features, trained by batch gradient descent on cross-entropy loss.
type SoftmaxModel struct {
	// Weights[c] holds the class-c weight vector; index 0 is the bias.
	Weights [][]float64 `json:"weights"`
}

// TrainSoftmax fits the classifier. Labels are class indices.
func TrainSoftmax(rows [][]float64, labels []int) (*SoftmaxModel, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("train softmax: empty dataset")
	}
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("train softmax: %d rows vs %d labels", len(rows), len(labels))
	}

	dim := len(rows[0]) + 1
	weights := make([][]float64, NumClass)
	for c := range weights {
		weights[c] = make([]float64, dim)
	}

	n := float64(len(rows))
	for iter := 0; iter < softmaxIters; iter++ {
		for i, row := range rows {
			x := withBias(row)
			probs := softmax(scores(weights, x))
			for c := 0; c < NumClass; c++ {
				target := 0.0
				if labels[i] == c {
					target = 1.0
				}
				grad := probs[c] - target
				for k := range x {
					weights[c][k] -= softmaxLR * grad * x[k] / n
				}
			}
		}
	}

	return &SoftmaxModel{Weights: weights}, nil
}

// Probabilities returns class probabilities for one standardized row,
// floored away from zero and renormalized.
func (m *SoftmaxModel) Probabilities(row []float64) [NumClass]float64 {
	probs := softmax(scores(m.Weights, withBias(row)))

	var out [NumClass]float64
	total := 0.0
	for c := 0; c < NumClass; c++ {
		p := probs[c]
		if p < probFloor {
			p = probFloor
		}
		out[c] = p
		total += p
	}
	for c := range out {
		out[c] /= total
	}
	return out
}

// Predict returns the most probable class.
func (m *SoftmaxModel) Predict(row []float64) int {
	probs := m.Probabilities(row)
	best := 0
	for c := 1; c < NumClass; c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return best
}

// FeatureImportance reports mean absolute weight per feature across
// classes, excluding the bias term.
func (m *SoftmaxModel) FeatureImportance(names []string) map[string]float64 {
	importance := make(map[string]float64, len(names))
	for i, name := range names {
		sum := 0.0
		for c := 0; c < NumClass; c++ {
			if i+1 < len(m.Weights[c]) {
				sum += math.Abs(m.Weights[c][i+1])
			}
		}
		importance[name] = sum / NumClass
	}
	return importance
}

func withBias(row []float64) []float64 {
	x := make([]float64, 0, len(row)+1)
	x = append(x, 1.0)
	return append(x, row...)
}

func scores(weights [][]float64, x []float64) [NumClass]float64 {
	var z [NumClass]float64
	for c := 0; c < NumClass; c++ {
		z[c] = dot(weights[c], x)
	}
	return z
}

func softmax(z [NumClass]float64) [NumClass]float64 {
	max := z[0]
	for _, v := range z[1:] {
		if v > max {
			max = v
		}
	}

	var out [NumClass]float64
	sum := 0.0
	for c, v := range z {
		out[c] = math.Exp(v - max)
		sum += out[c]
	}
	for c := range out {
		out[c] /= sum
	}
	return out
}

func dot(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		total += a[i] * b[i]
	}
	return total
}
