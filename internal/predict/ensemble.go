package predict

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/quinielabs/quiniela-assistant/internal/domain/match"
	"github.com/quinielabs/quiniela-assistant/internal/domain/prediction"
)

// MinTrainingMatches gates the ensemble tier: below this many finished
// matches the model refuses to train and the selector falls through to the
// heuristic tier.
const MinTrainingMatches = 100

const holdoutEvery = 5

// TrainingSample pairs a pre-kickoff matchup snapshot with the final
// official outcome.
type TrainingSample struct {
	Matchup Matchup
	Result  match.Result
}

// EnsembleModel is the persisted trained state: a softmax classifier and a
// Poisson goals model blended by soft voting.
type EnsembleModel struct {
	Version       string        `json:"version"`
	TrainedAt     time.Time     `json:"trained_at"`
	FeatureNames  []string      `json:"feature_names"`
	Scaler        *Scaler       `json:"scaler"`
	Softmax       *SoftmaxModel `json:"softmax"`
	Poisson       *PoissonModel `json:"poisson"`
	SoftmaxWeight float64       `json:"softmax_weight"`
	PoissonWeight float64       `json:"poisson_weight"`
}

// TrainReport summarises one training run for the performance ledger.
type TrainReport struct {
	Version           string
	SampleCount       int
	TrainCount        int
	HoldoutCount      int
	HoldoutAccuracy   float64
	ClassPrecision    map[string]float64
	ClassRecall       map[string]float64
	FeatureImportance map[string]float64
}

// TrainEnsemble fits both members on finished matches and evaluates the
// blend on a deterministic holdout split.
func TrainEnsemble(samples []TrainingSample, now time.Time) (*EnsembleModel, TrainReport, error) {
	if len(samples) < MinTrainingMatches {
		return nil, TrainReport{}, fmt.Errorf("train ensemble: need at least %d finished matches, got %d", MinTrainingMatches, len(samples))
	}

	var trainRows, holdoutRows [][]float64
	var trainLabels, holdoutLabels []int
	var holdoutSamples []TrainingSample

	for i, s := range samples {
		label, ok := classForResult(s.Result)
		if !ok {
			return nil, TrainReport{}, fmt.Errorf("train ensemble: sample %d has no resolved result", i)
		}
		row := FeatureVector(ExtractFeatures(s.Matchup))
		if (i+1)%holdoutEvery == 0 {
			holdoutRows = append(holdoutRows, row)
			holdoutLabels = append(holdoutLabels, label)
			holdoutSamples = append(holdoutSamples, s)
		} else {
			trainRows = append(trainRows, row)
			trainLabels = append(trainLabels, label)
		}
	}

	scaler, err := FitScaler(trainRows)
	if err != nil {
		return nil, TrainReport{}, err
	}

	softmaxModel, err := TrainSoftmax(scaler.TransformAll(trainRows), trainLabels)
	if err != nil {
		return nil, TrainReport{}, err
	}

	model := &EnsembleModel{
		Version:       "v" + now.UTC().Format("20060102150405"),
		TrainedAt:     now.UTC(),
		FeatureNames:  append([]string(nil), FeatureNames...),
		Scaler:        scaler,
		Softmax:       softmaxModel,
		Poisson:       NewPoissonModel(),
		SoftmaxWeight: 0.5,
		PoissonWeight: 0.5,
	}

	report := evaluate(model, holdoutRows, holdoutLabels, holdoutSamples)
	report.Version = model.Version
	report.SampleCount = len(samples)
	report.TrainCount = len(trainRows)
	report.HoldoutCount = len(holdoutRows)
	report.FeatureImportance = softmaxModel.FeatureImportance(FeatureNames)

	return model, report, nil
}

func evaluate(model *EnsembleModel, rows [][]float64, labels []int, samples []TrainingSample) TrainReport {
	classNames := map[int]string{ClassHome: "1", ClassDraw: "X", ClassAway: "2"}
	correctByClass := make(map[int]int)
	predictedByClass := make(map[int]int)
	actualByClass := make(map[int]int)
	correct := 0

	for i, row := range rows {
		probs := model.blend(row, samples[i].Matchup)
		predicted := argmax(probs)

		predictedByClass[predicted]++
		actualByClass[labels[i]]++
		if predicted == labels[i] {
			correct++
			correctByClass[predicted]++
		}
	}

	report := TrainReport{
		ClassPrecision: make(map[string]float64, NumClass),
		ClassRecall:    make(map[string]float64, NumClass),
	}
	if len(rows) > 0 {
		report.HoldoutAccuracy = float64(correct) / float64(len(rows))
	}
	for c := 0; c < NumClass; c++ {
		name := classNames[c]
		if predictedByClass[c] > 0 {
			report.ClassPrecision[name] = float64(correctByClass[c]) / float64(predictedByClass[c])
		}
		if actualByClass[c] > 0 {
			report.ClassRecall[name] = float64(correctByClass[c]) / float64(actualByClass[c])
		}
	}

	return report
}

func (m *EnsembleModel) blend(scaledRow []float64, matchup Matchup) [NumClass]float64 {
	softmaxProbs := m.Softmax.Probabilities(scaledRow)
	poissonProbs := m.Poisson.Probabilities(matchup)

	var out [NumClass]float64
	total := 0.0
	for c := 0; c < NumClass; c++ {
		out[c] = m.SoftmaxWeight*softmaxProbs[c] + m.PoissonWeight*poissonProbs[c]
		total += out[c]
	}
	for c := range out {
		out[c] /= total
	}
	return out
}

func classForResult(r match.Result) (int, bool) {
	switch r {
	case match.ResultHome:
		return ClassHome, true
	case match.ResultDraw:
		return ClassDraw, true
	case match.ResultAway:
		return ClassAway, true
	default:
		return 0, false
	}
}

func argmax(probs [NumClass]float64) int {
	best := 0
	for c := 1; c < NumClass; c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return best
}

// EnsemblePredictor serves the trained blend. It is safe for concurrent
// use; Swap installs a freshly trained model without a restart.
type EnsemblePredictor struct {
	mu    sync.RWMutex
	model *EnsembleModel
}

func NewEnsemblePredictor(model *EnsembleModel) *EnsemblePredictor {
	return &EnsemblePredictor{model: model}
}

func (p *EnsemblePredictor) Swap(model *EnsembleModel) {
	p.mu.Lock()
	p.model = model
	p.mu.Unlock()
}

func (p *EnsemblePredictor) Model() *EnsembleModel {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model
}

func (p *EnsemblePredictor) Ready(context.Context) bool {
	return p.Model() != nil
}

func (p *EnsemblePredictor) Predict(_ context.Context, m Matchup) (Outcome, error) {
	model := p.Model()
	if model == nil {
		return Outcome{}, fmt.Errorf("ensemble predictor: no trained model loaded")
	}

	row := model.Scaler.Transform(FeatureVector(ExtractFeatures(m)))
	probs := model.blend(row, m)
	result, confidence := pickResult(probs[ClassHome], probs[ClassDraw], probs[ClassAway])

	return Outcome{
		HomeProb:      probs[ClassHome],
		DrawProb:      probs[ClassDraw],
		AwayProb:      probs[ClassAway],
		Result:        result,
		Confidence:    confidence,
		Explanation:   explainEnsemble(model, row),
		Tier:          prediction.TierEnsemble,
		ModelVersion:  model.Version,
		ExpectedGoals: EstimateExpectedGoals(m),
	}, nil
}

func explainEnsemble(model *EnsembleModel, scaledRow []float64) string {
	type signal struct {
		name   string
		weight float64
	}

	importance := model.Softmax.FeatureImportance(model.FeatureNames)
	signals := make([]signal, 0, len(importance))
	for name, w := range importance {
		signals = append(signals, signal{name: name, weight: w})
	}
	sort.Slice(signals, func(i, j int) bool {
		if signals[i].weight != signals[j].weight {
			return signals[i].weight > signals[j].weight
		}
		return signals[i].name < signals[j].name
	})

	top := make([]string, 0, 3)
	for i := 0; i < len(signals) && i < 3; i++ {
		top = append(top, signals[i].name)
	}

	return fmt.Sprintf("Trained model %s, strongest signals: %s.", model.Version, strings.Join(top, ", "))
}
