package modelperf

import "time"

// Snapshot records how one trained model version performed at training time.
type Snapshot struct {
	ID                string
	ModelVersion      string
	TrainedAt         time.Time
	SampleCount       int
	HoldoutAccuracy   float64
	ClassPrecision    map[string]float64
	ClassRecall       map[string]float64
	FeatureImportance map[string]float64
}
