package analytics

import (
	"fmt"
	"math/rand"

	"revpulse/pkg/contracts/domain"
)

// DetectAnomalies scores each weekly revenue point with the isolation
// forest and returns the subset flagged as outliers.
//
// The decision follows the scikit-learn convention: sample scores are the negated
// anomaly scores, the offset is the contamination-quantile of those sample
// scores, and a point is flagged when its sample score falls strictly below
// the offset. The reported Score is the decision value (sample score minus
// offset), so flagged points carry negative scores and more negative means
// more extreme.
//
// Degenerate input is not a fault: fewer than two weekly points, or a
// series whose revenues are all identical, yields an empty list, because
// no point then falls strictly below the offset quantile.
func DetectAnomalies(weekly []domain.WeeklyPoint, contamination float64) ([]domain.AnomalyPoint, error) {
	if contamination <= 0 || contamination >= 0.5 {
		return nil, fmt.Errorf("contamination must be in (0, 0.5), got %g", contamination)
	}
	if len(weekly) < 2 {
		return []domain.AnomalyPoint{}, nil
	}

	values := make([]float64, len(weekly))
	for i, point := range weekly {
		values[i] = point.Revenue
	}

	rng := rand.New(rand.NewSource(forestSeed))
	forest := fitForest(values, rng)

	sampleScores := make([]float64, len(values))
	for i, v := range values {
		sampleScores[i] = -forest.score(v)
	}
	offset := percentile(sampleScores, 100*contamination)

	anomalies := []domain.AnomalyPoint{}
	for i, point := range weekly {
		decision := sampleScores[i] - offset
		if decision < 0 {
			anomalies = append(anomalies, domain.AnomalyPoint{
				WeekStart: point.WeekStart,
				Revenue:   point.Revenue,
				Score:     decision,
			})
		}
	}
	return anomalies, nil
}
