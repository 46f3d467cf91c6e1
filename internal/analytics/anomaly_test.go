package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revpulse/pkg/contracts/domain"
)

// weeklySeries builds n consecutive weekly points from the given revenues.
func weeklySeries(revenues ...float64) []domain.WeeklyPoint {
	base := time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC)
	points := make([]domain.WeeklyPoint, len(revenues))
	for i, revenue := range revenues {
		points[i] = domain.WeeklyPoint{WeekStart: base.AddDate(0, 0, 7*i), Revenue: revenue}
	}
	return points
}

// backgroundWeeks builds count weeks of revenue near 1000 with a small
// deterministic spread.
func backgroundWeeks(count int) []float64 {
	revenues := make([]float64, count)
	for i := range revenues {
		revenues[i] = 1000 + float64(i%10)*7
	}
	return revenues
}

func TestDetectAnomaliesRejectsBadContamination(t *testing.T) {
	weekly := weeklySeries(backgroundWeeks(10)...)

	for _, contamination := range []float64{0, -0.1, 0.5, 1} {
		_, err := DetectAnomalies(weekly, contamination)
		require.Error(t, err, "contamination %g", contamination)
	}
}

func TestDetectAnomaliesDegenerateInput(t *testing.T) {
	tests := []struct {
		name   string
		weekly []domain.WeeklyPoint
	}{
		{"nil series", nil},
		{"single week", weeklySeries(1000)},
		{"all revenues identical", weeklySeries(500, 500, 500, 500, 500, 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anomalies, err := DetectAnomalies(tt.weekly, 0.1)
			require.NoError(t, err)
			assert.Empty(t, anomalies)
		})
	}
}

func TestDetectAnomaliesFlagsExtremeSpike(t *testing.T) {
	revenues := append(backgroundWeeks(60), 1_000_000)
	weekly := weeklySeries(revenues...)

	anomalies, err := DetectAnomalies(weekly, 0.01)
	require.NoError(t, err)

	require.NotEmpty(t, anomalies)
	found := false
	for _, a := range anomalies {
		if a.Revenue == 1_000_000 {
			found = true
			assert.Negative(t, a.Score)
		}
	}
	assert.True(t, found, "the spike week must be flagged at contamination 0.01")
}

func TestDetectAnomaliesReproducible(t *testing.T) {
	weekly := weeklySeries(append(backgroundWeeks(40), 50_000)...)

	first, err := DetectAnomalies(weekly, 0.05)
	require.NoError(t, err)
	second, err := DetectAnomalies(weekly, 0.05)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDetectAnomaliesFractionTracksContamination(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	revenues := make([]float64, 100)
	for i := range revenues {
		revenues[i] = 1000 + rng.Float64()*500
	}
	weekly := weeklySeries(revenues...)

	var prev int
	for _, contamination := range []float64{0.02, 0.05, 0.1, 0.2, 0.3} {
		anomalies, err := DetectAnomalies(weekly, contamination)
		require.NoError(t, err)

		// Flagged count approximates contamination*n and never shrinks as
		// contamination grows.
		expected := contamination * float64(len(weekly))
		assert.LessOrEqual(t, len(anomalies), int(expected)+3, "contamination %g", contamination)
		assert.GreaterOrEqual(t, len(anomalies), prev, "contamination %g", contamination)
		prev = len(anomalies)
	}
	assert.Positive(t, prev)
}

func TestForestScoresRankExtremity(t *testing.T) {
	values := append(backgroundWeeks(50), 100_000)
	forest := fitForest(values, rand.New(rand.NewSource(forestSeed)))

	spikeScore := forest.score(100_000)
	midScore := forest.score(1000)

	assert.Greater(t, spikeScore, midScore,
		"an extreme value isolates in fewer partitions and must score higher")
}

func TestPercentileLinearInterpolation(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 1.0, percentile(values, 0))
	assert.Equal(t, 5.0, percentile(values, 100))
	assert.Equal(t, 3.0, percentile(values, 50))
	assert.InDelta(t, 1.4, percentile(values, 10), 1e-9)
	assert.Equal(t, 7.0, percentile([]float64{7}, 30))
}

func TestAveragePathLength(t *testing.T) {
	assert.Equal(t, 0.0, averagePathLength(0))
	assert.Equal(t, 0.0, averagePathLength(1))
	assert.Equal(t, 1.0, averagePathLength(2))
	assert.Greater(t, averagePathLength(256), averagePathLength(16))
}
