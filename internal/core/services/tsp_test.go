package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikeepcalm/ad/internal/aco"
	"github.com/ikeepcalm/ad/internal/adapters/driven/storage/memory"
	"github.com/ikeepcalm/ad/internal/core/domain"
)

func smallParams() domain.ACOParams {
	p := domain.ClassicACOParams()
	p.Ants = 5
	p.Iterations = 20
	p.ReportEvery = 5
	return p
}

func TestTSPService_Solve_Rounds(t *testing.T) {
	runs := memory.NewRunStore()
	service := NewTSPService(newTestSettings(t, nil), runs)

	reports := map[int]int{}
	report, err := service.Solve(context.Background(), domain.TSPRequest{
		Vertices: 8,
		Params:   smallParams(),
		Rounds:   2,
		Seed:     11,
	}, func(round int, _ domain.IterationStat) { reports[round]++ })

	require.NoError(t, err)
	assert.Equal(t, int64(11), report.Seed)
	assert.Len(t, report.Distance, 8)
	require.Len(t, report.Rounds, 2)
	assert.Equal(t, 20, report.Rounds[0].Params.Iterations)
	assert.Equal(t, 30, report.Rounds[1].Params.Iterations)
	assert.Equal(t, 7, report.Rounds[1].Params.ReportEvery)

	g := &aco.Graph{Distance: report.Distance}
	for _, r := range report.Rounds {
		assert.True(t, g.ValidTour(r.Result.Tour))
		assert.Positive(t, r.Result.Length)
	}
	assert.Positive(t, reports[1])
	assert.Positive(t, reports[2])

	history := recordedRuns(t, runs)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RunKindTSP, history[0].Kind)
}

func TestTSPService_Solve_DefaultsFromSettings(t *testing.T) {
	settings := newTestSettings(t, map[string]string{
		"aco.vertices":   "6",
		"aco.ants":       "4",
		"aco.iterations": "10",
	})
	service := NewTSPService(settings, nil)

	report, err := service.Solve(context.Background(), domain.TSPRequest{Seed: 3}, nil)

	require.NoError(t, err)
	assert.Equal(t, 6, report.Vertices)
	require.Len(t, report.Rounds, 1)
	assert.Equal(t, 4, report.Rounds[0].Params.Ants)
	assert.Len(t, report.Rounds[0].Result.Tour, 6)
}

func TestTSPService_Solve_TwoCriteria(t *testing.T) {
	service := NewTSPService(newTestSettings(t, nil), nil)
	p := domain.ElitistACOParams()
	p.Ants = 5
	p.Iterations = 10

	report, err := service.Solve(context.Background(), domain.TSPRequest{
		Vertices:    7,
		TwoCriteria: true,
		Params:      p,
		Seed:        5,
	}, nil)

	require.NoError(t, err)
	require.Len(t, report.Rounds, 1)
	assert.Positive(t, report.Rounds[0].Result.Cost)
}

func TestTSPService_Solve_Invalid(t *testing.T) {
	service := NewTSPService(newTestSettings(t, nil), nil)
	ctx := context.Background()

	_, err := service.Solve(ctx, domain.TSPRequest{Vertices: 1}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bad := smallParams()
	bad.Rho = 2
	_, err = service.Solve(ctx, domain.TSPRequest{Vertices: 5, Params: bad}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func tinyGrid() domain.ParamGrid {
	return domain.ParamGrid{
		Ants:       []int{3, 5},
		Iterations: []int{5},
		Alpha:      []float64{1},
		Beta:       []float64{2, 3},
		Rho:        []float64{0.5},
		Q:          []float64{100},
		Elitists:   []int{0, 1},
	}
}

func TestTSPService_Tune(t *testing.T) {
	runs := memory.NewRunStore()
	service := NewTSPService(newTestSettings(t, nil), runs)

	var trials int
	result, err := service.Tune(context.Background(), domain.TuneRequest{
		Cities:    6,
		Grid:      tinyGrid(),
		TimeLimit: 30 * time.Second,
		Workers:   2,
		Seed:      1,
	}, func(domain.Trial) { trials++ })

	require.NoError(t, err)
	assert.Equal(t, 8, result.Evaluated)
	assert.Len(t, result.Trials, 8)
	assert.Equal(t, 8, trials)
	assert.False(t, result.TimedOut)
	assert.Len(t, result.BestTour, 6)

	history := recordedRuns(t, runs)
	require.Len(t, history, 1)
	var summary domain.TuneResult
	require.NoError(t, json.Unmarshal(history[0].Summary, &summary))
	assert.Empty(t, summary.Trials)
	assert.Equal(t, 8, summary.Evaluated)
}

func TestTSPService_Tune_CallerCancelled(t *testing.T) {
	service := NewTSPService(newTestSettings(t, nil), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Tune(ctx, domain.TuneRequest{Cities: 6, Grid: tinyGrid(), Seed: 1}, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestTSPService_Tune_Invalid(t *testing.T) {
	service := NewTSPService(newTestSettings(t, nil), nil)
	ctx := context.Background()

	_, err := service.Tune(ctx, domain.TuneRequest{Cities: 1}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.Tune(ctx, domain.TuneRequest{Cities: 5, TimeLimit: -time.Second}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
