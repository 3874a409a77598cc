package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/socialpulse/analytics-api/internal/api/metrics"
	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/modeling"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

const (
	defaultTarget      = "followers"
	defaultTestSize    = 0.2
	defaultRandomState = 42
	minTrainingSamples = 10
)

// regressionFeatureNames are the temporal features derived from each metric
// snapshot's capture time. Weekday is 0=Monday..6=Sunday.
var regressionFeatureNames = []string{"weekday", "hour", "month"}

type regressionCandidate struct {
	name   string
	lambda float64
}

var regressionCandidates = []regressionCandidate{
	{name: "LinearRegression", lambda: 0},
	{name: "Ridge(alpha=1)", lambda: 1},
	{name: "Ridge(alpha=10)", lambda: 10},
}

// RegressionService trains per-account regression models over scraped metric
// snapshots, ranks candidates by test R², and serves predictions from the
// persisted best artifact.
type RegressionService struct {
	metricRepo ports.MetricRepository
	models     ports.ModelRepository
	log        zerolog.Logger
}

func NewRegressionService(metricRepo ports.MetricRepository, models ports.ModelRepository, log zerolog.Logger) *RegressionService {
	return &RegressionService{metricRepo: metricRepo, models: models, log: log}
}

// Train fits every candidate on a train/test split of the account's snapshots
// and persists the best one, superseding any previous artifact wholesale.
func (s *RegressionService) Train(ctx context.Context, in ports.TrainRegressionInput) (*domain.ModelArtifact, error) {
	if in.Target == "" {
		in.Target = defaultTarget
	}
	if in.TestSize <= 0 || in.TestSize >= 1 {
		in.TestSize = defaultTestSize
	}
	// nil means "not requested"; an explicit zero is a legitimate seed.
	seed := int64(defaultRandomState)
	if in.RandomState != nil {
		seed = *in.RandomState
	}

	points, err := s.metricRepo.ListByHandle(ctx, in.Handle, 0)
	if err != nil {
		return nil, fmt.Errorf("train regression: %w", err)
	}
	if len(points) < minTrainingSamples {
		return nil, fmt.Errorf("%w: %d snapshots for %s, need at least %d",
			domain.ErrInsufficientData, len(points), in.Handle, minTrainingSamples)
	}

	x := make([][]float64, len(points))
	y := make([]float64, len(points))
	for i, p := range points {
		x[i] = snapshotFeatures(p)
		v, ok := snapshotTarget(p, in.Target)
		if !ok {
			return nil, fmt.Errorf("%w: unknown target variable %q", domain.ErrValidation, in.Target)
		}
		y[i] = v
	}

	trainIdx, testIdx := modeling.TrainTestSplit(len(x), in.TestSize, seed)
	xTrain, yTrain := subset(x, y, trainIdx)
	xTest, yTest := subset(x, y, testIdx)

	var best *modeling.LinearModel
	var bestResult domain.CandidateResult
	var results []domain.CandidateResult

	for _, cand := range regressionCandidates {
		var model *modeling.LinearModel
		var fitErr error
		if cand.lambda == 0 {
			model, fitErr = modeling.FitLeastSquares(xTrain, yTrain)
		} else {
			model, fitErr = modeling.FitRidge(xTrain, yTrain, cand.lambda)
		}
		if fitErr != nil {
			s.log.Warn().Err(fitErr).Str("candidate", cand.name).Str("handle", in.Handle).Msg("candidate fit skipped")
			continue
		}

		predicted := make([]float64, len(xTest))
		for i, row := range xTest {
			predicted[i] = model.Predict(row)
		}
		result := domain.CandidateResult{
			Name: cand.name,
			R2:   modeling.R2(yTest, predicted),
			RMSE: modeling.RMSE(yTest, predicted),
			MAE:  modeling.MAE(yTest, predicted),
		}
		results = append(results, result)

		if best == nil || result.R2 > bestResult.R2 {
			best, bestResult = model, result
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no candidate converged for %s", domain.ErrInsufficientData, in.Handle)
	}

	artifact := &domain.ModelArtifact{
		AccountID:       points[0].AccountID,
		Handle:          in.Handle,
		Kind:            domain.ModelRegression,
		BestModel:       bestResult.Name,
		TrainedAt:       time.Now().UTC(),
		Target:          in.Target,
		FeatureNames:    regressionFeatureNames,
		Coefficients:    best.Coefficients,
		Intercept:       best.Intercept,
		Best:            bestResult,
		AllResults:      results,
		TrainingSamples: len(trainIdx),
		TestSamples:     len(testIdx),
	}
	if err := s.models.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("train regression: save artifact: %w", err)
	}

	metrics.TrainingsTotal.WithLabelValues(string(domain.ModelRegression)).Inc()
	s.log.Info().
		Str("handle", in.Handle).
		Str("best_model", bestResult.Name).
		Float64("r2", bestResult.R2).
		Int("samples", len(points)).
		Msg("regression model trained")

	return artifact, nil
}

// Predict evaluates the live model on one named-feature row.
func (s *RegressionService) Predict(ctx context.Context, handle string, features map[string]float64) (*ports.PredictionResult, error) {
	artifact, err := s.models.FindLatest(ctx, handle, domain.ModelRegression)
	if err != nil {
		return nil, err
	}

	row, err := featureRow(artifact.FeatureNames, features)
	if err != nil {
		return nil, err
	}

	model := modeling.LinearModel{Intercept: artifact.Intercept, Coefficients: artifact.Coefficients}
	metrics.PredictionsTotal.WithLabelValues(string(domain.ModelRegression)).Inc()

	return &ports.PredictionResult{
		Prediction: model.Predict(row),
		ModelType:  artifact.BestModel,
		Target:     artifact.Target,
	}, nil
}

// PredictBatch evaluates the live model on many named-feature rows.
func (s *RegressionService) PredictBatch(ctx context.Context, handle string, rows []map[string]float64) (*ports.BatchPredictionResult, error) {
	artifact, err := s.models.FindLatest(ctx, handle, domain.ModelRegression)
	if err != nil {
		return nil, err
	}

	model := modeling.LinearModel{Intercept: artifact.Intercept, Coefficients: artifact.Coefficients}
	predictions := make([]float64, len(rows))
	for i, features := range rows {
		row, err := featureRow(artifact.FeatureNames, features)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		predictions[i] = model.Predict(row)
	}

	metrics.PredictionsTotal.WithLabelValues(string(domain.ModelRegression)).Inc()
	return &ports.BatchPredictionResult{
		Predictions: predictions,
		ModelType:   artifact.BestModel,
		Target:      artifact.Target,
	}, nil
}

// ModelInfo returns the live artifact with its training report.
func (s *RegressionService) ModelInfo(ctx context.Context, handle string) (*domain.ModelArtifact, error) {
	return s.models.FindLatest(ctx, handle, domain.ModelRegression)
}

// History returns every training run, newest first.
func (s *RegressionService) History(ctx context.Context, handle string) ([]*domain.ModelArtifact, error) {
	return s.models.ListByHandle(ctx, handle, domain.ModelRegression)
}

// Delete removes the account's regression artifacts.
func (s *RegressionService) Delete(ctx context.Context, handle string) error {
	n, err := s.models.DeleteByHandle(ctx, handle, domain.ModelRegression)
	if err != nil {
		return fmt.Errorf("delete regression model: %w", err)
	}
	if n == 0 {
		return domain.ErrModelNotFound
	}
	s.log.Info().Str("handle", handle).Int64("deleted", n).Msg("regression artifacts deleted")
	return nil
}

func snapshotFeatures(p *domain.MetricPoint) []float64 {
	weekday := (int(p.CapturedAt.Weekday()) + 6) % 7 // Monday = 0
	return []float64{
		float64(weekday),
		float64(p.CapturedAt.Hour()),
		float64(int(p.CapturedAt.Month())),
	}
}

func snapshotTarget(p *domain.MetricPoint, target string) (float64, bool) {
	switch target {
	case "followers":
		return float64(p.Followers), true
	case "posts":
		return float64(p.Posts), true
	case "following":
		return float64(p.Following), true
	case "views":
		return float64(p.Views), true
	}
	return 0, false
}

func featureRow(names []string, features map[string]float64) ([]float64, error) {
	row := make([]float64, len(names))
	for i, name := range names {
		v, ok := features[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing feature %q (model requires %v)", domain.ErrValidation, name, names)
		}
		row[i] = v
	}
	return row, nil
}

func subset(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}
