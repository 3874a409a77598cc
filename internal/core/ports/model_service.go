package ports

import (
	"context"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

// TrainRegressionInput carries the tunables of a regression training run.
type TrainRegressionInput struct {
	Handle      string
	Target      string  // defaults to "followers"
	TestSize    float64 // defaults to 0.2
	RandomState *int64  // nil defaults to 42; zero is a valid seed
}

// PredictionResult is a single regression prediction.
type PredictionResult struct {
	Prediction float64
	ModelType  string
	Target     string
}

// BatchPredictionResult is a multi-row regression prediction.
type BatchPredictionResult struct {
	Predictions []float64
	ModelType   string
	Target      string
}

// RegressionService trains and serves per-account regression models.
type RegressionService interface {
	Train(ctx context.Context, input TrainRegressionInput) (*domain.ModelArtifact, error)
	Predict(ctx context.Context, handle string, features map[string]float64) (*PredictionResult, error)
	PredictBatch(ctx context.Context, handle string, rows []map[string]float64) (*BatchPredictionResult, error)
	ModelInfo(ctx context.Context, handle string) (*domain.ModelArtifact, error)
	History(ctx context.Context, handle string) ([]*domain.ModelArtifact, error)
	Delete(ctx context.Context, handle string) error
}

// ClusterPrediction labels a batch of feature rows with cluster assignments.
type ClusterPrediction struct {
	Labels    []int
	NClusters int
	ModelType string
}

// ClusterContent groups an account's stored posts by assigned cluster.
type ClusterContent struct {
	Cluster int            `json:"cluster"`
	Posts   []*domain.Post `json:"posts"`
}

// ClusteringService trains and serves per-account clustering models.
type ClusteringService interface {
	Train(ctx context.Context, handle string) (*domain.ModelArtifact, error)
	Predict(ctx context.Context, handle string, rows [][]float64) (*ClusterPrediction, error)
	Clusters(ctx context.Context, handle string) ([]ClusterContent, error)
	ModelInfo(ctx context.Context, handle string) (*domain.ModelArtifact, error)
	History(ctx context.Context, handle string) ([]*domain.ModelArtifact, error)
	Delete(ctx context.Context, handle string) error
}
