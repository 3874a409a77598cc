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

// clusteringFeatureNames are the per-post features the content clusters are
// built on.
var clusteringFeatureNames = []string{"engagement_rate", "views"}

const (
	clusteringMinK = 2
	clusteringMaxK = 6
	clusteringSeed = 42
)

// ClusteringService trains per-account k-means models over post engagement,
// ranks the k sweep by silhouette score, and serves cluster assignments from
// the persisted best artifact.
type ClusteringService struct {
	posts  ports.PostRepository
	models ports.ModelRepository
	log    zerolog.Logger
}

func NewClusteringService(posts ports.PostRepository, models ports.ModelRepository, log zerolog.Logger) *ClusteringService {
	return &ClusteringService{posts: posts, models: models, log: log}
}

// Train sweeps k over the account's posts and persists the best clustering.
func (s *ClusteringService) Train(ctx context.Context, handle string) (*domain.ModelArtifact, error) {
	posts, err := s.posts.ListByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("train clustering: %w", err)
	}
	if len(posts) < minTrainingSamples {
		return nil, fmt.Errorf("%w: %d posts for %s, need at least %d",
			domain.ErrInsufficientData, len(posts), handle, minTrainingSamples)
	}

	x := postFeatures(posts)
	scaler := modeling.FitScaler(x)
	scaled := scaler.Transform(x)

	var best *modeling.KMeansModel
	var bestResult domain.CandidateResult
	var results []domain.CandidateResult

	for k := clusteringMinK; k <= clusteringMaxK && k < len(scaled); k++ {
		model, labels, err := modeling.FitKMeans(scaled, k, clusteringSeed)
		if err != nil {
			s.log.Warn().Err(err).Int("k", k).Str("handle", handle).Msg("k-means fit skipped")
			continue
		}
		result := domain.CandidateResult{
			Name:       fmt.Sprintf("KMeans(k=%d)", k),
			Silhouette: modeling.Silhouette(scaled, labels),
			Clusters:   k,
		}
		results = append(results, result)

		if best == nil || result.Silhouette > bestResult.Silhouette {
			best, bestResult = model, result
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no clustering converged for %s", domain.ErrInsufficientData, handle)
	}

	artifact := &domain.ModelArtifact{
		AccountID:       posts[0].AccountID,
		Handle:          handle,
		Kind:            domain.ModelClustering,
		BestModel:       bestResult.Name,
		TrainedAt:       time.Now().UTC(),
		FeatureNames:    clusteringFeatureNames,
		Centroids:       best.Centroids,
		Scaler:          &domain.Scaler{Mean: scaler.Mean, Std: scaler.Std},
		Best:            bestResult,
		AllResults:      results,
		TrainingSamples: len(posts),
	}
	if err := s.models.Save(ctx, artifact); err != nil {
		return nil, fmt.Errorf("train clustering: save artifact: %w", err)
	}

	metrics.TrainingsTotal.WithLabelValues(string(domain.ModelClustering)).Inc()
	s.log.Info().
		Str("handle", handle).
		Str("best_model", bestResult.Name).
		Float64("silhouette", bestResult.Silhouette).
		Int("posts", len(posts)).
		Msg("clustering model trained")

	return artifact, nil
}

// Predict assigns raw feature rows to the live model's clusters.
func (s *ClusteringService) Predict(ctx context.Context, handle string, rows [][]float64) (*ports.ClusterPrediction, error) {
	artifact, err := s.models.FindLatest(ctx, handle, domain.ModelClustering)
	if err != nil {
		return nil, err
	}

	model, scaler := restoreClustering(artifact)
	labels := make([]int, len(rows))
	for i, row := range rows {
		if len(row) != len(artifact.FeatureNames) {
			return nil, fmt.Errorf("%w: row %d has %d features, model requires %v",
				domain.ErrValidation, i, len(row), artifact.FeatureNames)
		}
		labels[i] = model.Assign(scaler.TransformRow(row))
	}

	metrics.PredictionsTotal.WithLabelValues(string(domain.ModelClustering)).Inc()
	return &ports.ClusterPrediction{
		Labels:    labels,
		NClusters: len(model.Centroids),
		ModelType: artifact.BestModel,
	}, nil
}

// Clusters groups the account's stored posts by assigned cluster.
func (s *ClusteringService) Clusters(ctx context.Context, handle string) ([]ports.ClusterContent, error) {
	artifact, err := s.models.FindLatest(ctx, handle, domain.ModelClustering)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.ListByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("cluster content: %w", err)
	}

	model, scaler := restoreClustering(artifact)
	grouped := make([][]*domain.Post, len(model.Centroids))
	for _, p := range posts {
		label := model.Assign(scaler.TransformRow([]float64{p.Engagement(), float64(p.Views)}))
		grouped[label] = append(grouped[label], p)
	}

	out := make([]ports.ClusterContent, 0, len(grouped))
	for cluster, members := range grouped {
		if len(members) == 0 {
			continue
		}
		out = append(out, ports.ClusterContent{Cluster: cluster, Posts: members})
	}
	return out, nil
}

// ModelInfo returns the live artifact with its training report.
func (s *ClusteringService) ModelInfo(ctx context.Context, handle string) (*domain.ModelArtifact, error) {
	return s.models.FindLatest(ctx, handle, domain.ModelClustering)
}

// History returns every training run, newest first.
func (s *ClusteringService) History(ctx context.Context, handle string) ([]*domain.ModelArtifact, error) {
	return s.models.ListByHandle(ctx, handle, domain.ModelClustering)
}

// Delete removes the account's clustering artifacts.
func (s *ClusteringService) Delete(ctx context.Context, handle string) error {
	n, err := s.models.DeleteByHandle(ctx, handle, domain.ModelClustering)
	if err != nil {
		return fmt.Errorf("delete clustering model: %w", err)
	}
	if n == 0 {
		return domain.ErrModelNotFound
	}
	s.log.Info().Str("handle", handle).Int64("deleted", n).Msg("clustering artifacts deleted")
	return nil
}

func postFeatures(posts []*domain.Post) [][]float64 {
	x := make([][]float64, len(posts))
	for i, p := range posts {
		x[i] = []float64{p.Engagement(), float64(p.Views)}
	}
	return x
}

func restoreClustering(artifact *domain.ModelArtifact) (*modeling.KMeansModel, *modeling.Scaler) {
	model := &modeling.KMeansModel{Centroids: artifact.Centroids}
	scaler := &modeling.Scaler{Mean: artifact.Scaler.Mean, Std: artifact.Scaler.Std}
	return model, scaler
}
