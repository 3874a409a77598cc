package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/socialpulse/analytics-api/internal/core/domain"
)

// seedBlobPosts creates two clearly separated content groups: low-reach posts
// with weak engagement and viral posts with strong engagement.
func seedBlobPosts(repo *stubPostRepo, handle string) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		repo.posts = append(repo.posts, &domain.Post{
			AccountID:      "a1",
			Handle:         handle,
			PublishedAt:    at.Add(time.Duration(i) * time.Hour),
			Content:        fmt.Sprintf("routine update %d", i),
			Likes:          int64(10 + i),
			Retweets:       2,
			Views:          int64(1000 + 10*i),
			EngagementRate: 0.01 + 0.001*float64(i),
		})
	}
	for i := 0; i < 10; i++ {
		repo.posts = append(repo.posts, &domain.Post{
			AccountID:      "a1",
			Handle:         handle,
			PublishedAt:    at.Add(time.Duration(100+i) * time.Hour),
			Content:        fmt.Sprintf("campaign launch %d", i),
			Likes:          int64(5000 + 100*i),
			Retweets:       800,
			Views:          int64(200000 + 1000*i),
			EngagementRate: 0.20 + 0.002*float64(i),
		})
	}
}

func newTestClusteringService() (*ClusteringService, *stubPostRepo, *stubModelRepo) {
	posts := &stubPostRepo{}
	models := &stubModelRepo{}
	return NewClusteringService(posts, models, zerolog.Nop()), posts, models
}

func TestClusteringService_TrainPicksTwoClusters(t *testing.T) {
	svc, posts, models := newTestClusteringService()
	seedBlobPosts(posts, "Interbank")

	artifact, err := svc.Train(context.Background(), "Interbank")
	if err != nil {
		t.Fatalf("train failed: %v", err)
	}
	if artifact.Kind != domain.ModelClustering {
		t.Fatalf("kind = %s", artifact.Kind)
	}
	if artifact.Best.Clusters != 2 {
		t.Fatalf("best k = %d, want 2 for two separated blobs", artifact.Best.Clusters)
	}
	if artifact.Best.Silhouette < 0.8 {
		t.Fatalf("best silhouette = %v", artifact.Best.Silhouette)
	}
	if artifact.Scaler == nil || len(artifact.Centroids) != 2 {
		t.Fatalf("artifact payload incomplete: %+v", artifact)
	}
	if len(models.artifacts) != 1 {
		t.Fatalf("artifact not persisted")
	}
}

func TestClusteringService_PredictSeparatesRows(t *testing.T) {
	svc, posts, _ := newTestClusteringService()
	seedBlobPosts(posts, "Interbank")
	if _, err := svc.Train(context.Background(), "Interbank"); err != nil {
		t.Fatalf("train failed: %v", err)
	}

	res, err := svc.Predict(context.Background(), "Interbank", [][]float64{
		{0.01, 1000},   // routine post
		{0.21, 205000}, // viral post
		{0.012, 1050},  // routine post
	})
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	if res.NClusters != 2 {
		t.Fatalf("n_clusters = %d", res.NClusters)
	}
	if res.Labels[0] != res.Labels[2] {
		t.Fatalf("similar rows got different clusters: %v", res.Labels)
	}
	if res.Labels[0] == res.Labels[1] {
		t.Fatalf("distinct rows got the same cluster: %v", res.Labels)
	}
}

func TestClusteringService_PredictWrongWidth(t *testing.T) {
	svc, posts, _ := newTestClusteringService()
	seedBlobPosts(posts, "Interbank")
	if _, err := svc.Train(context.Background(), "Interbank"); err != nil {
		t.Fatalf("train failed: %v", err)
	}

	if _, err := svc.Predict(context.Background(), "Interbank", [][]float64{{0.01}}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestClusteringService_ClustersGroupContent(t *testing.T) {
	svc, posts, _ := newTestClusteringService()
	seedBlobPosts(posts, "Interbank")
	if _, err := svc.Train(context.Background(), "Interbank"); err != nil {
		t.Fatalf("train failed: %v", err)
	}

	groups, err := svc.Clusters(context.Background(), "Interbank")
	if err != nil {
		t.Fatalf("clusters failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 content groups, got %d", len(groups))
	}
	total := 0
	for _, g := range groups {
		total += len(g.Posts)
		if len(g.Posts) != 10 {
			t.Fatalf("cluster %d has %d posts, want 10", g.Cluster, len(g.Posts))
		}
	}
	if total != 20 {
		t.Fatalf("grouped %d posts, want all 20", total)
	}
}

func TestClusteringService_TrainInsufficientData(t *testing.T) {
	svc, posts, _ := newTestClusteringService()
	posts.posts = append(posts.posts, &domain.Post{Handle: "Interbank", Views: 100, EngagementRate: 0.1})

	if _, err := svc.Train(context.Background(), "Interbank"); !errors.Is(err, domain.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestClusteringService_ModelNotFound(t *testing.T) {
	svc, _, _ := newTestClusteringService()

	if _, err := svc.Clusters(context.Background(), "Interbank"); !errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "Interbank"); !errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound on delete, got %v", err)
	}
}
