package domain

import "time"

// ModelKind distinguishes the two trained-model families.
type ModelKind string

const (
	ModelRegression ModelKind = "regression"
	ModelClustering ModelKind = "clustering"
)

// CandidateResult is the evaluation of one fitted candidate during training.
type CandidateResult struct {
	Name       string  `json:"name" bson:"name"`
	R2         float64 `json:"r2_score" bson:"r2_score"`
	RMSE       float64 `json:"rmse" bson:"rmse"`
	MAE        float64 `json:"mae" bson:"mae"`
	Silhouette float64 `json:"silhouette,omitempty" bson:"silhouette,omitempty"`
	Clusters   int     `json:"clusters,omitempty" bson:"clusters,omitempty"`
}

// Scaler holds per-feature standardization parameters fitted at training time.
type Scaler struct {
	Mean []float64 `json:"mean" bson:"mean"`
	Std  []float64 `json:"std" bson:"std"`
}

// ModelArtifact is one trained model for an (account, kind) pair. Retraining
// supersedes the artifact wholesale; deleting it never touches the account.
type ModelArtifact struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	AccountID string    `json:"account_id" bson:"account_id"`
	Handle    string    `json:"handle" bson:"handle"`
	Kind      ModelKind `json:"kind" bson:"kind"`
	BestModel string    `json:"best_model" bson:"best_model"`
	TrainedAt time.Time `json:"trained_at" bson:"trained_at"`

	// Regression payload.
	Target       string    `json:"target,omitempty" bson:"target,omitempty"`
	FeatureNames []string  `json:"feature_names,omitempty" bson:"feature_names,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty" bson:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty" bson:"intercept,omitempty"`

	// Clustering payload.
	Centroids [][]float64 `json:"centroids,omitempty" bson:"centroids,omitempty"`
	Scaler    *Scaler     `json:"scaler,omitempty" bson:"scaler,omitempty"`

	// Training report.
	Best            CandidateResult   `json:"best" bson:"best"`
	AllResults      []CandidateResult `json:"all_results" bson:"all_results"`
	TrainingSamples int               `json:"training_samples" bson:"training_samples"`
	TestSamples     int               `json:"test_samples" bson:"test_samples"`
}
