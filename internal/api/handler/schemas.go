package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// acceptedResponse acknowledges asynchronous ingestion.
type acceptedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	CompanyID   int64  `json:"company_id"`
	Username    string `json:"username"`
}

type registerRequest struct {
	Username  string `json:"username"   validate:"required,min=3"`
	Password  string `json:"password"   validate:"required,min=8"`
	CompanyID int64  `json:"company_id" validate:"required,gt=0"`
	Role      string `json:"role"       validate:"required,oneof=admin user viewer"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type meResponse struct {
	Username  string `json:"username"`
	CompanyID int64  `json:"company_id"`
	Role      string `json:"role"`
}

// --- Accounts / content ---

type accountResponse struct {
	ID           string    `json:"id"`
	Handle       string    `json:"handle"`
	DisplayName  string    `json:"display_name"`
	CompanyID    int64     `json:"company_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

type createPostRequest struct {
	PublishedAt    time.Time `json:"published_at"    validate:"required"`
	Content        string    `json:"content"         validate:"required"`
	Likes          int64     `json:"likes"           validate:"gte=0"`
	Retweets       int64     `json:"retweets"        validate:"gte=0"`
	Views          int64     `json:"views"           validate:"gte=0"`
	EngagementRate float64   `json:"engagement_rate" validate:"gte=0"`
}

// --- Ingestion ---

type metricSnapshotRequest struct {
	Account    string    `json:"account"     validate:"required"`
	CapturedAt time.Time `json:"captured_at" validate:"required"`
	Followers  int64     `json:"followers"   validate:"gte=0"`
	Posts      int64     `json:"posts"       validate:"gte=0"`
	Following  int64     `json:"following"   validate:"gte=0"`
	Views      int64     `json:"views"       validate:"gte=0"`
}

// --- Models ---

type trainRegressionRequest struct {
	Target      string  `json:"target"       validate:"omitempty,oneof=followers posts following views"`
	TestSize    float64 `json:"test_size"    validate:"omitempty,gt=0,lt=1"`
	RandomState *int64  `json:"random_state" validate:"omitempty,gte=0"`
}

type predictionResponse struct {
	Prediction float64 `json:"prediction"`
	ModelType  string  `json:"model_type"`
	Target     string  `json:"target"`
}

type batchPredictRequest struct {
	Rows []map[string]float64 `json:"rows" validate:"required,min=1,dive,required"`
}

type batchPredictionResponse struct {
	Predictions []float64 `json:"predictions"`
	ModelType   string    `json:"model_type"`
	Target      string    `json:"target"`
}

type clusterPredictRequest struct {
	Rows [][]float64 `json:"rows" validate:"required,min=1"`
}

type clusterPredictionResponse struct {
	Labels    []int  `json:"labels"`
	NClusters int    `json:"n_clusters"`
	ModelType string `json:"model_type"`
}

type messageResponse struct {
	Message string `json:"message"`
}
