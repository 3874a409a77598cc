package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

type stubRegressionService struct {
	trainFn   func(ctx context.Context, input ports.TrainRegressionInput) (*domain.ModelArtifact, error)
	predictFn func(ctx context.Context, handle string, features map[string]float64) (*ports.PredictionResult, error)
}

func (s *stubRegressionService) Train(ctx context.Context, input ports.TrainRegressionInput) (*domain.ModelArtifact, error) {
	return s.trainFn(ctx, input)
}

func (s *stubRegressionService) Predict(ctx context.Context, handle string, features map[string]float64) (*ports.PredictionResult, error) {
	return s.predictFn(ctx, handle, features)
}

func (s *stubRegressionService) PredictBatch(context.Context, string, []map[string]float64) (*ports.BatchPredictionResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRegressionService) ModelInfo(context.Context, string) (*domain.ModelArtifact, error) {
	return nil, domain.ErrModelNotFound
}

func (s *stubRegressionService) History(context.Context, string) ([]*domain.ModelArtifact, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRegressionService) Delete(context.Context, string) error {
	return domain.ErrModelNotFound
}

func queryRequest(e *echo.Echo, path, account string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("account")
	c.SetParamValues(account)
	return c, rec
}

func TestRegressionHandler_Train(t *testing.T) {
	e := newEcho()
	stub := &stubRegressionService{
		trainFn: func(_ context.Context, input ports.TrainRegressionInput) (*domain.ModelArtifact, error) {
			if input.Handle != "Interbank" || input.Target != "views" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.ModelArtifact{Handle: input.Handle, Kind: domain.ModelRegression, Target: input.Target}, nil
		},
	}
	h := NewRegressionHandler(stub)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/regression/Interbank/train", `{"target":"views"}`)
	c.SetParamNames("account")
	c.SetParamValues("Interbank")

	if err := h.Train(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestRegressionHandler_TrainSeedZero(t *testing.T) {
	e := newEcho()
	var got ports.TrainRegressionInput
	stub := &stubRegressionService{
		trainFn: func(_ context.Context, input ports.TrainRegressionInput) (*domain.ModelArtifact, error) {
			got = input
			return &domain.ModelArtifact{Handle: input.Handle, Kind: domain.ModelRegression}, nil
		},
	}
	h := NewRegressionHandler(stub)

	// An explicit zero seed must reach the service as zero, not as "absent".
	c, _ := jsonRequest(e, http.MethodPost, "/v1/regression/Interbank/train", `{"random_state":0}`)
	c.SetParamNames("account")
	c.SetParamValues("Interbank")
	if err := h.Train(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.RandomState == nil || *got.RandomState != 0 {
		t.Fatalf("random_state = %v, want explicit 0", got.RandomState)
	}

	// Omitting the field must arrive as nil so the service applies its default.
	c, _ = jsonRequest(e, http.MethodPost, "/v1/regression/Interbank/train", `{}`)
	c.SetParamNames("account")
	c.SetParamValues("Interbank")
	if err := h.Train(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.RandomState != nil {
		t.Fatalf("random_state = %v, want nil for an absent field", *got.RandomState)
	}
}

func TestRegressionHandler_PredictFromDate(t *testing.T) {
	e := newEcho()
	var got map[string]float64
	stub := &stubRegressionService{
		predictFn: func(_ context.Context, handle string, features map[string]float64) (*ports.PredictionResult, error) {
			got = features
			return &ports.PredictionResult{Prediction: 1234, ModelType: "Ridge", Target: "followers"}, nil
		},
	}
	h := NewRegressionHandler(stub)

	// 2025-05-02 is a Friday → weekday 4 with Monday = 0.
	c, rec := queryRequest(e, "/v1/regression/Interbank/predict?date=2025-05-02", "Interbank")
	if err := h.Predict(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got["weekday"] != 4 || got["month"] != 5 || got["hour"] != defaultPredictionHour {
		t.Fatalf("unexpected derived features: %v", got)
	}
}

func TestRegressionHandler_PredictExplicitOverridesDate(t *testing.T) {
	e := newEcho()
	var got map[string]float64
	stub := &stubRegressionService{
		predictFn: func(_ context.Context, _ string, features map[string]float64) (*ports.PredictionResult, error) {
			got = features
			return &ports.PredictionResult{}, nil
		},
	}
	h := NewRegressionHandler(stub)

	c, _ := queryRequest(e, "/v1/regression/Interbank/predict?date=2025-05-02&hour=9", "Interbank")
	if err := h.Predict(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got["hour"] != 9 {
		t.Fatalf("explicit hour should override the default, got %v", got["hour"])
	}
}

func TestRegressionHandler_PredictNoFeatures(t *testing.T) {
	e := newEcho()
	stub := &stubRegressionService{
		predictFn: func(context.Context, string, map[string]float64) (*ports.PredictionResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewRegressionHandler(stub)

	c, rec := queryRequest(e, "/v1/regression/Interbank/predict", "Interbank")
	if err := h.Predict(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegressionHandler_PredictBadDate(t *testing.T) {
	e := newEcho()
	stub := &stubRegressionService{
		predictFn: func(context.Context, string, map[string]float64) (*ports.PredictionResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewRegressionHandler(stub)

	c, rec := queryRequest(e, "/v1/regression/Interbank/predict?date=05-02-2025", "Interbank")
	if err := h.Predict(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegressionHandler_DeleteWithoutModel(t *testing.T) {
	e := newEcho()
	h := NewRegressionHandler(&stubRegressionService{})

	c, _ := queryRequest(e, "/v1/regression/Interbank/model", "Interbank")
	if err := h.Delete(c); !errors.Is(err, domain.ErrModelNotFound) {
		t.Fatalf("expected ErrModelNotFound, got %v", err)
	}
}
