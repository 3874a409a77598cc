package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// defaultPredictionHour matches the scrapers' end-of-day capture slot, so a
// date-only prediction asks about the time the metrics are actually sampled.
const defaultPredictionHour = 23

// RegressionHandler serves the per-account regression model lifecycle.
type RegressionHandler struct {
	service ports.RegressionService
}

func NewRegressionHandler(service ports.RegressionService) *RegressionHandler {
	return &RegressionHandler{service: service}
}

// Train fits candidate models on the account's snapshot history and persists
// the best one.
//
// @Summary      Train a regression model
// @Tags         regression
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string                  true   "Account handle"
// @Param        body     body      trainRegressionRequest  false  "Training tunables"
// @Success      201      {object}  domain.ModelArtifact
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/regression/{account}/train [post]
func (h *RegressionHandler) Train(c echo.Context) error {
	var req trainRegressionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	artifact, err := h.service.Train(c.Request().Context(), ports.TrainRegressionInput{
		Handle:      c.Param("account"),
		Target:      req.Target,
		TestSize:    req.TestSize,
		RandomState: req.RandomState,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, artifact)
}

// Predict serves a single prediction. The caller provides either an explicit
// feature set (weekday, hour, month) or a date from which weekday and month
// are derived.
//
// @Summary      Predict the target metric
// @Tags         regression
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true   "Account handle"
// @Param        date     query     string  false  "Date (YYYY-MM-DD); weekday and month are derived"
// @Param        weekday  query     int     false  "Weekday (0=Monday … 6=Sunday)"
// @Param        hour     query     int     false  "Hour of day (default 23)"
// @Param        month    query     int     false  "Month (1-12)"
// @Success      200      {object}  predictionResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/regression/{account}/predict [get]
func (h *RegressionHandler) Predict(c echo.Context) error {
	features, err := predictionFeatures(c)
	if err != nil {
		return err
	}

	res, err := h.service.Predict(c.Request().Context(), c.Param("account"), features)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, predictionResponse{
		Prediction: res.Prediction,
		ModelType:  res.ModelType,
		Target:     res.Target,
	})
}

// PredictBatch serves predictions for multiple feature rows at once.
//
// @Summary      Predict the target metric for multiple rows
// @Tags         regression
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string               true  "Account handle"
// @Param        body     body      batchPredictRequest  true  "Feature rows"
// @Success      200      {object}  batchPredictionResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/regression/{account}/predict-batch [post]
func (h *RegressionHandler) PredictBatch(c echo.Context) error {
	var req batchPredictRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.PredictBatch(c.Request().Context(), c.Param("account"), req.Rows)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, batchPredictionResponse{
		Predictions: res.Predictions,
		ModelType:   res.ModelType,
		Target:      res.Target,
	})
}

// Model returns the live model artifact with its full training report.
//
// @Summary      Live regression model info
// @Tags         regression
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {object}  domain.ModelArtifact
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/regression/{account}/model [get]
func (h *RegressionHandler) Model(c echo.Context) error {
	artifact, err := h.service.ModelInfo(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artifact)
}

// Compare returns the candidate comparison from the live model's training run.
//
// @Summary      Compare regression candidates
// @Tags         regression
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {array}   domain.CandidateResult
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/regression/{account}/compare [get]
func (h *RegressionHandler) Compare(c echo.Context) error {
	artifact, err := h.service.ModelInfo(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artifact.AllResults)
}

// History returns all training runs for the account, newest first.
//
// @Summary      Regression training history
// @Tags         regression
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {array}   domain.ModelArtifact
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/regression/{account}/history [get]
func (h *RegressionHandler) History(c echo.Context) error {
	artifacts, err := h.service.History(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artifacts)
}

// Delete removes the account's regression model and its training history.
// The account itself and its data are untouched.
//
// @Summary      Delete the regression model
// @Tags         regression
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {object}  messageResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/regression/{account}/model [delete]
func (h *RegressionHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("account")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "model deleted"})
}

// predictionFeatures assembles the feature map from query parameters.
func predictionFeatures(c echo.Context) (map[string]float64, error) {
	features := map[string]float64{}

	if date := c.QueryParam("date"); date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		// Monday = 0, matching the weekday encoding used at training time.
		features["weekday"] = float64((int(t.Weekday()) + 6) % 7)
		features["month"] = float64(t.Month())
		features["hour"] = defaultPredictionHour
	}

	for _, name := range []string{"weekday", "hour", "month"} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be numeric")
		}
		features[name] = v
	}

	if len(features) == 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "provide either date or weekday/hour/month")
	}
	return features, nil
}
