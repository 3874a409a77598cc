package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// ClusteringHandler serves the per-account content clustering lifecycle.
type ClusteringHandler struct {
	service ports.ClusteringService
}

func NewClusteringHandler(service ports.ClusteringService) *ClusteringHandler {
	return &ClusteringHandler{service: service}
}

// Train fits k-means over the account's stored posts and persists the best
// clustering by silhouette score.
//
// @Summary      Train a clustering model
// @Tags         clustering
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      201      {object}  domain.ModelArtifact
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/clustering/{account}/train [post]
func (h *ClusteringHandler) Train(c echo.Context) error {
	artifact, err := h.service.Train(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, artifact)
}

// Predict assigns cluster labels to feature rows (engagement_rate, views).
//
// @Summary      Assign clusters to feature rows
// @Tags         clustering
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string                 true  "Account handle"
// @Param        body     body      clusterPredictRequest  true  "Feature rows"
// @Success      200      {object}  clusterPredictionResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/clustering/{account}/predict [post]
func (h *ClusteringHandler) Predict(c echo.Context) error {
	var req clusterPredictRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.service.Predict(c.Request().Context(), c.Param("account"), req.Rows)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, clusterPredictionResponse{
		Labels:    res.Labels,
		NClusters: res.NClusters,
		ModelType: res.ModelType,
	})
}

// Clusters returns the account's stored posts grouped by assigned cluster.
//
// @Summary      Grouped content clusters
// @Tags         clustering
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {array}   ports.ClusterContent
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/clustering/{account}/clusters [get]
func (h *ClusteringHandler) Clusters(c echo.Context) error {
	groups, err := h.service.Clusters(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groups)
}

// Model returns the live clustering artifact with its training report.
//
// @Summary      Live clustering model info
// @Tags         clustering
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {object}  domain.ModelArtifact
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/clustering/{account}/model [get]
func (h *ClusteringHandler) Model(c echo.Context) error {
	artifact, err := h.service.ModelInfo(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artifact)
}

// Compare returns the k-sweep comparison from the live model's training run.
//
// @Summary      Compare clustering candidates
// @Tags         clustering
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {array}   domain.CandidateResult
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/clustering/{account}/compare [get]
func (h *ClusteringHandler) Compare(c echo.Context) error {
	artifact, err := h.service.ModelInfo(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artifact.AllResults)
}

// History returns all clustering training runs, newest first.
//
// @Summary      Clustering training history
// @Tags         clustering
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {array}   domain.ModelArtifact
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/clustering/{account}/history [get]
func (h *ClusteringHandler) History(c echo.Context) error {
	artifacts, err := h.service.History(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artifacts)
}

// Delete removes the account's clustering model and its training history.
//
// @Summary      Delete the clustering model
// @Tags         clustering
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {object}  messageResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/clustering/{account}/model [delete]
func (h *ClusteringHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("account")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "model deleted"})
}
