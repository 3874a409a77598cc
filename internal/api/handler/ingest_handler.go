package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// SnapshotDispatcher is the interface the handler uses to enqueue snapshots.
type SnapshotDispatcher interface {
	Enqueue(snapshot ports.MetricSnapshotInput)
	EnqueueBatch(snapshots []ports.MetricSnapshotInput)
}

// IngestHandler accepts scraped metric snapshots for asynchronous processing.
type IngestHandler struct {
	dispatcher SnapshotDispatcher
	access     ports.AccessService
}

// NewIngestHandler creates an IngestHandler backed by the given dispatcher.
func NewIngestHandler(dispatcher SnapshotDispatcher, access ports.AccessService) *IngestHandler {
	return &IngestHandler{dispatcher: dispatcher, access: access}
}

// ReceiveBatch handles POST /v1/ingest/metrics — enqueues a batch of
// snapshots, returns 202. Duplicates are silently dropped by the workers.
// Every handle in the batch must belong to the caller's company; one foreign
// handle rejects the whole batch before anything is enqueued.
//
// @Summary      Ingest a batch of metric snapshots
// @Tags         ingest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []metricSnapshotRequest  true  "Array of metric snapshots"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/ingest/metrics [post]
func (h *IngestHandler) ReceiveBatch(c echo.Context) error {
	var reqs []metricSnapshotRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}

	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	inputs := make([]ports.MetricSnapshotInput, 0, len(reqs))
	checked := make(map[string]bool, len(reqs))
	for i, req := range reqs {
		if err := c.Validate(&req); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("snapshot[%d]: %s", i, err.Error()))
		}
		if !checked[req.Account] {
			if err := h.access.HasAccess(c.Request().Context(), p.CompanyID, req.Account); err != nil {
				return err
			}
			checked[req.Account] = true
		}
		inputs = append(inputs, ports.MetricSnapshotInput{
			Handle:     req.Account,
			CapturedAt: req.CapturedAt,
			Followers:  req.Followers,
			Posts:      req.Posts,
			Following:  req.Following,
			Views:      req.Views,
		})
	}

	h.dispatcher.EnqueueBatch(inputs)
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "snapshots accepted",
		Count:   len(inputs),
	})
}
