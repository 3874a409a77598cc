package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// AccountHandler serves account-scoped reads of stored posts and metric
// snapshots. Ownership of the :account parameter has already been settled by
// the AccountAccess middleware before any method here runs.
type AccountHandler struct {
	access  ports.AccessService
	content ports.ContentService
}

func NewAccountHandler(access ports.AccessService, content ports.ContentService) *AccountHandler {
	return &AccountHandler{access: access, content: content}
}

// List returns the social accounts owned by the caller's company.
//
// @Summary      List my company's accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	p, err := principalFrom(c)
	if err != nil {
		return err
	}

	accounts, err := h.access.ListAccounts(c.Request().Context(), p.CompanyID)
	if err != nil {
		return err
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{
			ID:           a.ID,
			Handle:       a.Handle,
			DisplayName:  a.DisplayName,
			CompanyID:    a.CompanyID,
			RegisteredAt: a.RegisteredAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Posts returns the account's stored posts, newest first.
//
// @Summary      List an account's posts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true  "Account handle"
// @Success      200      {array}   domain.Post
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/accounts/{account}/posts [get]
func (h *AccountHandler) Posts(c echo.Context) error {
	posts, err := h.content.ListPosts(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// CreatePost stores one published post for the account.
//
// @Summary      Store a post
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string             true  "Account handle"
// @Param        body     body      createPostRequest  true  "Post details"
// @Success      201      {object}  domain.Post
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/accounts/{account}/posts [post]
func (h *AccountHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.content.AddPost(c.Request().Context(), ports.PostInput{
		Handle:         c.Param("account"),
		PublishedAt:    req.PublishedAt,
		Content:        req.Content,
		Likes:          req.Likes,
		Retweets:       req.Retweets,
		Views:          req.Views,
		EngagementRate: req.EngagementRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Metrics returns the account's metric snapshots, newest first.
//
// @Summary      List an account's metric snapshots
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        account  path      string  true   "Account handle"
// @Param        limit    query     int     false  "Maximum number of snapshots"
// @Success      200      {array}   domain.MetricPoint
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /v1/accounts/{account}/metrics [get]
func (h *AccountHandler) Metrics(c echo.Context) error {
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	points, err := h.content.ListMetrics(c.Request().Context(), c.Param("account"), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, points)
}
