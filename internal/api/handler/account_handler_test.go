package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

type stubContentService struct {
	posts   []*domain.Post
	metrics []*domain.MetricPoint

	gotLimit int64
	gotPost  *ports.PostInput
}

func (s *stubContentService) ListPosts(_ context.Context, handle string) ([]*domain.Post, error) {
	return s.posts, nil
}

func (s *stubContentService) AddPost(_ context.Context, in ports.PostInput) (*domain.Post, error) {
	s.gotPost = &in
	if in.Handle == "NoSuchAccount" {
		return nil, domain.ErrAccountNotFound
	}
	return &domain.Post{Handle: in.Handle, Content: in.Content}, nil
}

func (s *stubContentService) ListMetrics(_ context.Context, handle string, limit int64) ([]*domain.MetricPoint, error) {
	s.gotLimit = limit
	return s.metrics, nil
}

func TestAccountHandler_Metrics(t *testing.T) {
	e := newEcho()
	content := &stubContentService{metrics: []*domain.MetricPoint{
		{Handle: "Interbank", Followers: 150000},
	}}
	h := NewAccountHandler(&stubAccessService{}, content)

	c, rec := queryRequest(e, "/v1/accounts/Interbank/metrics?limit=5", "Interbank")
	if err := h.Metrics(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if content.gotLimit != 5 {
		t.Fatalf("limit not passed through, got %d", content.gotLimit)
	}

	var resp []domain.MetricPoint
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].Followers != 150000 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_MetricsBadLimit(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubAccessService{}, &stubContentService{})

	c, rec := queryRequest(e, "/v1/accounts/Interbank/metrics?limit=abc", "Interbank")
	if err := h.Metrics(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandler_CreatePost(t *testing.T) {
	e := newEcho()
	content := &stubContentService{}
	h := NewAccountHandler(&stubAccessService{}, content)

	body := `{"published_at":"2025-04-01T12:00:00Z","content":"new card launch","likes":120,"retweets":30,"views":9000}`
	c, rec := jsonRequest(e, http.MethodPost, "/v1/accounts/Interbank/posts", body)
	c.SetParamNames("account")
	c.SetParamValues("Interbank")

	if err := h.CreatePost(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if content.gotPost == nil || content.gotPost.Handle != "Interbank" || content.gotPost.Likes != 120 {
		t.Fatalf("unexpected input: %+v", content.gotPost)
	}
	if !content.gotPost.PublishedAt.Equal(time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("published_at not parsed: %v", content.gotPost.PublishedAt)
	}
}

func TestAccountHandler_CreatePostMissingContent(t *testing.T) {
	e := newEcho()
	content := &stubContentService{}
	h := NewAccountHandler(&stubAccessService{}, content)

	c, rec := jsonRequest(e, http.MethodPost, "/v1/accounts/Interbank/posts", `{"published_at":"2025-04-01T12:00:00Z"}`)
	c.SetParamNames("account")
	c.SetParamValues("Interbank")

	if err := h.CreatePost(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if content.gotPost != nil {
		t.Fatalf("invalid post must not reach the service")
	}
}

func TestAccountHandler_CreatePostUnknownAccount(t *testing.T) {
	e := newEcho()
	h := NewAccountHandler(&stubAccessService{}, &stubContentService{})

	body := `{"published_at":"2025-04-01T12:00:00Z","content":"hello"}`
	c, _ := jsonRequest(e, http.MethodPost, "/v1/accounts/NoSuchAccount/posts", body)
	c.SetParamNames("account")
	c.SetParamValues("NoSuchAccount")

	if err := h.CreatePost(c); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
