package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/socialpulse/analytics-api/internal/core/domain"
	"github.com/socialpulse/analytics-api/internal/core/ports"
)

// ContentService implements account-scoped reads and post writes. It assumes
// the request gate has already settled authorization; every method only
// touches data for the handle it is given.
type ContentService struct {
	accounts   ports.AccountRepository
	metricRepo ports.MetricRepository
	posts      ports.PostRepository
	log        zerolog.Logger
}

func NewContentService(
	accounts ports.AccountRepository,
	metricRepo ports.MetricRepository,
	posts ports.PostRepository,
	log zerolog.Logger,
) *ContentService {
	return &ContentService{accounts: accounts, metricRepo: metricRepo, posts: posts, log: log}
}

func (s *ContentService) ListPosts(ctx context.Context, handle string) ([]*domain.Post, error) {
	posts, err := s.posts.ListByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// AddPost resolves the account and persists one post record.
func (s *ContentService) AddPost(ctx context.Context, in ports.PostInput) (*domain.Post, error) {
	acct, err := s.accounts.FindByHandle(ctx, in.Handle)
	if err != nil {
		return nil, fmt.Errorf("add post: %w", err)
	}

	post := &domain.Post{
		AccountID:      acct.ID,
		Handle:         acct.Handle,
		PublishedAt:    in.PublishedAt.UTC(),
		Content:        in.Content,
		Likes:          in.Likes,
		Retweets:       in.Retweets,
		Views:          in.Views,
		EngagementRate: in.EngagementRate,
	}
	if err := s.posts.Insert(ctx, post); err != nil {
		return nil, fmt.Errorf("add post: insert: %w", err)
	}

	s.log.Info().Str("handle", in.Handle).Time("published_at", in.PublishedAt).Msg("post stored")
	return post, nil
}

func (s *ContentService) ListMetrics(ctx context.Context, handle string, limit int64) ([]*domain.MetricPoint, error) {
	points, err := s.metricRepo.ListByHandle(ctx, handle, limit)
	if err != nil {
		return nil, fmt.Errorf("list metrics: %w", err)
	}
	return points, nil
}
