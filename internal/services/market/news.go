package market

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/finnews-io/finnews/internal/models"
)

const (
	feedConcurrency  = 8
	defaultNewsLimit = 10
)

// LatestNews aggregates every configured feed concurrently. A failing feed
// is logged and skipped; the aggregate is whatever the healthy feeds
// produced, deduplicated by link and sorted newest first.
func (s *Service) LatestNews(ctx context.Context, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = defaultNewsLimit
	}

	var (
		mu    sync.Mutex
		items []models.NewsItem
	)

	var g errgroup.Group
	g.SetLimit(feedConcurrency)
	for _, feed := range s.feeds {
		g.Go(func() error {
			got, err := s.news.FetchFeed(ctx, feed)
			if err != nil {
				s.logger.Warn().Str("feed", feed.Name).Err(err).Msg("Feed fetch failed")
				return nil
			}
			mu.Lock()
			items = append(items, got...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	seen := make(map[string]bool, len(items))
	deduped := items[:0]
	for _, item := range items {
		if seen[item.Link] {
			continue
		}
		seen[item.Link] = true
		deduped = append(deduped, item)
	}

	// Newest first; items without a parseable date sort last.
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].PublishedAt.After(deduped[j].PublishedAt)
	})

	if len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped, nil
}
