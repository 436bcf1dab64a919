package synthetic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/haneul/card-quest-go/internal/constants"
	"github.com/haneul/card-quest-go/internal/domain"
	"go.uber.org/zap"
)

const profileBaseURL = "https://github.com"

// Cache is the small slice of the cache service the scraper needs.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// AvatarScraper pulls the real profile avatar for an identity from its
// public GitHub page, so synthetic decks show the actual user instead
// of a stock image. Purely best-effort: any failure falls back to the
// stock image pool.
type AvatarScraper struct {
	httpClient *http.Client
	cache      Cache
	logger     *zap.Logger
	baseURL    string
}

func NewAvatarScraper(cache Cache, logger *zap.Logger) *AvatarScraper {
	return &AvatarScraper{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.ScraperTimeout,
		},
		cache:   cache,
		logger:  logger,
		baseURL: profileBaseURL,
	}
}

// FetchAvatar returns the avatar URL for one identity, or "" when the
// profile page cannot be fetched or carries no og:image.
func (s *AvatarScraper) FetchAvatar(ctx context.Context, identity domain.Identity) string {
	cacheKey := fmt.Sprintf("cardquest:avatar:%s", identity)

	if s.cache != nil {
		var cached string
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached != "" {
			s.logger.Debug("Avatar cache hit", zap.String("identity", identity.String()))
			return cached
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+identity.String(), nil)
	if err != nil {
		return ""
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Debug("Avatar fetch failed",
			zap.String("identity", identity.String()),
			zap.Error(err),
		)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Debug("Avatar fetch non-200",
			zap.String("identity", identity.String()),
			zap.Int("status", resp.StatusCode),
		)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	avatar, _ := doc.Find(`meta[property="og:image"]`).Attr("content")
	if avatar == "" {
		return ""
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, avatar, constants.CacheTTL.ScrapedAvatar)
	}

	return avatar
}
