// Package catalog loads the restaurant list the suggestion engine runs on.
// The catalog is read once at startup and treated as immutable for the
// life of the process; a parse failure anywhere in the resource is fatal,
// there is no partial catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"chewsy/internal/schedule"
)

// Source produces the in-memory restaurant list.
type Source interface {
	Load(ctx context.Context) ([]schedule.Restaurant, error)
}

// FileSource reads a JSON catalog from local disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) ([]schedule.Restaurant, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return decode(data)
}

// HTTPSource fetches a JSON catalog from a remote URL, with an optional
// Redis response cache in front of it.
type HTTPSource struct {
	url        string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewHTTPSource constructs a source for the given catalog URL.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UseRedisCache configures optional Redis caching of the raw catalog body.
func (s *HTTPSource) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	s.redis = redisClient
	s.cacheTTL = ttl
}

func (s *HTTPSource) Load(ctx context.Context) ([]schedule.Restaurant, error) {
	cacheKey := "catalog:" + s.url

	if data, ok := s.readCache(ctx, cacheKey); ok {
		if list, err := decode(data); err == nil {
			return list, nil
		}
		// A poisoned cache entry falls through to a refetch.
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch catalog: http %d", resp.StatusCode)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}

	list, err := decode(buf)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, cacheKey, buf)
	return list, nil
}

func (s *HTTPSource) readCache(ctx context.Context, key string) ([]byte, bool) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	val, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (s *HTTPSource) writeCache(ctx context.Context, key string, data []byte) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	_ = s.redis.Set(ctx, key, data, s.cacheTTL).Err()
}

func decode(data []byte) ([]schedule.Restaurant, error) {
	var list []schedule.Restaurant
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, r := range list {
		if r.Name == "" {
			return nil, fmt.Errorf("parse catalog: entry %d has an empty name", i)
		}
	}
	return list, nil
}
