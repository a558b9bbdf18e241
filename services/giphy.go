package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	defaultGiphyBaseURL = "https://api.giphy.com"
	giphySearchLimit    = 25
	giphyCacheSize      = 128
)

// GIF is the provenance of a minted card.
type GIF struct {
	URL    string
	Source string
}

// GiphyService draws random GIFs for a tag. Search results are cached
// per tag in an LRU so that opening several packs with the same tag
// pool costs one upstream call, and each draw picks randomly from the
// cached batch.
type GiphyService struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *lru.Cache
}

func NewGiphyService(apiKey, baseURL string) *GiphyService {
	if baseURL == "" {
		baseURL = defaultGiphyBaseURL
	}
	cache, _ := lru.New(giphyCacheSize)
	return &GiphyService{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   cache,
	}
}

type giphySearchResponse struct {
	Data []struct {
		URL    string `json:"url"`
		Images struct {
			Original struct {
				URL string `json:"url"`
			} `json:"original"`
		} `json:"images"`
	} `json:"data"`
}

// RandomGIF returns a random GIF for the tag.
func (s *GiphyService) RandomGIF(ctx context.Context, tag string) (GIF, error) {
	gifs, err := s.searchGIFs(ctx, tag)
	if err != nil {
		return GIF{}, err
	}
	if len(gifs) == 0 {
		return GIF{}, fmt.Errorf("no gifs found for tag %q", tag)
	}
	return gifs[rand.Intn(len(gifs))], nil
}

func (s *GiphyService) searchGIFs(ctx context.Context, tag string) ([]GIF, error) {
	if cached, ok := s.cache.Get(tag); ok {
		return cached.([]GIF), nil
	}

	endpoint := fmt.Sprintf("%s/v1/gifs/search?api_key=%s&q=%s&limit=%d",
		s.baseURL, url.QueryEscape(s.apiKey), url.QueryEscape(tag), giphySearchLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build gif request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gif provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gif provider returned status %d", resp.StatusCode)
	}

	var parsed giphySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode gif response: %w", err)
	}

	gifs := make([]GIF, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		if item.Images.Original.URL == "" {
			continue
		}
		gifs = append(gifs, GIF{
			URL:    item.Images.Original.URL,
			Source: item.URL,
		})
	}

	s.cache.Add(tag, gifs)
	return gifs, nil
}
