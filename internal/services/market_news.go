package services

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"bullpen/internal/utils"
)

// Headline is one market-news item for the dashboard sidebar.
type Headline struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// MarketNews fetches dashboard headlines from configured RSS sources. Quote
// data lives with another collaborator; only the feed plumbing is here.
type MarketNews struct {
	parser *gofeed.Parser
}

func NewMarketNews() *MarketNews {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 2,
		},
	}

	parser := gofeed.NewParser()
	parser.Client = httpClient

	return &MarketNews{parser: parser}
}

var marketNews *MarketNews

// GetMarketNews returns the fetcher singleton.
func GetMarketNews() *MarketNews {
	if marketNews == nil {
		marketNews = NewMarketNews()
	}
	return marketNews
}

// FeedURLs reads the comma-separated MARKET_FEED_URLS configuration.
func FeedURLs() []string {
	raw := os.Getenv("MARKET_FEED_URLS")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

// Headlines fetches and merges items from every configured feed, newest
// first, capped at limit. Results are cached for five minutes; a feed that
// fails to fetch is skipped rather than failing the dashboard.
func (m *MarketNews) Headlines(limit int) ([]Headline, error) {
	cacheKey := fmt.Sprintf("market:headlines:%d", limit)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if headlines, ok := cached.([]Headline); ok {
			return headlines, nil
		}
	}

	urls := FeedURLs()
	if len(urls) == 0 {
		return []Headline{}, nil
	}

	headlines := make([]Headline, 0, limit)
	var lastErr error
	for _, url := range urls {
		feed, err := m.parser.ParseURL(url)
		if err != nil {
			lastErr = err
			continue
		}
		for _, item := range feed.Items {
			published := time.Now()
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			}
			headlines = append(headlines, Headline{
				Title:       item.Title,
				Link:        item.Link,
				Summary:     summarize(item.Description),
				Source:      feed.Title,
				PublishedAt: published,
			})
		}
	}
	if len(headlines) == 0 && lastErr != nil {
		return nil, lastErr
	}

	sortHeadlines(headlines)
	if len(headlines) > limit {
		headlines = headlines[:limit]
	}

	utils.GetCache().Set(cacheKey, headlines, 5*time.Minute)
	return headlines, nil
}

// summarize strips HTML out of a feed description and trims it to a short
// plain-text blurb.
func summarize(description string) string {
	text := description
	if strings.Contains(description, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(description)); err == nil {
			text = doc.Text()
		}
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > 200 {
		text = string(runes[:200]) + "..."
	}
	return text
}

func sortHeadlines(headlines []Headline) {
	sort.SliceStable(headlines, func(i, j int) bool {
		return headlines[i].PublishedAt.After(headlines[j].PublishedAt)
	})
}
