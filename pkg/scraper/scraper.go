package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/Nairod97425/Rag/internal/models"
	"github.com/Nairod97425/Rag/pkg/processor"
)

// ScraperConfig drives the corpus scraper. URLs is the fixed list of
// source pages; the scraper never follows links.
type ScraperConfig struct {
	URLs         []string
	RateLimit    float64 // requests per second
	MaxRetries   int
	Timeout      time.Duration
	ChunkSize    int
	ChunkOverlap int
	OnProgress   func(url string)
}

// Scraper fetches the configured pages and turns each into a corpus
// entry of pre-chunked text.
type Scraper struct {
	config    ScraperConfig
	client    *http.Client
	limiter   *rate.Limiter
	processor processor.Processor
}

func NewWithConfig(config ScraperConfig) (*Scraper, error) {
	if len(config.URLs) == 0 {
		return nil, fmt.Errorf("no URLs to scrape")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 0.5
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}

	proc := processor.NewWithConfig(processor.ProcessorConfig{
		ChunkSize:    config.ChunkSize,
		ChunkOverlap: config.ChunkOverlap,
	})

	return &Scraper{
		config:    config,
		client:    &http.Client{Timeout: config.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		processor: proc,
	}, nil
}

// Scrape fetches every configured URL and returns one corpus entry per
// page that yielded text. Pages that keep failing after the retry budget
// abort the run; a corpus silently missing sources is worse than a loud
// failure.
func (s *Scraper) Scrape(ctx context.Context) ([]models.CorpusEntry, error) {
	var entries []models.CorpusEntry
	for _, pageURL := range s.config.URLs {
		entry, err := s.scrapePage(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("scraping %s: %w", pageURL, err)
		}
		if s.config.OnProgress != nil {
			s.config.OnProgress(pageURL)
		}
		if len(entry.Chunks) == 0 {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Scraper) scrapePage(ctx context.Context, pageURL string) (models.CorpusEntry, error) {
	var lastErr error
	for attempt := 0; attempt < s.config.MaxRetries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return models.CorpusEntry{}, err
		}

		entry, err := s.fetchPage(ctx, pageURL)
		if err == nil {
			return entry, nil
		}
		lastErr = err
	}
	return models.CorpusEntry{}, lastErr
}

func (s *Scraper) fetchPage(ctx context.Context, pageURL string) (models.CorpusEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return models.CorpusEntry{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return models.CorpusEntry{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.CorpusEntry{}, fmt.Errorf("received status code %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.CorpusEntry{}, err
	}

	title := strings.TrimSpace(doc.Find("title").Text())
	content := s.extractMainContent(doc)

	return models.CorpusEntry{
		URL:    pageURL,
		Title:  title,
		Chunks: s.processor.Process(content),
	}, nil
}

func (s *Scraper) extractMainContent(doc *goquery.Document) string {
	// Strip chrome before extracting text.
	doc.Find("script, style, nav, header, footer, aside").Remove()

	selectors := []string{
		"main",
		"article",
		".content",
		"#content",
	}

	var content string
	for _, selector := range selectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			content = selected.Text()
			break
		}
	}

	if content == "" {
		content = doc.Find("body").Text()
	}

	return strings.TrimSpace(content)
}

// WriteCorpus writes the entries to path as the corpus JSON consumed by
// the loader, creating parent directories as needed.
func WriteCorpus(path string, entries []models.CorpusEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating corpus directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding corpus: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing corpus file: %w", err)
	}
	return nil
}
