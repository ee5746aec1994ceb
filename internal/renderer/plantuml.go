package renderer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PlantUMLRenderer renders PlantUML source through a Kroki-compatible HTTP
// endpoint (POST of raw source, image bytes back).
type PlantUMLRenderer struct {
	baseURL string
	format  string
	client  *http.Client
}

// NewPlantUMLRenderer creates a renderer against the given server base URL,
// e.g. "https://kroki.io" or a self-hosted instance. Output format is PNG.
func NewPlantUMLRenderer(baseURL string) *PlantUMLRenderer {
	return &PlantUMLRenderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		format:  "png",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *PlantUMLRenderer) Render(ctx context.Context, source string) ([]byte, error) {
	url := fmt.Sprintf("%s/plantuml/%s", r.baseURL, r.format)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("building render request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling renderer: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading render response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("renderer returned status %d: %s", resp.StatusCode, snippet)
	}
	return body, nil
}
