package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

// Gemini calls a Gemini proxy endpoint of the form
// GET <endpoint>?prompt=&imageUrl=&user=. The response is not guaranteed to
// be valid JSON; extraction is handled by ExtractReply.
type Gemini struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

type GeminiConfig struct {
	Endpoint string
	Client   *http.Client
	Logger   *slog.Logger
}

func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.Client == nil {
		cfg.Client = SharedHTTPClient(0)
	}
	return &Gemini{
		endpoint: cfg.Endpoint,
		client:   cfg.Client,
		logger:   cfg.Logger,
	}
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	if g.endpoint == "" {
		return "", fmt.Errorf("gemini: no endpoint configured")
	}

	u, err := url.Parse(g.endpoint)
	if err != nil {
		return "", fmt.Errorf("gemini: bad endpoint: %w", err)
	}
	q := u.Query()
	q.Set("prompt", req.Prompt)
	q.Set("imageUrl", req.ImageURL)
	q.Set("user", req.UserToken)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("gemini: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("gemini: upstream returned %d", resp.StatusCode)
	}

	g.logger.Debug("gemini reply received", "status", resp.StatusCode, "body_len", len(body))
	return ExtractReply(body), nil
}
