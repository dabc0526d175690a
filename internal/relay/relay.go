// Package relay re-hosts platform attachments at a public URL so the
// generation upstream, which cannot reach the platform's authenticated file
// URLs, can fetch them.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

// maxImageBytes caps how much of an attachment is relayed.
const maxImageBytes = 10 << 20

// Relay resolves a media reference to bytes and re-uploads them to a public
// image host. Identical images are re-uploaded on every event: this is a
// stateless low-volume relay and caching is deliberately out of scope.
type Relay struct {
	resolver  domain.FileResolver
	uploadURL string
	client    *http.Client
	logger    *slog.Logger
}

type Config struct {
	Resolver  domain.FileResolver
	UploadURL string
	Timeout   time.Duration
	Logger    *slog.Logger
}

func New(cfg Config) *Relay {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Relay{
		resolver:  cfg.Resolver,
		uploadURL: cfg.UploadURL,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    cfg.Logger,
	}
}

// PublicURL returns a publicly fetchable URL for the referenced media, or ""
// on any failure. The pipeline then continues as a text-only request; a lost
// image never aborts the event.
func (r *Relay) PublicURL(ctx context.Context, ref domain.MediaRef) string {
	if r.uploadURL == "" {
		r.logger.Debug("image host not configured, skipping media relay")
		return ""
	}

	fileURL, err := r.resolver.FileURL(ctx, ref.FileID)
	if err != nil {
		r.logger.Warn("media relay: file resolution failed", "file_id", ref.FileID, "err", err)
		return ""
	}

	data, err := r.download(ctx, fileURL)
	if err != nil {
		r.logger.Warn("media relay: download failed", "file_id", ref.FileID, "err", err)
		return ""
	}

	publicURL, err := r.upload(ctx, data)
	if err != nil {
		r.logger.Warn("media relay: upload failed", "file_id", ref.FileID, "err", err)
		return ""
	}

	r.logger.Info("media relayed", "file_id", ref.FileID, "bytes", len(data))
	return publicURL
}

func (r *Relay) download(ctx context.Context, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

func (r *Relay) upload(ctx context.Context, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "photo.jpg")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.uploadURL, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload returned %s", resp.Status)
	}

	url := extractURL(body)
	if url == "" {
		return "", fmt.Errorf("upload response carried no URL")
	}
	return url, nil
}

// extractURL normalizes the host response to its public URL. Hosts vary:
// some return {"url": ...}, some nest it under "data", some answer with the
// bare URL as plain text.
func extractURL(body []byte) string {
	var parsed struct {
		URL  string `json:"url"`
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.URL != "" {
			return parsed.URL
		}
		if parsed.Data.URL != "" {
			return parsed.Data.URL
		}
		return ""
	}

	raw := strings.TrimSpace(string(body))
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return ""
}
