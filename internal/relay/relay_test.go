package relay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeResolver struct {
	url string
	err error
}

func (f fakeResolver) FileURL(context.Context, string) (string, error) {
	return f.url, f.err
}

func TestRelay_HappyPath(t *testing.T) {
	fileHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("raw image bytes"))
	}))
	defer fileHost.Close()

	var gotBytes []byte
	imageHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing multipart file field: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		gotBytes, _ = io.ReadAll(file)
		fmt.Fprint(w, `{"url":"https://public.example/i.jpg"}`)
	}))
	defer imageHost.Close()

	r := New(Config{
		Resolver:  fakeResolver{url: fileHost.URL + "/file/photo"},
		UploadURL: imageHost.URL,
		Logger:    testLogger(),
	})

	got := r.PublicURL(context.Background(), domain.MediaRef{FileID: "abc"})
	if got != "https://public.example/i.jpg" {
		t.Errorf("public URL = %q", got)
	}
	if string(gotBytes) != "raw image bytes" {
		t.Errorf("uploaded bytes = %q", gotBytes)
	}
}

func TestRelay_ResolutionFailure(t *testing.T) {
	r := New(Config{
		Resolver:  fakeResolver{err: fmt.Errorf("no such file")},
		UploadURL: "http://unused.example",
		Logger:    testLogger(),
	})
	if got := r.PublicURL(context.Background(), domain.MediaRef{FileID: "abc"}); got != "" {
		t.Errorf("resolution failure must yield empty URL, got %q", got)
	}
}

func TestRelay_DownloadFailure(t *testing.T) {
	fileHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer fileHost.Close()

	r := New(Config{
		Resolver:  fakeResolver{url: fileHost.URL},
		UploadURL: "http://unused.example",
		Logger:    testLogger(),
	})
	if got := r.PublicURL(context.Background(), domain.MediaRef{FileID: "abc"}); got != "" {
		t.Errorf("download failure must yield empty URL, got %q", got)
	}
}

func TestRelay_UploadFailure(t *testing.T) {
	fileHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bytes"))
	}))
	defer fileHost.Close()
	imageHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer imageHost.Close()

	r := New(Config{
		Resolver:  fakeResolver{url: fileHost.URL},
		UploadURL: imageHost.URL,
		Logger:    testLogger(),
	})
	if got := r.PublicURL(context.Background(), domain.MediaRef{FileID: "abc"}); got != "" {
		t.Errorf("upload failure must yield empty URL, got %q", got)
	}
}

func TestRelay_MalformedHostResponse(t *testing.T) {
	fileHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bytes"))
	}))
	defer fileHost.Close()
	imageHost := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true}`) // no URL anywhere
	}))
	defer imageHost.Close()

	r := New(Config{
		Resolver:  fakeResolver{url: fileHost.URL},
		UploadURL: imageHost.URL,
		Logger:    testLogger(),
	})
	if got := r.PublicURL(context.Background(), domain.MediaRef{FileID: "abc"}); got != "" {
		t.Errorf("URL-less host response must yield empty URL, got %q", got)
	}
}

func TestRelay_NoHostConfigured(t *testing.T) {
	r := New(Config{
		Resolver: fakeResolver{url: "http://unused.example"},
		Logger:   testLogger(),
	})
	if got := r.PublicURL(context.Background(), domain.MediaRef{FileID: "abc"}); got != "" {
		t.Errorf("missing image host must yield empty URL, got %q", got)
	}
}

func TestExtractURL_Normalization(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"flat url", `{"url":"https://a.example/1"}`, "https://a.example/1"},
		{"nested url", `{"data":{"url":"https://a.example/2"}}`, "https://a.example/2"},
		{"plain text url", "https://a.example/3\n", "https://a.example/3"},
		{"plain text garbage", "thanks for uploading", ""},
		{"empty json", `{}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractURL([]byte(tc.body)); got != tc.want {
				t.Errorf("extractURL(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}
