package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

func TestOpenAI_Generate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		io.WriteString(w, `{"choices":[{"message":{"content":"hi there"}}]}`)
	}))
	defer upstream.Close()

	o := NewOpenAI(OpenAIConfig{APIKey: "sk-test", APIBase: upstream.URL, Model: "gpt-4o-mini", Logger: testLogger()})
	reply, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if reply != "hi there" {
		t.Errorf("reply = %q", reply)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Errorf("model = %v", gotBody["model"])
	}
}

func TestOpenAI_ImageAttached(t *testing.T) {
	var gotBody string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		io.WriteString(w, `{"choices":[{"message":{"content":"a cat"}}]}`)
	}))
	defer upstream.Close()

	o := NewOpenAI(OpenAIConfig{APIKey: "k", APIBase: upstream.URL, Logger: testLogger()})
	if _, err := o.Generate(context.Background(), domain.GenerationRequest{
		Prompt:   "describe",
		ImageURL: "https://img.example/c.jpg",
	}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"image_url"`, "https://img.example/c.jpg"} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body missing %s: %s", want, gotBody)
		}
	}
}

func TestOpenAI_EmptyChoicesYieldsSentinel(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	}))
	defer upstream.Close()

	o := NewOpenAI(OpenAIConfig{APIKey: "k", APIBase: upstream.URL, Logger: testLogger()})
	reply, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if reply != Sentinel {
		t.Errorf("reply = %q, want sentinel", reply)
	}
}

func TestOpenAI_NoKey(t *testing.T) {
	o := NewOpenAI(OpenAIConfig{Logger: testLogger()})
	if _, err := o.Generate(context.Background(), domain.GenerationRequest{Prompt: "x"}); err == nil {
		t.Error("missing key must fail closed with an error")
	}
}
