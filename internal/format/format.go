// Package format turns one generated reply into platform-safe outbound
// messages: code-prompt classification, HTML escaping, chunk splitting, and
// the text-vs-captioned-photo mode decision.
package format

import (
	"regexp"
	"strings"

	"github.com/Jking123456/gemini-ai-by-homer/internal/domain"
)

const (
	// ChunkLimit keeps each message comfortably under the platform's hard
	// per-message limit, leaving headroom for code-block markup.
	ChunkLimit = 3800

	// captionLimit is the platform's hard cap for photo captions.
	captionLimit = 1024
)

// defaultVocabulary is the keyword set used to guess whether the user asked
// for code. A heuristic: false positives and negatives are expected.
var defaultVocabulary = []string{
	"code", "function", "class", "script", "npm", "install",
	"python", "javascript", "typescript", "java", "c++", "c#",
	"ruby", "php", "bash", "sh", "dockerfile", "docker",
	"kotlin", "go", "rust", "sql",
	"implement", "create", "snippet", "example",
}

// Formatter plans outbound messages for a reply.
type Formatter struct {
	vocab      []string
	chunkLimit int
}

func New() *Formatter {
	return &Formatter{vocab: defaultVocabulary, chunkLimit: ChunkLimit}
}

// NewWithVocabulary overrides the code-keyword set. Words are matched
// case-insensitively as substrings of the input text.
func NewWithVocabulary(words []string) *Formatter {
	if len(words) == 0 {
		words = defaultVocabulary
	}
	return &Formatter{vocab: words, chunkLimit: ChunkLimit}
}

// IsCodePrompt reports whether the original input text (not the reply) looks
// like a request for code.
func (f *Formatter) IsCodePrompt(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range f.vocab {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// EscapeHTML escapes the three HTML metacharacters the platform interprets.
func EscapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var blankRuns = regexp.MustCompile(`\n{3,}`)

// NormalizeNewlines rewrites literal "\n" escape sequences that some
// upstreams leak into the reply, then collapses runs of three or more
// newlines down to one blank line.
func NormalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, `\n`, "\n")
	return blankRuns.ReplaceAllString(text, "\n\n")
}

// Split cuts text into ordered chunks of at most max bytes. Concatenating the
// chunks yields the input unchanged.
func Split(text string, max int) []string {
	if max <= 0 || len(text) <= max {
		return []string{text}
	}
	parts := make([]string, 0, (len(text)+max-1)/max)
	for len(text) > max {
		parts = append(parts, text[:max])
		text = text[max:]
	}
	return append(parts, text)
}

// Plan decides the presentation of one reply and returns the ordered messages
// to send. One event yields either N text messages or exactly one captioned
// photo, never both.
//
// Code-classified replies are HTML-escaped, chunked, and wrapped per chunk in
// <pre><code> markup with HTML parse mode so the platform renders them
// verbatim. Non-code replies are newline-normalized; when a public image URL
// was resolved and the reply fits one caption, it is sent as a single photo
// with caption instead of text.
func (f *Formatter) Plan(chatID int64, inputText, reply, imageURL string) []domain.OutboundMessage {
	if f.IsCodePrompt(inputText) {
		escaped := EscapeHTML(reply)
		chunks := Split(escaped, f.chunkLimit)
		msgs := make([]domain.OutboundMessage, 0, len(chunks))
		for _, chunk := range chunks {
			msgs = append(msgs, domain.OutboundMessage{
				ChatID:    chatID,
				Text:      "<pre><code>" + chunk + "</code></pre>",
				ParseMode: "HTML",
			})
		}
		return msgs
	}

	text := NormalizeNewlines(reply)

	if imageURL != "" && len(text) <= captionLimit {
		return []domain.OutboundMessage{{
			ChatID:   chatID,
			Text:     text,
			PhotoURL: imageURL,
		}}
	}

	chunks := Split(text, f.chunkLimit)
	msgs := make([]domain.OutboundMessage, 0, len(chunks))
	for _, chunk := range chunks {
		msgs = append(msgs, domain.OutboundMessage{ChatID: chatID, Text: chunk})
	}
	return msgs
}
