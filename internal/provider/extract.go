package provider

import (
	"encoding/json"
	"strings"
)

// Sentinel is the fixed reply used whenever no real content could be
// obtained from the upstream.
const Sentinel = "⚠️ No response received from the AI service."

// replyFields is the priority order of reply-bearing fields in the upstream
// response. First non-empty wins.
var replyFields = []string{"data", "response", "message"}

// ExtractReply derives the reply text from an untrusted upstream body, which
// may be JSON of varying shape or plain text. Pure function: same body, same
// reply. Falls back to the raw body verbatim, then to the sentinel when
// everything is empty.
func ExtractReply(body []byte) string {
	raw := strings.TrimSpace(string(body))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, name := range replyFields {
			if v, ok := fields[name]; ok {
				if s := asString(v); s != "" {
					return s
				}
			}
		}
	}

	if raw != "" {
		return raw
	}
	return Sentinel
}

// asString unwraps a JSON value into reply text. Strings are used directly;
// anything else (the upstream is not contractually typed) is ignored.
func asString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
