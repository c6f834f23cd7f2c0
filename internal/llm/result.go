package llm

import (
	"encoding/json"
	"strings"

	"github.com/react-studio/engine/internal/workspace"
)

// Result is the parsed output of one generation call: an explanation for the
// chat log and zero or more whole files. It is consumed once and discarded.
type Result struct {
	Explanation string                `json:"explanation"`
	Files       []workspace.BatchEntry `json:"files"`
}

// ParseResult extracts a generation result from raw model output. Models
// wrap JSON in markdown fences or prose more often than not, so parsing is
// lenient: try the whole payload, then the fenced block, then the outermost
// brace span. A payload with no recoverable JSON becomes an explanation-only
// result rather than an error; entry-level validation (missing content,
// empty path) is the store's job, not the parser's.
func ParseResult(raw string) Result {
	for _, candidate := range jsonCandidates(raw) {
		var res Result
		if err := json.Unmarshal([]byte(candidate), &res); err == nil {
			if res.Explanation != "" || len(res.Files) > 0 {
				if res.Explanation == "" {
					res.Explanation = "Generated files."
				}
				return res
			}
		}
	}
	return Result{Explanation: strings.TrimSpace(raw)}
}

func jsonCandidates(raw string) []string {
	raw = strings.TrimSpace(raw)
	var out []string
	if raw != "" {
		out = append(out, raw)
	}

	// Fenced block: ```json ... ``` or bare ```.
	if i := strings.Index(raw, "```"); i >= 0 {
		rest := raw[i+3:]
		if j := strings.Index(rest, "\n"); j >= 0 {
			rest = rest[j+1:]
		}
		if k := strings.Index(rest, "```"); k >= 0 {
			out = append(out, strings.TrimSpace(rest[:k]))
		}
	}

	// Outermost object span, for JSON embedded in prose.
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			out = append(out, raw[i:j+1])
		}
	}
	return out
}
