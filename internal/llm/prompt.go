package llm

import (
	"fmt"
	"strings"

	"github.com/react-studio/engine/internal/workspace"
)

const systemPrompt = `You are a senior React engineer generating complete source files for a browser-based studio.

Respond with a single JSON object and nothing else:
{
  "explanation": "short summary of what you built or changed",
  "files": [
    {"path": "src/App.js", "content": "<full file content>", "language": "javascript"}
  ]
}

Rules:
- Return whole files, never diffs or fragments. Each file you include fully replaces any existing file at that path.
- Paths are relative, forward-slash separated, no leading slash.
- Put the most important file first in the list; the editor opens it.
- Use react and react-dom only unless the existing project already uses other packages.
- If the request needs no file changes, return an empty files array with an explanation.`

// Per-file and total caps keep the context window bounded; beyond the cap the
// model sees the path list only.
const (
	maxFileContext  = 6_000
	maxTotalContext = 48_000
)

// BuildMessages assembles the conversation for a generation call: system
// rules, the current workspace as context, then the user's request.
func BuildMessages(projectType string, files []workspace.File, prompt string) []Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Project type: %s\n", projectType)
	fmt.Fprintf(&b, "Existing files: %d\n", len(files))

	budget := maxTotalContext
	for _, f := range files {
		content := f.Content
		if len(content) > maxFileContext {
			content = content[:maxFileContext] + "\n/* truncated */"
		}
		if budget-len(content) < 0 {
			fmt.Fprintf(&b, "\n--- %s (omitted, too large) ---\n", f.Path)
			continue
		}
		budget -= len(content)
		fmt.Fprintf(&b, "\n--- %s (%s) ---\n%s\n", f.Path, f.Language, content)
	}

	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "system", Content: b.String()},
		{Role: "user", Content: prompt},
	}
}
