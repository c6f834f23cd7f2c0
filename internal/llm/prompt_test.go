package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/react-studio/engine/internal/workspace"
)

func TestBuildMessagesIncludesContextAndPrompt(t *testing.T) {
	files := []workspace.File{
		{Path: "src/App.js", Content: "const a = 1;", Language: "javascript"},
		{Path: "src/index.css", Content: ".a{}", Language: "css"},
	}

	msgs := BuildMessages("react-app", files, "add a button")

	require.Len(t, msgs, 3)
	require.Equal(t, "system", msgs[0].Role)
	require.Equal(t, "system", msgs[1].Role)
	require.Equal(t, "user", msgs[2].Role)

	ctx := msgs[1].Content
	require.Contains(t, ctx, "Project type: react-app")
	require.Contains(t, ctx, "src/App.js")
	require.Contains(t, ctx, "const a = 1;")
	require.Contains(t, ctx, "src/index.css")
	require.Equal(t, "add a button", msgs[2].Content)
}

func TestBuildMessagesTruncatesLargeFiles(t *testing.T) {
	big := strings.Repeat("x", maxFileContext+100)
	msgs := BuildMessages("react-app", []workspace.File{{Path: "big.js", Content: big}}, "p")

	require.Contains(t, msgs[1].Content, "truncated")
	require.Less(t, len(msgs[1].Content), len(big)+2_000)
}
