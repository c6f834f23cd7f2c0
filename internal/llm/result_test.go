package llm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResultPlainJSON(t *testing.T) {
	res := ParseResult(`{"explanation":"built a counter","files":[{"path":"src/App.js","content":"app","language":"javascript"}]}`)

	require.Equal(t, "built a counter", res.Explanation)
	require.Len(t, res.Files, 1)
	require.Equal(t, "src/App.js", res.Files[0].Path)
	require.NotNil(t, res.Files[0].Content)
	require.Equal(t, "app", *res.Files[0].Content)
}

func TestParseResultFencedJSON(t *testing.T) {
	raw := "Here you go:\n```json\n{\"explanation\":\"ok\",\"files\":[{\"path\":\"a.js\",\"content\":\"x\"}]}\n```\nEnjoy!"
	res := ParseResult(raw)

	require.Equal(t, "ok", res.Explanation)
	require.Len(t, res.Files, 1)
}

func TestParseResultJSONEmbeddedInProse(t *testing.T) {
	raw := `Sure! {"explanation":"inline","files":[]} hope that helps`
	res := ParseResult(raw)

	require.Equal(t, "inline", res.Explanation)
	require.Empty(t, res.Files)
}

func TestParseResultMissingContentFieldSurvives(t *testing.T) {
	res := ParseResult(`{"explanation":"partial","files":[{"path":"a.js","content":"x"},{"path":"b.js"}]}`)

	require.Len(t, res.Files, 2)
	require.NotNil(t, res.Files[0].Content)
	require.Nil(t, res.Files[1].Content)
}

func TestParseResultNonJSONFallsBackToExplanation(t *testing.T) {
	res := ParseResult("I could not generate anything useful this time.")

	require.Empty(t, res.Files)
	require.Equal(t, "I could not generate anything useful this time.", res.Explanation)
}

func TestParseResultFillsDefaultExplanation(t *testing.T) {
	res := ParseResult(`{"files":[{"path":"a.js","content":"x"}]}`)

	require.NotEmpty(t, res.Explanation)
	require.Len(t, res.Files, 1)
}
