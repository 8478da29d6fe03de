package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("hello", 100)
	assert.Equal(t, []string{"hello"}, chunks)
}

func TestSplit_EmptyText(t *testing.T) {
	assert.Equal(t, []string{""}, Split("", 100))
}

func TestSplit_RespectsMaxLength(t *testing.T) {
	text := strings.Repeat("word ", 500)
	chunks := Split(text, 200)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 200+8, "chunk %d", i) // +8 covers a reopened fence
	}
}

func TestSplit_PrefersBlankLines(t *testing.T) {
	para1 := strings.Repeat("a", 120)
	para2 := strings.Repeat("b", 120)
	chunks := Split(para1+"\n\n"+para2, 200)
	require.Len(t, chunks, 2)
	assert.Equal(t, para1, chunks[0])
	assert.Equal(t, para2, chunks[1])
}

func TestSplit_ReopensCodeFences(t *testing.T) {
	code := "```go\n" + strings.Repeat("fmt.Println(1)\n", 40) + "```\n"
	chunks := Split(code, 200)
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.Equal(t, 0, strings.Count(chunk, "```")%2,
			"chunk %d has an unclosed code block", i)
	}
}

func TestSplit_NoNaturalBoundary(t *testing.T) {
	text := strings.Repeat("x", 450)
	chunks := Split(text, 200)
	require.Len(t, chunks, 3)
	assert.Equal(t, strings.Repeat("x", 200), chunks[0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10, "..."))
	assert.Equal(t, "abc401c...", Truncate("abc401c-and-more", 10, "..."))
	assert.Len(t, Truncate(strings.Repeat("z", 100), 10, "..."), 10)
}

func TestCodeBlock(t *testing.T) {
	assert.Equal(t, "```go\nx := 1\n```", CodeBlock("x := 1", "go"))
	assert.Equal(t, "```\nplain\n```", CodeBlock("plain", ""))
}
