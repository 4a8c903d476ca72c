package text_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strawberry-py/strawberry-go/pkg/text"
)

func TestSanitise(t *testing.T) {
	t.Run("EscapesMarkdownAndMentions", func(t *testing.T) {
		got := text.Sanitise("**bold** @everyone")
		assert.Equal(t, "\\*\\*bold\\*\\* @\u200beveryone", got)
	})

	t.Run("KeepsMarkdownWhenNotEscaping", func(t *testing.T) {
		got := text.SanitiseWith("**bold**", text.SanitiseOptions{})
		assert.Equal(t, "**bold**", got)
	})

	t.Run("Limit", func(t *testing.T) {
		got := text.SanitiseWith("abcdef", text.SanitiseOptions{Limit: 3})
		assert.Equal(t, "abc", got)
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		got := text.Sanitise(strings.Repeat("a", 2500))
		assert.Len(t, got, 2000)
	})
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"abc", "def", "g"}, text.Split("abcdefg", 3))
	assert.Empty(t, text.Split("", 3))

	// multi-byte characters are counted as one
	assert.Equal(t, []string{"čš", "ž"}, text.Split("čšž", 2))
}

func TestSplitLines(t *testing.T) {
	lines := []string{"aaaa", "bbbb", "cccc"}

	pages := text.SplitLines(lines, 8)
	require.Len(t, pages, 2)
	assert.Equal(t, "aaaa\nbbbb", pages[0])
	assert.Equal(t, "cccc", pages[1])

	assert.Equal(t, []string{"aaaa\nbbbb\ncccc"}, text.SplitLines(lines, 100))
}

func TestCreateTable(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		pages := text.CreateTable(
			[]string{"name", "limit"},
			[][]string{{"general", "3"}, {"x", "10"}},
			0, false,
		)

		require.Len(t, pages, 1)
		assert.Equal(t, "name     limit\ngeneral  3\nx        10\n", pages[0])
	})

	t.Run("MissingCells", func(t *testing.T) {
		pages := text.CreateTable([]string{"a", "b"}, [][]string{{"1"}}, 0, false)

		require.Len(t, pages, 1)
		assert.Equal(t, "a  b\n1\n", pages[0])
	})

	t.Run("Rich", func(t *testing.T) {
		pages := text.CreateTable([]string{"a"}, [][]string{{"1"}, {"2"}}, 0, true)

		require.Len(t, pages, 1)
		assert.True(t, strings.HasPrefix(pages[0], "ansi\n\u001b[1;34ma\u001b[0m\n"))
		assert.Contains(t, pages[0], "\n1\n")
		assert.Contains(t, pages[0], "\u001b[36m2\u001b[0m\n")
	})

	t.Run("Paging", func(t *testing.T) {
		rows := make([][]string, 0, 10)
		for i := 0; i < 10; i++ {
			rows = append(rows, []string{"0123456789"})
		}

		pages := text.CreateTable([]string{"value"}, rows, 30, false)
		require.Greater(t, len(pages), 1)
		for _, page := range pages {
			assert.LessOrEqual(t, len(page), 30)
		}
	})
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "short", text.Shorten("short", 10))
	assert.Equal(t, "abcde", text.Shorten("abcdefgh", 5))

	got := text.Shorten("```go\nfmt.Println()\n```", 12)
	assert.Len(t, got, 12)
	assert.True(t, strings.HasSuffix(got, "```"))
	assert.Equal(t, 0, strings.Count(got, "```")%2)
}
