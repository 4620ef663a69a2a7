package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBasics(t *testing.T) {
	html, err := Render("# Title\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Title</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderEmpty(t *testing.T) {
	html, err := Render("   \n")
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestRenderStripsScripts(t *testing.T) {
	html, err := Render("hello\n\n<script>alert(1)</script>\n\n<a href=\"javascript:alert(1)\">x</a>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script")
	assert.NotContains(t, html, "javascript:")
}

func TestRenderKeepsCodeLanguage(t *testing.T) {
	html, err := Render("```go\nfmt.Println(1)\n```")
	require.NoError(t, err)
	assert.Contains(t, html, `class="language-go"`)
}

func TestExcerpt(t *testing.T) {
	text, err := Excerpt("## 見出し\n\n本文です。**強調**もあります。", 0)
	require.NoError(t, err)
	assert.Equal(t, "見出し 本文です。強調もあります。", text)

	short, err := Excerpt("abcdefghij", 4)
	require.NoError(t, err)
	assert.Equal(t, "abcd...", short)
}
