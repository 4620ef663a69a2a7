package markdown

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday"
)

const htmlFlags = blackfriday.HTML_USE_XHTML |
	blackfriday.HTML_USE_SMARTYPANTS |
	blackfriday.HTML_SMARTYPANTS_FRACTIONS |
	blackfriday.HTML_SMARTYPANTS_DASHES |
	blackfriday.HTML_SMARTYPANTS_LATEX_DASHES |
	blackfriday.HTML_HREF_TARGET_BLANK

const extensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
	blackfriday.EXTENSION_TABLES |
	blackfriday.EXTENSION_FENCED_CODE |
	blackfriday.EXTENSION_AUTOLINK |
	blackfriday.EXTENSION_STRIKETHROUGH |
	blackfriday.EXTENSION_SPACE_HEADERS |
	blackfriday.EXTENSION_HEADER_IDS |
	blackfriday.EXTENSION_BACKSLASH_LINE_BREAK |
	blackfriday.EXTENSION_DEFINITION_LISTS |
	blackfriday.EXTENSION_FOOTNOTES

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// 保留代码块语言标记，前端据此高亮
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#-]+$`)).OnElements("code")
	p.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// Render 将 Markdown 渲染为经过过滤的 HTML，空内容返回空字符串
func Render(content string) (html string, err error) {
	if strings.TrimSpace(content) == "" {
		return "", nil
	}
	defer func() {
		if r := recover(); r != nil {
			html, err = "", fmt.Errorf("markdown渲染失败: %v", r)
		}
	}()

	renderer := blackfriday.HtmlRenderer(htmlFlags, "", "")
	unsafe := blackfriday.Markdown([]byte(content), renderer, extensions)
	return string(policy.SanitizeBytes(unsafe)), nil
}

// Excerpt 提取纯文本摘要，超过 limit 个字符时截断并追加省略号
func Excerpt(content string, limit int) (string, error) {
	html, err := Render(content)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("解析HTML失败: %w", err)
	}
	doc.Find("pre").Remove()

	text := strings.Join(strings.Fields(doc.Text()), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, nil
	}
	runes := []rune(text)
	return string(runes[:limit]) + "...", nil
}
