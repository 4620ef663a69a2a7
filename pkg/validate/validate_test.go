package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type commentForm struct {
	AuthorName string `json:"author_name" binding:"required,max=100"`
	Website    string `json:"website" binding:"omitempty,httpurl"`
	Locale     string `json:"locale" binding:"required,locale"`
}

func TestIsHTTPURL(t *testing.T) {
	cases := map[string]bool{
		"http://example.com":  true,
		"https://example.com": true,
		"ftp://example.com":   false,
		"example.com":         false,
		"https://":            false,
		"":                    false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsHTTPURL(in), in)
	}
}

func TestStructFieldErrors(t *testing.T) {
	fields := Struct(commentForm{Website: "javascript:alert(1)", Locale: "fr"})
	assert.Equal(t, "不能为空", fields["author_name"])
	assert.Equal(t, "必须以http://或https://开头", fields["website"])
	assert.Equal(t, "不支持的语言", fields["locale"])

	assert.Nil(t, Struct(commentForm{AuthorName: "reader", Locale: "ja"}))
}
