package email_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/novakinetix/mailkit/pkg/email"
)

func TestToPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Hello World", "Hello World"},
		{"paragraphs", "<p>Hello</p><p>World</p>", "Hello World"},
		{"inline tags join", "<b>Bold</b>er text", "Bolder text"},
		{"entities", "Tom &amp; Jerry&nbsp;&lt;3 &quot;hi&quot;", `Tom & Jerry <3 "hi"`},
		{"whitespace", "  a\n\n\t b  ", "a b"},
		{"head and style text kept", "<html><head><title>Welcome</title><style>p{color:red}</style></head><body><p>Body</p></body></html>", "Welcome p{color:red} Body"},
		{"script text kept", "<script>alert(1)</script>", "alert(1)"},
		{"nested entity decoding", "&amp;amp;lt;b&amp;gt;x", "x"},
		{"tag split by inline tag", "&a<b>mp;", "&"},
		{"entity inside attribute", `<a href="/x?a=1&amp;b=2">Link</a>`, "Link"},
		{"encoded markup is stripped", "&lt;b&gt;x&lt;/b&gt;", "x"},
		{"unclosed tag", "<p>open <b", "open <b"},
		{"angle brackets read as a tag", "1 < 2 and 3 > 2", "1 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, email.ToPlainText(tt.in))
		})
	}
}

func TestToPlainText_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Hello World",
		"<div><h1>Title</h1><p>Body &amp; more</p></div>",
		"&amp;lt;b&amp;gt;nested&amp;lt;/b&amp;gt;",
		"<<<>>>",
		"<p>unterminated",
		"&nbsp;&nbsp;",
		"<style>p{color:red}</style><p>Body</p>",
		"a &amp;lt; b &gt; c",
		"&lt;&lt;&gt;&gt;",
	}

	for _, in := range inputs {
		once := email.ToPlainText(in)
		assert.Equal(t, once, email.ToPlainText(once), in)
	}
}

func TestToPlainText_AdversarialInputIsLinear(t *testing.T) {
	t.Parallel()

	const n = 250_000
	input := "&" + strings.Repeat("amp;", n) + "lt;b&gt;x"

	start := time.Now()
	got := email.ToPlainText(input)
	elapsed := time.Since(start)

	assert.Equal(t, "x", got)
	assert.Less(t, elapsed, time.Second)
}

func TestToPlainText_LeavesPlaceholdersAlone(t *testing.T) {
	t.Parallel()

	out := email.ToPlainText(`<h2>Hello {{ full_name }},</h2><a href="x">Log In</a>`)
	assert.Equal(t, "Hello {{ full_name }}, Log In", out)
}
