package sanitizer_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/novakinetix/mailkit/pkg/sanitizer"
)

func TestEscapeScriptOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "escapes lowercase opener",
			input:    "<script>alert(1)</script>",
			expected: "&lt;script>alert(1)</script>",
		},
		{
			name:     "escapes mixed case and keeps casing",
			input:    "<ScRiPt src=x>",
			expected: "&lt;ScRiPt src=x>",
		},
		{
			name:     "escapes every occurrence",
			input:    "a<script>b<SCRIPT>c",
			expected: "a&lt;script>b&lt;SCRIPT>c",
		},
		{
			name:     "leaves other tags alone",
			input:    "<b>bold</b> <scripture>",
			expected: "<b>bold</b> &lt;scripture>",
		},
		{
			name:     "handles empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.EscapeScriptOpen(tt.input))
		})
	}
}

func TestRemoveJavaScriptScheme(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "void(0)", sanitizer.RemoveJavaScriptScheme("javascript:void(0)"))
	assert.Equal(t, "go here", sanitizer.RemoveJavaScriptScheme("go JavaScript:here"))
	assert.Equal(t, "javascript", sanitizer.RemoveJavaScriptScheme("javascript"))
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "Tutoring on Monday & Tuesday <b>at 5</b>",
			expected: "Tutoring on Monday & Tuesday <b>at 5</b>",
		},
		{
			name:     "script and scheme together",
			input:    `<script>x</script><a href="javascript:alert(1)">`,
			expected: `&lt;script>x</script><a href="alert(1)">`,
		},
		{
			name:     "scheme spliced from removal",
			input:    "javajavascript:script:alert(1)",
			expected: "alert(1)",
		},
		{
			name:     "script opener spliced from removal",
			input:    "<javascript:script>",
			expected: "&lt;script>",
		},
		{
			name:     "deeply nested scheme",
			input:    "javajavajavascript:script:script:x",
			expected: "x",
		},
		{
			name:     "mixed case nesting",
			input:    "JAVAjavaSCRIPT:Script:void(0)",
			expected: "void(0)",
		},
		{
			name:     "escaped opener followed by scheme",
			input:    "<ScRiPtjavascript:>",
			expected: "&lt;ScRiPt>",
		},
		{
			name:     "non-ascii text kept",
			input:    "Grüße javascript:ok <script>",
			expected: "Grüße ok &lt;script>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := sanitizer.Sanitize(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, sanitizer.Sanitize(got), "sanitize must be idempotent")
		})
	}
}

func TestSanitize_NestedInputIsLinear(t *testing.T) {
	t.Parallel()

	const n = 100_000
	input := strings.Repeat("java", n) + "javascript:" + strings.Repeat("script:", n) + "done"

	start := time.Now()
	got := sanitizer.Sanitize(input)
	elapsed := time.Since(start)

	assert.Equal(t, "done", got)
	assert.Less(t, elapsed, time.Second)
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "simple", input: "user@example.com", want: true},
		{name: "plus tag and subdomain", input: "test.user+tag@sub.example.com", want: true},
		{name: "percent and dash", input: "a%b-c@my-host.io", want: true},
		{name: "missing domain", input: "user@", want: false},
		{name: "missing local part", input: "@example.com", want: false},
		{name: "no tld", input: "user@localhost", want: false},
		{name: "numeric tld", input: "user@example.123", want: false},
		{name: "whitespace", input: " user@example.com", want: false},
		{name: "display name", input: "User <user@example.com>", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.ValidEmail(tt.input))
		})
	}
}
