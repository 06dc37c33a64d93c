package email

import "strings"

// inlineTags are removed without leaving a separator, so "<b>Bold</b>er"
// stays one word. Every other tag becomes a space.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true, "cite": true,
	"code": true, "em": true, "font": true, "i": true, "kbd": true, "mark": true,
	"q": true, "s": true, "small": true, "span": true, "strike": true,
	"strong": true, "sub": true, "sup": true, "u": true, "var": true,
}

var entities = []struct {
	ref  string
	char byte
}{
	{"&nbsp;", ' '},
	{"&amp;", '&'},
	{"&lt;", '<'},
	{"&gt;", '>'},
	{"&quot;", '"'},
}

// ToPlainText derives a plain-text fallback from an HTML body.
//
// Tags are removed and their text content kept; &nbsp; &amp; &lt; &gt; and
// &quot; are decoded; whitespace runs collapse to one space and the result is
// trimmed. Decoded characters are fed back through the same rules, so
// "&amp;lt;b&amp;gt;" loses its tag and the output never contains a tag, a
// known entity or a whitespace run. That makes ToPlainText idempotent. The
// input is scanned once.
func ToPlainText(html string) string {
	w := plainTextWriter{buf: make([]byte, 0, len(html)), openAt: -1}
	for i := 0; i < len(html); i++ {
		w.writeByte(html[i])
	}
	return strings.TrimRight(string(w.buf), " ")
}

type plainTextWriter struct {
	buf []byte
	// openAt is the index of the first '<' not yet closed by a '>', or -1.
	openAt int
}

func (w *plainTextWriter) writeByte(c byte) {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		w.space()
	case '<':
		if w.openAt < 0 {
			w.openAt = len(w.buf)
		}
		w.buf = append(w.buf, c)
	case '>':
		if w.openAt < 0 {
			w.buf = append(w.buf, c)
			return
		}
		name := tagName(w.buf[w.openAt:])
		w.buf = w.buf[:w.openAt]
		w.openAt = -1
		if !inlineTags[name] {
			w.space()
		}
	case ';':
		w.buf = append(w.buf, c)
		for _, e := range entities {
			if hasSuffix(w.buf, e.ref) {
				w.buf = w.buf[:len(w.buf)-len(e.ref)]
				w.writeByte(e.char)
				return
			}
		}
	default:
		w.buf = append(w.buf, c)
	}
}

func (w *plainTextWriter) space() {
	if n := len(w.buf); n == 0 || w.buf[n-1] == ' ' {
		return
	}
	w.buf = append(w.buf, ' ')
}

func hasSuffix(b []byte, s string) bool {
	return len(b) >= len(s) && string(b[len(b)-len(s):]) == s
}

// tagName returns the lowercased element name of an open tag body such as
// "</ span class=x", or "" when there is none.
func tagName(tag []byte) string {
	i := 1
	for i < len(tag) && (tag[i] == ' ' || tag[i] == '/') {
		i++
	}
	start := i
	for i < len(tag) && isTagNameByte(tag[i], i == start) {
		i++
	}
	return strings.ToLower(string(tag[start:i]))
}

func isTagNameByte(c byte, first bool) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	}
	return false
}
