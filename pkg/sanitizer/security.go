package sanitizer

// EscapeScriptOpen turns every case-insensitive "<script" into "&lt;script",
// keeping the original casing of the tag name.
func EscapeScriptOpen(s string) string {
	return scriptOpenRegex.ReplaceAllStringFunc(s, func(m string) string {
		return "&lt;" + m[1:]
	})
}

// RemoveJavaScriptScheme deletes every case-insensitive "javascript:".
func RemoveJavaScriptScheme(s string) string {
	return javascriptSchemeRegex.ReplaceAllString(s, "")
}

// Sanitize neutralises script openers and javascript: schemes in a free-text
// value. Nothing else is changed.
//
// Removing a scheme can splice a new one (or a new "<script") together out of
// the surrounding text. Sanitize scans once and checks the tail of its output
// after every byte, so spliced matches are caught as they form and the result
// contains neither pattern. Sanitizing the result again returns it unchanged.
func Sanitize(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, s[i])
		switch {
		case hasSuffixFold(out, javascriptScheme):
			out = out[:len(out)-len(javascriptScheme)]
		case hasSuffixFold(out, scriptOpen):
			at := len(out) - len(scriptOpen)
			name := string(out[at+1:])
			out = append(append(out[:at], "&lt;"...), name...)
		}
	}
	return string(out)
}

const (
	javascriptScheme = "javascript:"
	scriptOpen       = "<script"
)

// hasSuffixFold reports whether b ends with the lowercase ASCII word,
// ignoring ASCII case.
func hasSuffixFold(b []byte, word string) bool {
	if len(b) < len(word) {
		return false
	}
	tail := b[len(b)-len(word):]
	for i := 0; i < len(word); i++ {
		c := tail[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != word[i] {
			return false
		}
	}
	return true
}

// ValidEmail reports whether s is a syntactically valid mailbox address.
// Deliverability is not checked.
func ValidEmail(s string) bool {
	return emailAddressRegex.MatchString(s)
}
