package sanitizer

import "regexp"

// Pre-compiled regular expressions for performance
var (
	// Whitespace normalization
	whitespaceRegex = regexp.MustCompile(`\s+`)

	// Script injection
	scriptOpenRegex       = regexp.MustCompile(`(?i)<script`)
	javascriptSchemeRegex = regexp.MustCompile(`(?i)javascript:`)

	// Mailbox syntax: local part, @, dotted domain with an alphabetic TLD
	emailAddressRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)
