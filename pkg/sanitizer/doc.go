// Package sanitizer provides helpers for cleaning user supplied values before
// they are placed into outbound email.
//
// The functions are grouped into two areas:
//
//   - Strings: trimming, whitespace normalisation and single-line folding for
//     values that end up in message headers.
//
//   - Security: neutralising script openers and javascript: URL schemes in
//     free-text fields, plus syntactic address validation.
//
// All helpers are stateless and safe for concurrent use. Apply and Compose
// build pipelines out of the individual transforms:
//
//	clean := sanitizer.Compose(
//	    sanitizer.Trim,
//	    sanitizer.SingleLine,
//	)
//
//	subject := clean("  Welcome\r\n aboard ") // "Welcome aboard"
//
// # Usage
//
//	import "github.com/novakinetix/mailkit/pkg/sanitizer"
//
// Free-text values coming from callers:
//
//	safe := sanitizer.Sanitize(`<script>alert(1)</script> click javascript:void(0)`)
//	// safe == "&lt;script>alert(1)</script> click void(0)"
//
// Sanitize only escapes the script opener and removes the javascript: scheme.
// It is not a general purpose HTML escaper and leaves every other character
// untouched. Its output is a fixpoint: sanitizing it again returns the same
// string.
//
// Address validation is syntactic only:
//
//	sanitizer.ValidEmail("jane.doe@example.org") // true
//	sanitizer.ValidEmail("jane@localhost")       // false
//
// # Error handling
//
// None of the helpers returns an error. They always fall back to a safe
// result, usually the original input.
package sanitizer
