// Package templates holds the embedded transactional email bodies, the
// catalog.yaml manifest describing their field contracts, and the helper that
// renders a templ.Component into a string.
//
// Bodies use inline styles only. Many mail clients strip <style> blocks.
package templates

import "embed"

// FS contains catalog.yaml and every template body it references.
//
//go:embed catalog.yaml *.html
var FS embed.FS
