package email

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// Template is a parsed email body. The syntax is intentionally closed:
//
//	{{ field }}                         substitutes a value
//	{% if field %} ... {% endif %}      keeps the block when field is truthy
//	{% if field %} ... {% else %} ... {% endif %}
//
// Blocks nest. There are no expressions, filters or loops.
type Template struct {
	name   string
	nodes  []node
	fields []string
}

// Scope resolves a field name to a value while rendering.
type Scope func(field string) Value

type node interface {
	render(w io.Writer, scope Scope) error
}

type textNode string

func (n textNode) render(w io.Writer, _ Scope) error {
	_, err := io.WriteString(w, string(n))
	return err
}

type placeholderNode struct {
	field string
}

func (n placeholderNode) render(w io.Writer, scope Scope) error {
	_, err := io.WriteString(w, scope(n.field).String())
	return err
}

type conditionalNode struct {
	field string
	then  []node
	els   []node
}

func (n conditionalNode) render(w io.Writer, scope Scope) error {
	if scope(n.field).Truthy() {
		return renderNodes(w, n.then, scope)
	}
	return renderNodes(w, n.els, scope)
}

func renderNodes(w io.Writer, nodes []node, scope Scope) error {
	for _, n := range nodes {
		if err := n.render(w, scope); err != nil {
			return err
		}
	}
	return nil
}

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseTemplate parses src into a Template. Errors wrap ErrTemplateSyntax and
// carry the template name and line.
func ParseTemplate(name, src string) (*Template, error) {
	p := &parser{name: name, src: src, fields: make(map[string]struct{})}
	nodes, term, err := p.parseList()
	if err != nil {
		return nil, err
	}
	if term != "" {
		return nil, p.errorf(p.termPos, "unexpected {%% %s %%}", term)
	}

	fields := make([]string, 0, len(p.fields))
	for f := range p.fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	return &Template{name: name, nodes: nodes, fields: fields}, nil
}

// MustParseTemplate is like ParseTemplate but panics on error.
func MustParseTemplate(name, src string) *Template {
	t, err := ParseTemplate(name, src)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) Name() string { return t.name }

// Fields returns every field referenced by the template, sorted.
func (t *Template) Fields() []string {
	return append([]string(nil), t.fields...)
}

// Execute writes the rendered template to w.
func (t *Template) Execute(w io.Writer, scope Scope) error {
	return renderNodes(w, t.nodes, scope)
}

// Component adapts the template to a templ.Component bound to scope.
func (t *Template) Component(scope Scope) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.Execute(w, scope)
	})
}

type parser struct {
	name    string
	src     string
	pos     int
	termPos int
	fields  map[string]struct{}
}

// parseList parses nodes until the end of input or a closing tag. It returns
// the closing tag keyword ("else" or "endif"), or "" at end of input.
func (p *parser) parseList() ([]node, string, error) {
	var nodes []node

	for p.pos < len(p.src) {
		rest := p.src[p.pos:]
		i := nextDelim(rest)
		if i < 0 {
			nodes = append(nodes, textNode(rest))
			p.pos = len(p.src)
			break
		}
		if i > 0 {
			nodes = append(nodes, textNode(rest[:i]))
			p.pos += i
			rest = rest[i:]
		}

		start := p.pos
		switch rest[:2] {
		case "{{":
			end := strings.Index(rest, "}}")
			if end < 0 {
				return nil, "", p.errorf(start, "unclosed {{")
			}
			field := strings.TrimSpace(rest[2:end])
			if !identRegex.MatchString(field) {
				return nil, "", p.errorf(start, "invalid placeholder %q", field)
			}
			p.fields[field] = struct{}{}
			nodes = append(nodes, placeholderNode{field: field})
			p.pos += end + 2

		case "{%":
			end := strings.Index(rest, "%}")
			if end < 0 {
				return nil, "", p.errorf(start, "unclosed {%%")
			}
			words := strings.Fields(rest[2:end])
			p.pos += end + 2

			switch {
			case len(words) == 2 && words[0] == "if":
				cond, err := p.parseConditional(start, words[1])
				if err != nil {
					return nil, "", err
				}
				nodes = append(nodes, cond)
			case len(words) == 1 && (words[0] == "else" || words[0] == "endif"):
				p.termPos = start
				return nodes, words[0], nil
			default:
				return nil, "", p.errorf(start, "unsupported tag {%% %s %%}", strings.Join(words, " "))
			}
		}
	}

	return nodes, "", nil
}

func (p *parser) parseConditional(start int, field string) (node, error) {
	if !identRegex.MatchString(field) {
		return nil, p.errorf(start, "invalid condition %q", field)
	}
	p.fields[field] = struct{}{}

	then, term, err := p.parseList()
	if err != nil {
		return nil, err
	}

	var els []node
	if term == "else" {
		els, term, err = p.parseList()
		if err != nil {
			return nil, err
		}
		if term == "else" {
			return nil, p.errorf(p.termPos, "duplicate {%% else %%}")
		}
	}
	if term != "endif" {
		return nil, p.errorf(start, "{%% if %s %%} is never closed", field)
	}

	return conditionalNode{field: field, then: then, els: els}, nil
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	line := strings.Count(p.src[:pos], "\n") + 1
	return fmt.Errorf("%w: %s:%d: %s", ErrTemplateSyntax, p.name, line, fmt.Sprintf(format, args...))
}

// nextDelim returns the index of the next "{{" or "{%", or -1.
func nextDelim(s string) int {
	a := strings.Index(s, "{{")
	b := strings.Index(s, "{%")
	switch {
	case a < 0:
		return b
	case b < 0:
		return a
	case a < b:
		return a
	default:
		return b
	}
}
