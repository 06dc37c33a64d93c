package email

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/novakinetix/mailkit/pkg/email/templates"
)

// ManifestFile is the catalog index looked up at the root of a template FS.
const ManifestFile = "catalog.yaml"

// TemplateDefinition is a named, parsed template with its field contract.
type TemplateDefinition struct {
	Name string
	// Subject is the default subject used by typed event helpers.
	Subject string
	// Required fields must be present and non-blank in caller data.
	Required []string
	// FreeText fields are sanitized before substitution.
	FreeText []string
	Body     *Template
}

// MissingFields returns the required fields that are absent or blank in data,
// in declaration order.
func (d *TemplateDefinition) MissingFields(data Data) []string {
	var missing []string
	for _, f := range d.Required {
		if data.Get(f).Blank() {
			missing = append(missing, f)
		}
	}
	return missing
}

func (d *TemplateDefinition) isFreeText(field string) bool {
	for _, f := range d.FreeText {
		if f == field {
			return true
		}
	}
	return false
}

// Catalog is the read-only set of known templates. It is safe for concurrent use.
type Catalog struct {
	defs  map[string]*TemplateDefinition
	names []string
}

type manifest struct {
	Templates []manifestEntry `yaml:"templates"`
}

type manifestEntry struct {
	Name     string   `yaml:"name"`
	File     string   `yaml:"file"`
	Subject  string   `yaml:"subject"`
	Required []string `yaml:"required"`
	FreeText []string `yaml:"free_text"`
}

// NewCatalog loads ManifestFile from fsys and parses every template it lists.
// Any malformed entry or template fails the whole catalog.
func NewCatalog(fsys fs.FS) (*Catalog, error) {
	raw, err := fs.ReadFile(fsys, ManifestFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	var m manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, ManifestFile, err)
	}
	if len(m.Templates) == 0 {
		return nil, fmt.Errorf("%w: %s lists no templates", ErrInvalidCatalog, ManifestFile)
	}

	c := &Catalog{defs: make(map[string]*TemplateDefinition, len(m.Templates))}
	for _, e := range m.Templates {
		def, err := loadDefinition(fsys, e)
		if err != nil {
			return nil, err
		}
		if _, dup := c.defs[def.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate template %q", ErrInvalidCatalog, def.Name)
		}
		c.defs[def.Name] = def
		c.names = append(c.names, def.Name)
	}
	sort.Strings(c.names)

	return c, nil
}

// MustNewCatalog is like NewCatalog but panics on error.
func MustNewCatalog(fsys fs.FS) *Catalog {
	c, err := NewCatalog(fsys)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultCatalog loads the templates embedded in the templates package.
func DefaultCatalog() (*Catalog, error) {
	return NewCatalog(templates.FS)
}

func loadDefinition(fsys fs.FS, e manifestEntry) (*TemplateDefinition, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: template entry without name", ErrInvalidCatalog)
	}
	file := e.File
	if file == "" {
		file = name + ".html"
	}

	src, err := fs.ReadFile(fsys, path.Clean(file))
	if err != nil {
		return nil, fmt.Errorf("%w: template %q: %v", ErrInvalidCatalog, name, err)
	}

	body, err := ParseTemplate(name, string(src))
	if err != nil {
		return nil, err
	}

	for _, f := range append(append([]string(nil), e.Required...), e.FreeText...) {
		if !identRegex.MatchString(f) {
			return nil, fmt.Errorf("%w: template %q: invalid field name %q", ErrInvalidCatalog, name, f)
		}
	}

	return &TemplateDefinition{
		Name:     name,
		Subject:  e.Subject,
		Required: append([]string(nil), e.Required...),
		FreeText: append([]string(nil), e.FreeText...),
		Body:     body,
	}, nil
}

// Lookup returns the definition registered under name. Unknown names are a
// client error wrapping ErrUnknownTemplate.
func (c *Catalog) Lookup(name string) (*TemplateDefinition, error) {
	def, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return def, nil
}

// Names returns the registered template names, sorted.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// All returns every definition, sorted by name.
func (c *Catalog) All() []*TemplateDefinition {
	out := make([]*TemplateDefinition, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.defs[n])
	}
	return out
}
