package email

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/novakinetix/mailkit/pkg/email/templates"
	"github.com/novakinetix/mailkit/pkg/sanitizer"
)

// Common field names filled in for every template.
const (
	FieldSiteURL      = "site_url"
	FieldLoginURL     = "login_url"
	FieldDashboardURL = "dashboard_url"
	FieldSupportEmail = "support_email"
	FieldLogoSrc      = "logo_src"
	FieldLogoCID      = "logo_cid"
	FieldCurrentYear  = "current_year"
)

// CommonContext holds the values every template can reference without the
// caller passing them.
type CommonContext struct {
	SiteURL      string
	SupportEmail string
	// Logo is nil when no asset was loaded; logo_src then renders empty.
	Logo *LogoAsset
}

func (c CommonContext) data(now time.Time) Data {
	site := strings.TrimRight(c.SiteURL, "/")
	d := Data{
		FieldCurrentYear: String(strconv.Itoa(now.Year())),
	}
	if site != "" {
		d[FieldSiteURL] = String(site)
		d[FieldLoginURL] = String(site + "/login")
		d[FieldDashboardURL] = String(site + "/dashboard")
	}
	if c.SupportEmail != "" {
		d[FieldSupportEmail] = String(c.SupportEmail)
	}
	if c.Logo != nil {
		d[FieldLogoCID] = String(c.Logo.ContentID)
		d[FieldLogoSrc] = String("cid:" + c.Logo.ContentID)
	}
	return d
}

// Renderer merges caller data with the common context and renders catalog
// templates. It is safe for concurrent use.
type Renderer struct {
	common CommonContext
	now    func() time.Time
}

// NewRenderer creates a Renderer. now defaults to time.Now.
func NewRenderer(common CommonContext, now func() time.Time) *Renderer {
	if now == nil {
		now = time.Now
	}
	return &Renderer{common: common, now: now}
}

// Render checks def's required fields and renders its body.
//
// Lookup precedence is caller data, then the common context, then empty.
// Free-text fields are sanitized before substitution; other values are
// inserted verbatim.
func (r *Renderer) Render(ctx context.Context, def *TemplateDefinition, data Data) (string, error) {
	if missing := def.MissingFields(data); len(missing) > 0 {
		return "", fmt.Errorf("%w: template %q requires %s",
			ErrMissingTemplateData, def.Name, strings.Join(missing, ", "))
	}

	html, err := templates.Render(ctx, def.Body.Component(r.scope(def, data)))
	if err != nil {
		return "", fmt.Errorf("render template %q: %w", def.Name, err)
	}
	return html, nil
}

func (r *Renderer) scope(def *TemplateDefinition, data Data) Scope {
	common := r.common.data(r.now())
	return func(field string) Value {
		if v := data.Get(field); !v.IsAbsent() {
			if v.Kind() == KindString && def.isFreeText(field) {
				return String(sanitizer.Sanitize(v.String()))
			}
			return v
		}
		return common.Get(field)
	}
}
