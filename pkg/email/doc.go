// Package email is a templated transactional email dispatch engine.
//
// A Service takes a Request (recipients, subject and either a catalog
// template name with data or a raw HTML body), validates it, renders the
// HTML, derives a plain-text alternative, embeds the brand logo as an inline
// image and hands the resulting Message to a Sender. Every call to Send
// appends exactly one SendRecord to the History, success or failure.
//
// # Templates
//
// Templates live in a Catalog loaded from a manifest (catalog.yaml) and a set
// of HTML bodies. The body language is deliberately small:
//
//	{{ field }}                      substitution
//	{% if field %}...{% endif %}     conditional block
//	{% if field %}...{% else %}...{% endif %}
//
// Templates are parsed once at startup and rendered through templ, so a
// syntax error fails the process before it serves traffic. Fields listed
// under free_text in the manifest are sanitized before substitution; all
// other values are inserted verbatim.
//
// The service adds common context to every render: site_url, login_url,
// dashboard_url, support_email, logo_src, logo_cid and current_year. Request
// data wins over common context.
//
// # Transports
//
// The Sender interface has four implementations:
//   - SMTPSender speaks SMTP with STARTTLS, implicit TLS or plain connections
//   - PostmarkSender uses Postmark's transactional API
//   - SESSender submits raw MIME through Amazon SES v2
//   - DevSender writes messages to disk for local development
//
// NewSenderFromConfig selects one based on Config.Provider.
//
// # Usage
//
//	catalog, err := email.DefaultCatalog()
//	if err != nil {
//	    return err
//	}
//	sender, err := email.NewSenderFromConfig(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	svc := email.MustNewService(catalog, sender, cfg.SenderEmail,
//	    email.WithSiteURL(cfg.SiteURL),
//	    email.WithSendTimeout(cfg.SendTimeout),
//	)
//
//	res := svc.Send(ctx, email.Request{
//	    To:       []string{"ada@example.com"},
//	    Subject:  "Welcome!",
//	    Template: email.TemplateWelcome,
//	    Data:     email.Data{"full_name": email.String("Ada")},
//	})
//	if !res.Sent() {
//	    // res.Err wraps one of the sentinel errors
//	}
//
// Typed events build the request for you:
//
//	res := svc.SendEvent(ctx, email.WelcomeEmail{Email: "ada@example.com", FullName: "Ada"})
//
// # Error Handling
//
// Client errors (IsClientError) are caused by the request: ErrInvalidParams,
// ErrInvalidRecipient, ErrUnknownTemplate, ErrMissingTemplateData,
// ErrConflictingContent. Transport errors (IsTransportError) are
// ErrFailedToSendEmail and ErrSendTimeout. Send never panics, even if the
// Sender does.
package email
