package email

import "errors"

// Client input errors. The caller can fix these by changing the request.
var (
	ErrInvalidParams       = errors.New("invalid email parameters")
	ErrInvalidRecipient    = errors.New("invalid recipient")
	ErrUnknownTemplate     = errors.New("unknown template")
	ErrMissingTemplateData = errors.New("missing required template data")
	ErrConflictingContent  = errors.New("conflicting content")
	ErrInvalidTemplateData = errors.New("invalid template data")
)

// Transport errors. The request was valid but the handoff failed.
var (
	ErrFailedToSendEmail = errors.New("failed to send email")
	ErrSendTimeout       = errors.New("email send timed out")
)

// Startup errors.
var (
	ErrInvalidConfig   = errors.New("invalid mailer config")
	ErrTemplateSyntax  = errors.New("template syntax error")
	ErrInvalidCatalog  = errors.New("invalid template catalog")
	ErrUnknownProvider = errors.New("unknown mail provider")
)

var clientErrors = []error{
	ErrInvalidParams,
	ErrInvalidRecipient,
	ErrUnknownTemplate,
	ErrMissingTemplateData,
	ErrConflictingContent,
	ErrInvalidTemplateData,
}

// IsClientError reports whether err was caused by invalid request input.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsTransportError reports whether err was raised while handing the message
// to the transport.
func IsTransportError(err error) bool {
	return errors.Is(err, ErrFailedToSendEmail) || errors.Is(err, ErrSendTimeout)
}
