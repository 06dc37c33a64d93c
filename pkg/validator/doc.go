// Package validator provides composable validation rules for request input.
//
// A Rule pairs a deferred Check with the ValidationError reported when the
// check fails. Apply evaluates every rule and aggregates the failures into a
// ValidationErrors slice that satisfies the error interface, so all field
// problems surface in a single error return.
//
// # Usage
//
//	rules := []validator.Rule{
//	    validator.RequiredSlice("to", req.To),
//	    validator.Required("subject", req.Subject),
//	    validator.ExactlyOne("template", req.Template != "", "htmlBody", req.HTMLBody != ""),
//	}
//	rules = append(rules, validator.ValidEmails("to", req.To)...)
//
//	if err := validator.Apply(rules...); err != nil {
//	    if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//	        // inspect verrs.Fields(), verrs.Get("to[0]")
//	    }
//	}
//
// # Error Handling
//
// ValidationErrors matches ErrValidationFailed with errors.Is and can be
// recovered with errors.As or ExtractValidationErrors.
package validator
