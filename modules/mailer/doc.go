// Package mailer is the HTTP surface of the email dispatch service.
//
// Service adapts an *email.Service to chi routes: the generic send endpoint,
// one endpoint per typed event, history listing and clearing, and the
// template catalog. Router mounts it next to the health and readiness probes.
//
// Send endpoints always answer with the dispatch result:
//
//	200 {"status":"sent","id":"..."}
//	4xx/5xx {"status":"failed","error":"...","id":"..."}
//
// Client input errors map to 400 (422 for missing template data), transport
// failures to 502 and transport timeouts to 504. Malformed bodies are
// rejected before dispatch and produce no history record.
package mailer
