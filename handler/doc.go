// Package handler provides typed HTTP handlers with JSON responses.
//
// A HandlerFunc receives a Context and a request value already decoded by
// the configured binders, and returns a Response:
//
//	type sendRequest struct {
//		To      []string `json:"to"`
//		Subject string   `json:"subject"`
//	}
//
//	send := func(ctx handler.Context, req sendRequest) handler.Response {
//		res := svc.Send(ctx, toEmailRequest(req))
//		if !res.Sent() {
//			return handler.JSON(res, handler.WithJSONStatus(statusFor(res.Err)))
//		}
//		return handler.JSON(res)
//	}
//
//	r.Post("/send-email", handler.Wrap(send,
//		handler.WithBinder[sendRequest](binder.JSON()),
//		handler.WithErrorHandler[sendRequest](handler.NewErrorHandler(log, statusFor)),
//	))
//
// # Errors
//
// Binding and rendering errors go to the ErrorHandler. NewErrorHandler logs
// them and writes {"status":"failed","error":"..."} with the status resolved
// by StatusCode: custom StatusMapper functions first, then HTTPError, then
// the binder sentinels (400, 413, 415). Anything unrecognized is a 500 whose
// body does not leak the error text.
package handler
