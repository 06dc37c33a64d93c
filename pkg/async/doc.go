// Package async runs a function in its own goroutine and hands back a
// generic Future for its result.
//
//	future := async.Async(ctx, msg, func(ctx context.Context, m *email.Message) (struct{}, error) {
//	    return struct{}{}, sender.Send(ctx, m)
//	})
//	_, err := future.AwaitContext(ctx)
//
// AwaitContext stops waiting when the context is done, which lets a caller
// bound a blocking call it cannot interrupt. A panic inside the function is
// recovered and reported as an error wrapping ErrPanic, so one misbehaving
// call cannot take the process down.
package async
