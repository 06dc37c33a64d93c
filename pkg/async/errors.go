package async

import "errors"

// ErrPanic is wrapped by the error of a Future whose function panicked.
var ErrPanic = errors.New("panic")
