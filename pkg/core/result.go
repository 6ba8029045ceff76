package core

import "fmt"

// Result is the envelope returned across the orchestration boundary:
// either a payload or a human-readable failure message.
type Result[T any] struct {
	Success bool   `json:"success"`
	Payload T      `json:"payload,omitempty"`
	Message string `json:"message,omitempty"`
}

// Ok builds a successful Result.
func Ok[T any](payload T) Result[T] {
	return Result[T]{Success: true, Payload: payload}
}

// Fail builds a failed Result carrying err's message.
func Fail[T any](err error) Result[T] {
	return Result[T]{Message: err.Error()}
}

// Err returns the failure as an error, or nil on success.
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%s", r.Message)
}

// Envelope runs fn and funnels its outcome into a Result.
// Panics raised by collaborators are recovered into a failure.
func Envelope[T any](op string, fn func() (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Fail[T](&Error{Op: op, Kind: KindInvalid, Err: fmt.Errorf("panic: %v", r)})
		}
	}()
	v, err := fn()
	if err != nil {
		return Fail[T](err)
	}
	return Ok(v)
}
