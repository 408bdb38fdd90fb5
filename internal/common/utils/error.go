package utils

import (
	"fmt"
	"runtime/debug"
)

// GetStackWithError は err にスタックトレースを付けて返します
// 元のエラーは errors.Is / errors.As で取り出せます
func GetStackWithError(err error) error {
	if err == nil {
		return nil
	}
	return &stackError{err: err, stack: debug.Stack()}
}

type stackError struct {
	err   error
	stack []byte
}

func (e *stackError) Error() string {
	return fmt.Sprintf("%v\nStack trace:\n%s", e.err, e.stack)
}

func (e *stackError) Unwrap() error {
	return e.err
}
