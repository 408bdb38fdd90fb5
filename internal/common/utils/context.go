package utils

import (
	"context"
	"fmt"
	"time"
)

// RunWithTimeout は fn を timeout 以内に実行します
// 期限を過ぎた場合は fn の完了を待たずに context.DeadlineExceeded をラップしたエラーを返します
// 親コンテキストがキャンセルされた場合はその原因を返します
func RunWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- fn(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("batch process timed out after %v: %w", timeout, ctx.Err())
		}
		return fmt.Errorf("batch process cancelled: %w", ctx.Err())
	}
}
