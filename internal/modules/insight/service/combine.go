package service

import (
	"context"

	"moodooro/internal/platform/stream"
)

// combineLatest emits merge(a, b) once both inputs have delivered and again
// whenever either delivers. An input error is passed to fail instead. The
// output keeps only the newest pending value and closes when either input
// closes.
func combineLatest[A, B, T any](ctx context.Context, a <-chan stream.Result[A], b <-chan stream.Result[B], merge func(A, B) T, fail func(error) T) <-chan T {
	out := make(chan T, 1)
	go func() {
		defer close(out)
		var (
			lastA        stream.Result[A]
			lastB        stream.Result[B]
			haveA, haveB bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case res, ok := <-a:
				if !ok {
					return
				}
				lastA, haveA = res, true
			case res, ok := <-b:
				if !ok {
					return
				}
				lastB, haveB = res, true
			}
			var next T
			switch {
			case haveA && lastA.Err != nil:
				next = fail(lastA.Err)
			case haveB && lastB.Err != nil:
				next = fail(lastB.Err)
			case haveA && haveB:
				next = merge(lastA.Value, lastB.Value)
			default:
				continue
			}
			select {
			case <-out:
			default:
			}
			out <- next
		}
	}()
	return out
}
