package wip

import (
	"context"

	"golang.org/x/sync/singleflight"
)

var resultBuildGroup singleflight.Group

// singleflightBuild collapses concurrent identical computations behind one
// in-flight call while still honouring caller cancellation.
func singleflightBuild(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	resultChan := resultBuildGroup.DoChan(key, func() (interface{}, error) {
		return fn(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		return res.Val, res.Err
	}
}
