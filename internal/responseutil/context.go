package responseutil

import "context"

type contextKey string

const builderKey contextKey = "response_builder"

// GetBuilder retrieves the response builder from the context.
func GetBuilder(ctx context.Context) interface{} {
	return ctx.Value(builderKey)
}

// SetBuilder stores the response builder in the context.
func SetBuilder(ctx context.Context, builder interface{}) context.Context {
	return context.WithValue(ctx, builderKey, builder)
}
