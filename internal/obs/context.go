package obs

import "context"

type ctxKeyRoutePattern struct{}

// WithRoutePattern attaches the matched chi route pattern to the context so
// downstream middleware can label metrics and spans with it.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, ctxKeyRoutePattern{}, pattern)
}

// RoutePatternFromContext returns the stored route pattern, or "".
func RoutePatternFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	pattern, _ := ctx.Value(ctxKeyRoutePattern{}).(string)
	return pattern
}
