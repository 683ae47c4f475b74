package v1

import "context"

// Wrap0 instruments a method taking no arguments besides the context.
func Wrap0[R any](i InterceptorV1, m *Method, fn func(context.Context) (R, error)) func(context.Context) (R, error) {
	return func(ctx context.Context) (R, error) {
		out, err := i.Invoke(ctx, m, nil, func(ctx context.Context) (any, error) {
			return fn(ctx)
		})
		return result[R](out), err
	}
}

// Wrap1 instruments a one-argument method.
func Wrap1[A, R any](i InterceptorV1, m *Method, fn func(context.Context, A) (R, error)) func(context.Context, A) (R, error) {
	return func(ctx context.Context, a A) (R, error) {
		out, err := i.Invoke(ctx, m, []any{a}, func(ctx context.Context) (any, error) {
			return fn(ctx, a)
		})
		return result[R](out), err
	}
}

// Wrap2 instruments a two-argument method.
func Wrap2[A, B, R any](i InterceptorV1, m *Method, fn func(context.Context, A, B) (R, error)) func(context.Context, A, B) (R, error) {
	return func(ctx context.Context, a A, b B) (R, error) {
		out, err := i.Invoke(ctx, m, []any{a, b}, func(ctx context.Context) (any, error) {
			return fn(ctx, a, b)
		})
		return result[R](out), err
	}
}

// Wrap3 instruments a three-argument method.
func Wrap3[A, B, C, R any](i InterceptorV1, m *Method, fn func(context.Context, A, B, C) (R, error)) func(context.Context, A, B, C) (R, error) {
	return func(ctx context.Context, a A, b B, c C) (R, error) {
		out, err := i.Invoke(ctx, m, []any{a, b, c}, func(ctx context.Context) (any, error) {
			return fn(ctx, a, b, c)
		})
		return result[R](out), err
	}
}

// result recovers the typed return value. A nil interface result, from an R
// that is itself an interface type, comes back as R's zero value.
func result[R any](out any) R {
	r, _ := out.(R)
	return r
}
