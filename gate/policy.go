package gate

import "context"

// Policy decides whether user may perform action on one loaded resource.
// U is the subject type (a backend user id in this application).
type Policy[U any] interface {
	// Can reports whether user may perform action on resource.
	// resource is nil for list/create checks.
	Can(ctx context.Context, user U, action Action, resource any) bool
}

// PolicyFunc adapts a plain function to Policy.
type PolicyFunc[U any] func(ctx context.Context, user U, action Action, resource any) bool

// Can calls f.
func (f PolicyFunc[U]) Can(ctx context.Context, user U, action Action, resource any) bool {
	return f(ctx, user, action, resource)
}
