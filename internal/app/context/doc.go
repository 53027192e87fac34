// Package context memoizes lookups for the lifetime of one request.
//
// The HTTP layer installs a RequestContext per request; application services
// then resolve request-wide facts, such as the caller's user row, once:
//
//	user, err := context.Fetch(ctx, "user:"+subject, func(ctx context.Context) (*domain.User, error) {
//	    return users.EnsureBySubject(ctx, subject)
//	})
//
// Without an installed RequestContext, Fetch simply calls through.
package context
