package app

import "context"

// contextKey is used to store App in context
type contextKey struct{}

var appContextKey = contextKey{}

// FromContext retrieves the App from context
func FromContext(ctx context.Context) *App {
	app, ok := ctx.Value(appContextKey).(*App)
	if !ok {
		return nil
	}
	return app
}

// WithApp stores the App in context
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appContextKey, app)
}
