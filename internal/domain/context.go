package domain

import "context"

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	storeIDKey     contextKey = "store_id"
	permissionsKey contextKey = "permissions"
)

// Permission names attached to an authenticated caller
const (
	PermManageStore = "manage_store"
	PermViewOnly    = "view_only"
)

// WithStoreID returns a context annotated with the authenticated store id.
func WithStoreID(ctx context.Context, storeID string) context.Context {
	return context.WithValue(ctx, storeIDKey, storeID)
}

// GetStoreIDFromContext extracts the authenticated store id, or "".
func GetStoreIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(storeIDKey).(string); ok {
		return v
	}
	return ""
}

// WithPermissions returns a context annotated with the caller's permissions.
func WithPermissions(ctx context.Context, perms []string) context.Context {
	return context.WithValue(ctx, permissionsKey, perms)
}

// GetPermissionsFromContext extracts the caller's permissions, or nil.
func GetPermissionsFromContext(ctx context.Context) []string {
	if v, ok := ctx.Value(permissionsKey).([]string); ok {
		return v
	}
	return nil
}

// HasPermission reports whether the caller carries the named permission.
func HasPermission(ctx context.Context, perm string) bool {
	for _, p := range GetPermissionsFromContext(ctx) {
		if p == perm {
			return true
		}
	}
	return false
}
