package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "intelfeed context key " + string(c)
}

// UserIDKey is the key for the authenticated user ID in context.Context.
const UserIDKey = contextKey("userID")

// UserEmailKey is the key for the authenticated user email in context.Context.
const UserEmailKey = contextKey("userEmail")

// UserRoleKey is the key for the authenticated user role in context.Context.
const UserRoleKey = contextKey("userRole")

// RequestIDKey is the key for the per-request correlation ID in context.Context.
const RequestIDKey = contextKey("requestID")

// ReportIDKey is the key for the report being generated in context.Context.
const ReportIDKey = contextKey("reportID")

// ComponentKey is the key for the originating component name in context.Context.
const ComponentKey = contextKey("component")

// OperationKey is the key for the current operation name in context.Context.
const OperationKey = contextKey("operation")
