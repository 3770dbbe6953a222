package globals

var (
	// set from JWT_SECRET at startup
	JwtSecret = []byte("change-me")
)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"
