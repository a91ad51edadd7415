package globals

import (
	"context"

	"savora/config"
)

var JwtSecret = []byte(config.Load().JWTSecret)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
