package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// RoleResolver resuelve el rol persistido de un usuario ya autenticado.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (Role, error)
}
