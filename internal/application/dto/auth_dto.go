package dto

// AdminLoginRequest cuerpo de POST /api/auth/admin.
type AdminLoginRequest struct {
	Key string `json:"key"`
}

// TokenResponse sesión emitida.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
