package dto

// RegisterRequest entrada para registro (auth).
type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol"`
}

// AuthResponse salida de login y registro: token JWT + usuario.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Token   string       `json:"token"`
	Usuario UserResponse `json:"usuario"`
}

// ProfileResponse salida de /auth/perfil.
type ProfileResponse struct {
	Success bool         `json:"success"`
	Usuario UserResponse `json:"usuario"`
}
