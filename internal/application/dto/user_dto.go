package dto

import "time"

// RegisterRequest entrada para criar um usuário.
type RegisterRequest struct {
	CompanyID int64  `json:"empresa_id"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"nome"`
	Perfil    string `json:"perfil"`
	WhatsApp  string `json:"whatsapp,omitempty"`
}

// LoginRequest entrada de login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse saída de um usuário (nunca inclui o hash da senha).
type UserResponse struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"empresa_id"`
	Email     string    `json:"email"`
	Name      string    `json:"nome"`
	Perfil    string    `json:"perfil"`
	WhatsApp  string    `json:"whatsapp,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"data_criacao"`
}

// LoginResponse token + usuário autenticado.
type LoginResponse struct {
	Token     string       `json:"access_token"`
	TokenType string       `json:"token_type"`
	User      UserResponse `json:"user"`
}
