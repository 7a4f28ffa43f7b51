package entity

import "time"

// Perfis válidos para User.
const (
	PerfilAdmin    = "admin"
	PerfilGestor   = "gestor"
	PerfilPromotor = "promotor"
)

// User representa um usuário do sistema (pertence a uma Company).
type User struct {
	ID           int64
	CompanyID    int64
	Email        string
	PasswordHash string // bcrypt hash, nunca em claro no domínio após persistir
	Name         string
	Perfil       string // admin, gestor, promotor
	WhatsApp     string // número no formato do Twilio ("whatsapp:+55..."); vazio = sem vínculo
	IsActive     bool
	CreatedAt    time.Time
}
