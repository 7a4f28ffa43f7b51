package repository

import "github.com/higiplas/higiplas-api/internal/domain/entity"

// UserRepository define o porto de persistência para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id int64) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	// FindByWhatsApp localiza o promotor dono de um número (webhook de WhatsApp).
	FindByWhatsApp(number string) (*entity.User, error)
}
