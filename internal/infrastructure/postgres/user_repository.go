package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/higiplas/higiplas-api/internal/domain"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, company_id, email, password_hash, name, perfil, whatsapp, is_active, created_at`

// UserRepo implementação do porto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository constrói o adaptador de persistência de usuários.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste um novo usuário e preenche ID e CreatedAt.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (company_id, email, password_hash, name, perfil, whatsapp, is_active)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING id, created_at`
	err := r.q.QueryRow(context.Background(), query,
		user.CompanyID, user.Email, user.PasswordHash, user.Name, user.Perfil,
		user.WhatsApp, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) getOne(query string, arg any) (*entity.User, error) {
	var u entity.User
	var whatsapp *string
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.Name, &u.Perfil,
		&whatsapp, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if whatsapp != nil {
		u.WhatsApp = *whatsapp
	}
	return &u, nil
}

// GetByID obtém um usuário por ID. Devolve nil se não existir.
func (r *UserRepo) GetByID(id int64) (*entity.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail localiza um usuário pelo email (único no sistema).
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByWhatsApp localiza o promotor dono de um número (webhook de WhatsApp).
func (r *UserRepo) FindByWhatsApp(number string) (*entity.User, error) {
	return r.getOne(`SELECT `+userColumns+` FROM users WHERE whatsapp = $1`, number)
}
