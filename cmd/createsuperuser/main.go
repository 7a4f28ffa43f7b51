// Comando administrativo: cria (ou reaproveita) uma empresa e cadastra um
// usuário admin nela. Pensado para o primeiro provisionamento do ambiente.
//
// Uso:
//
//	createsuperuser -empresa "Higiplas" -email admin@higiplas.com.br -senha segredo [-nome "Admin"]
package main

import (
	"context"
	"flag"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/internal/infrastructure/postgres"
	"github.com/higiplas/higiplas-api/pkg/config"
	"github.com/higiplas/higiplas-api/pkg/logger"
)

func main() {
	companyName := flag.String("empresa", "", "nome da empresa (criada se não existir)")
	email := flag.String("email", "", "e-mail do admin")
	password := flag.String("senha", "", "senha do admin")
	name := flag.String("nome", "", "nome do admin (padrão: e-mail)")
	flag.Parse()

	log := logger.New(logger.Config{Env: "development", Level: "info"})

	if *companyName == "" || *email == "" || *password == "" {
		log.Fatal().Msg("flags -empresa, -email e -senha são obrigatórias")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("carregar configuração")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	company, err := companyRepo.GetByName(*companyName)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar empresa")
	}
	if company == nil {
		company = &entity.Company{Name: *companyName, CreatedAt: time.Now()}
		if err := companyRepo.Create(company); err != nil {
			log.Fatal().Err(err).Msg("criar empresa")
		}
		log.Info().Int64("company_id", company.ID).Str("nome", company.Name).Msg("empresa criada")
	} else {
		log.Info().Int64("company_id", company.ID).Str("nome", company.Name).Msg("empresa já existe")
	}

	existing, err := userRepo.FindByEmail(*email)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar usuário")
	}
	if existing != nil {
		log.Fatal().Str("email", *email).Msg("e-mail já cadastrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash da senha")
	}

	adminName := *name
	if adminName == "" {
		adminName = *email
	}
	user := &entity.User{
		CompanyID:    company.ID,
		Email:        *email,
		PasswordHash: string(hash),
		Name:         adminName,
		Perfil:       entity.PerfilAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := userRepo.Create(user); err != nil {
		log.Fatal().Err(err).Msg("criar usuário admin")
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Msg("usuário admin criado")
}
