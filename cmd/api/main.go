package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/higiplas/higiplas-api/internal/application/auth"
	"github.com/higiplas/higiplas-api/internal/application/insights"
	"github.com/higiplas/higiplas-api/internal/application/inventory"
	"github.com/higiplas/higiplas-api/internal/application/usecase"
	infraai "github.com/higiplas/higiplas-api/internal/infrastructure/ai"
	"github.com/higiplas/higiplas-api/internal/infrastructure/excel"
	"github.com/higiplas/higiplas-api/internal/infrastructure/postgres"
	"github.com/higiplas/higiplas-api/internal/infrastructure/storage"
	"github.com/higiplas/higiplas-api/internal/infrastructure/twilio"
	httpRouter "github.com/higiplas/higiplas-api/internal/interfaces/http"
	"github.com/higiplas/higiplas-api/pkg/config"
	"github.com/higiplas/higiplas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	// Repositórios sobre o pool (fora de tx)
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	contractRepo := postgres.NewContractRepository(pool)
	photoRepo := postgres.NewPromoterPhotoRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Armazenamento local de blobs
	contractStore, err := storage.NewLocalStore(cfg.Uploads.ContractsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("diretório de contratos")
	}
	photoStore, err := storage.NewLocalStore(cfg.Uploads.PhotosDir)
	if err != nil {
		log.Fatal().Err(err).Msg("diretório de fotos")
	}

	// Adaptadores externos
	mediaFetcher := twilio.NewMediaClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken)
	geminiSvc := infraai.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	sheetCodec := excel.NewProductSheetCodec()

	// Casos de uso
	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, movementRepo)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	importUC := usecase.NewImportUseCase(txRunner, ledgerUC, productRepo, sheetCodec)
	contractUC := usecase.NewContractUseCase(contractRepo, contractStore)
	photoUC := usecase.NewPhotoUseCase(photoRepo, userRepo, mediaFetcher, photoStore)
	insightsUC := insights.NewInsightsUseCase(photoRepo, photoRepo, geminiSvc)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 * 1024 * 1024, // uploads de planilha e contrato
	})
	app.Use(recover.New())

	// Swagger UI em local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Higiplas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	// Arquivos enviados: contratos e fotos de promotores
	app.Static("/arquivos-contratos", cfg.Uploads.ContractsDir)
	app.Static("/fotos-promotores", cfg.Uploads.PhotosDir)

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:  companyUC,
		ProductUC:  productUC,
		LedgerUC:   ledgerUC,
		ImportUC:   importUC,
		ContractUC: contractUC,
		PhotoUC:    photoUC,
		InsightsUC: insightsUC,
		AuthUC:     authUC,
		JWTSecret:  cfg.JWT.Secret,
		Log:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
