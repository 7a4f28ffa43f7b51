// Package http contém os handlers Fiber e o registro de rotas da API.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/higiplas/higiplas-api/internal/application/auth"
	"github.com/higiplas/higiplas-api/internal/application/insights"
	"github.com/higiplas/higiplas-api/internal/application/inventory"
	"github.com/higiplas/higiplas-api/internal/application/usecase"
	"github.com/higiplas/higiplas-api/internal/domain/entity"
	"github.com/higiplas/higiplas-api/pkg/logger"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	CompanyUC  *usecase.CompanyUseCase
	ProductUC  *usecase.ProductUseCase
	LedgerUC   *inventory.LedgerUseCase
	ImportUC   *usecase.ImportUseCase
	ContractUC *usecase.ContractUseCase
	PhotoUC    *usecase.PhotoUseCase
	InsightsUC *insights.InsightsUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
	Log        *logger.Logger
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público, exceto /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Companies (público: o cadastro da primeira empresa acontece antes de existir usuário)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Webhook do Twilio (público; autenticação é das credenciais da conta)
	whatsAppHandler := NewWhatsAppHandler(deps.PhotoUC, deps.Log)
	app.Post("/webhook/whatsapp", whatsAppHandler.Webhook)

	// Rotas protegidas (Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido) + importação/exportação de planilha
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	importHandler := NewImportHandler(deps.ImportUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Post("/import", importHandler.Import)
	products.Get("/export", importHandler.Export)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Ledger de movimentações (protegido)
	movements := protected.Group("/movements")
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	movements.Post("/", inventoryHandler.RecordMovement)
	movements.Get("/:produto_id", inventoryHandler.MovementHistory)

	// Contratos (protegido)
	contracts := protected.Group("/contracts")
	contractHandler := NewContractHandler(deps.ContractUC)
	contracts.Post("/upload", contractHandler.Upload)
	contracts.Get("/", contractHandler.List)

	// Fotos de promotores (protegido)
	photos := protected.Group("/photos")
	photoHandler := NewPhotoHandler(deps.PhotoUC)
	photos.Get("/", photoHandler.List)

	// Insights (protegido; só gestão vê KPIs e usa a IA)
	insightsGroup := protected.Group("/insights", RequireRole(entity.PerfilAdmin, entity.PerfilGestor))
	insightsHandler := NewInsightsHandler(deps.InsightsUC)
	insightsGroup.Get("/kpis", insightsHandler.KPIs)
	insightsGroup.Post("/ask", insightsHandler.Ask)
}
