package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/hiring-assistant/internal/usecase"
)

type Usecases struct {
	Catalog    *usecase.CatalogUsecase
	Analysis   *usecase.AnalysisUsecase
	Processing *usecase.ProcessingUsecase
}

// RegisterRoutes mounts every resource on r. aiLimiter is applied to the
// routes that reach the inference service.
func RegisterRoutes(r fiber.Router, uc Usecases, aiLimiter fiber.Handler) {
	NewCompanyHandler(uc.Catalog).RegisterRoutes(r)
	NewOfferHandler(uc.Catalog, uc.Processing).RegisterRoutes(r)
	NewCandidateHandler(uc.Catalog).RegisterRoutes(r)
	NewDocumentHandler(uc.Catalog, uc.Processing).RegisterRoutes(r, aiLimiter)
	NewProcessingHandler(uc.Processing, uc.Analysis, uc.Catalog).RegisterRoutes(r, aiLimiter)
	NewInterviewHandler(uc.Analysis, uc.Catalog, uc.Processing).RegisterRoutes(r, aiLimiter)
}
