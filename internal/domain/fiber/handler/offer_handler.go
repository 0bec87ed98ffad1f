package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/hiring-assistant/internal/dto"
	"github.com/fadilmartias/hiring-assistant/internal/repository"
	"github.com/fadilmartias/hiring-assistant/internal/usecase"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

const defaultSimilarLimit = 10

type OfferHandler struct {
	catalog    *usecase.CatalogUsecase
	processing *usecase.ProcessingUsecase
}

func NewOfferHandler(catalog *usecase.CatalogUsecase, processing *usecase.ProcessingUsecase) *OfferHandler {
	return &OfferHandler{catalog: catalog, processing: processing}
}

func (h *OfferHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/offers")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
	g.Patch("/:id/close", h.Close)
	g.Get("/:id/ranking", h.Ranking)
	g.Get("/:id/similar-candidates", h.SimilarCandidates)
}

func (h *OfferHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateOfferRequest
	if err := bodyParser(c, &req); err != nil {
		return ErrorResponse(c, err)
	}

	offer, err := h.catalog.CreateOffer(c.UserContext(), req)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Job offer created",
		Data:    offer,
	})
}

func (h *OfferHandler) List(c *fiber.Ctx) error {
	companyID, err := optionalUUID("company_id", c.Query("company_id"))
	if err != nil {
		return ErrorResponse(c, err)
	}
	filter := repository.OfferFilter{CompanyID: companyID, Status: c.Query("status")}

	offers, pagination, err := h.catalog.ListOffers(c.UserContext(), filter, pageFromQuery(c))
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get job offers",
		Data:       offers,
		Pagination: pagination,
	})
}

func (h *OfferHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return ErrorResponse(c, err)
	}
	offer, err := h.catalog.GetOffer(c.UserContext(), id)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get job offer",
		Data:    offer,
	})
}

func (h *OfferHandler) Close(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return ErrorResponse(c, err)
	}
	offer, err := h.catalog.CloseOffer(c.UserContext(), id)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Job offer closed",
		Data:    offer,
	})
}

func (h *OfferHandler) Ranking(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return ErrorResponse(c, err)
	}
	board, err := h.catalog.OfferRanking(c.UserContext(), id, c.QueryInt("limit", 0))
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get ranking",
		Data:    board,
	})
}

func (h *OfferHandler) SimilarCandidates(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return ErrorResponse(c, err)
	}
	limit := c.QueryInt("limit", defaultSimilarLimit)
	if limit <= 0 || limit > 100 {
		limit = defaultSimilarLimit
	}

	matches, err := h.processing.SimilarCandidates(c.UserContext(), id, limit)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get similar candidates",
		Data:    matches,
	})
}
