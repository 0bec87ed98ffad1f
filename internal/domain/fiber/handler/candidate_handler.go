package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/hiring-assistant/internal/dto"
	"github.com/fadilmartias/hiring-assistant/internal/usecase"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

type CandidateHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCandidateHandler(uc *usecase.CatalogUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

func (h *CandidateHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/candidates")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
}

func (h *CandidateHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCandidateRequest
	if err := bodyParser(c, &req); err != nil {
		return ErrorResponse(c, err)
	}

	candidate, err := h.uc.CreateCandidate(c.UserContext(), req)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Candidate created",
		Data:    candidate,
	})
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	candidates, pagination, err := h.uc.ListCandidates(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get candidates",
		Data:       candidates,
		Pagination: pagination,
	})
}

func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return ErrorResponse(c, err)
	}
	candidate, err := h.uc.GetCandidate(c.UserContext(), id)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get candidate",
		Data:    candidate,
	})
}
