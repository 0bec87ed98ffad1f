package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/hiring-assistant/internal/dto"
	"github.com/fadilmartias/hiring-assistant/internal/usecase"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

type CompanyHandler struct {
	uc *usecase.CatalogUsecase
}

func NewCompanyHandler(uc *usecase.CatalogUsecase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

func (h *CompanyHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/companies")
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
}

func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCompanyRequest
	if err := bodyParser(c, &req); err != nil {
		return ErrorResponse(c, err)
	}

	company, err := h.uc.CreateCompany(c.UserContext(), req)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Company created",
		Data:    company,
	})
}

func (h *CompanyHandler) List(c *fiber.Ctx) error {
	companies, pagination, err := h.uc.ListCompanies(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get companies",
		Data:       companies,
		Pagination: pagination,
	})
}

func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return ErrorResponse(c, err)
	}
	company, err := h.uc.GetCompany(c.UserContext(), id)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get company",
		Data:    company,
	})
}
