package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/hiring-assistant/internal/usecase"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

type DocumentHandler struct {
	catalog    *usecase.CatalogUsecase
	processing *usecase.ProcessingUsecase
}

func NewDocumentHandler(catalog *usecase.CatalogUsecase, processing *usecase.ProcessingUsecase) *DocumentHandler {
	return &DocumentHandler{catalog: catalog, processing: processing}
}

func (h *DocumentHandler) RegisterRoutes(r fiber.Router, limiter fiber.Handler) {
	g := r.Group("/documents")
	g.Post("/", limiter, h.Upload)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)
}

func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	candidateID, err := parseUUID("candidate_id", c.FormValue("candidate_id"))
	if err != nil {
		return ErrorResponse(c, err)
	}
	file, err := c.FormFile("file")
	if err != nil {
		return ErrorResponse(c, util.NewFormError("file is required", map[string]string{
			"file": "a PDF must be sent in the file field",
		}))
	}

	doc, err := h.processing.UploadDocument(c.UserContext(), candidateID, file)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Document uploaded",
		Data:    doc,
	})
}

func (h *DocumentHandler) List(c *fiber.Ctx) error {
	candidateID, err := optionalUUID("candidate_id", c.Query("candidate_id"))
	if err != nil {
		return ErrorResponse(c, err)
	}
	docs, pagination, err := h.catalog.ListDocuments(c.UserContext(), candidateID, pageFromQuery(c))
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get documents",
		Data:       docs,
		Pagination: pagination,
	})
}

func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return ErrorResponse(c, err)
	}
	doc, err := h.catalog.GetDocument(c.UserContext(), id)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get document",
		Data:    doc,
	})
}
