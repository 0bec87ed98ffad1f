package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/hiring-assistant/internal/dto"
	"github.com/fadilmartias/hiring-assistant/internal/usecase"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

type ProcessingHandler struct {
	processing *usecase.ProcessingUsecase
	analysis   *usecase.AnalysisUsecase
	catalog    *usecase.CatalogUsecase
}

func NewProcessingHandler(processing *usecase.ProcessingUsecase, analysis *usecase.AnalysisUsecase, catalog *usecase.CatalogUsecase) *ProcessingHandler {
	return &ProcessingHandler{processing: processing, analysis: analysis, catalog: catalog}
}

// RegisterRoutes mounts the scoring endpoints. limiter guards the routes
// that call the inference service.
func (h *ProcessingHandler) RegisterRoutes(r fiber.Router, limiter fiber.Handler) {
	g := r.Group("/processing", limiter)
	g.Post("/score", h.Score)
	g.Post("/complete-analysis", h.CompleteAnalysis)
	g.Post("/similarity", h.Similarity)
	g.Post("/extract-cv", h.ExtractCV)

	r.Get("/selection/ranking/:applicationId", h.Ranking)
}

// Score takes candidate_id and offer_id from the query string and the CV
// as the multipart "file" field.
func (h *ProcessingHandler) Score(c *fiber.Ctx) error {
	req, err := scoreRequest(c, c.Query("candidate_id"), c.Query("offer_id"))
	if err != nil {
		return ErrorResponse(c, err)
	}

	res, err := h.processing.ScoreCV(c.UserContext(), req)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "CV processed and scored",
		Data:    res,
	})
}

func (h *ProcessingHandler) CompleteAnalysis(c *fiber.Ctx) error {
	req, err := scoreRequest(c, c.FormValue("candidate_id"), c.FormValue("offer_id"))
	if err != nil {
		return ErrorResponse(c, err)
	}

	res, err := h.processing.CompleteAnalysis(c.UserContext(), req)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Complete analysis finished",
		Data:    res,
	})
}

func (h *ProcessingHandler) Similarity(c *fiber.Ctx) error {
	var req dto.SimilarityRequest
	if err := bodyParser(c, &req); err != nil {
		return ErrorResponse(c, err)
	}

	res, err := h.analysis.Similarity(c.UserContext(), req.CVSummary, req.JobDescription)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Similarity computed",
		Data:    res.Similarity,
	})
}

func (h *ProcessingHandler) ExtractCV(c *fiber.Ctx) error {
	var req dto.ExtractCVRequest
	if err := bodyParser(c, &req); err != nil {
		return ErrorResponse(c, err)
	}

	data, err := h.analysis.ExtractCVData(c.UserContext(), req.CVText)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "CV data extracted",
		Data:    data,
	})
}

func (h *ProcessingHandler) Ranking(c *fiber.Ctx) error {
	id, err := paramUUID(c, "applicationId")
	if err != nil {
		return ErrorResponse(c, err)
	}
	ranking, err := h.catalog.GetRanking(c.UserContext(), id)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get ranking",
		Data:    ranking,
	})
}

func scoreRequest(c *fiber.Ctx, candidateRaw, offerRaw string) (usecase.ScoreRequest, error) {
	candidateID, err := parseUUID("candidate_id", candidateRaw)
	if err != nil {
		return usecase.ScoreRequest{}, err
	}
	offerID, err := parseUUID("offer_id", offerRaw)
	if err != nil {
		return usecase.ScoreRequest{}, err
	}
	file, err := c.FormFile("file")
	if err != nil {
		return usecase.ScoreRequest{}, util.NewFormError("file is required", map[string]string{
			"file": "a PDF must be sent in the file field",
		})
	}
	return usecase.ScoreRequest{CandidateID: candidateID, OfferID: offerID, File: file}, nil
}
