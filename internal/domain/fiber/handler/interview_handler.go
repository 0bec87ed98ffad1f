package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fadilmartias/hiring-assistant/internal/dto"
	"github.com/fadilmartias/hiring-assistant/internal/usecase"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

type InterviewHandler struct {
	analysis   *usecase.AnalysisUsecase
	catalog    *usecase.CatalogUsecase
	processing *usecase.ProcessingUsecase
}

func NewInterviewHandler(analysis *usecase.AnalysisUsecase, catalog *usecase.CatalogUsecase, processing *usecase.ProcessingUsecase) *InterviewHandler {
	return &InterviewHandler{analysis: analysis, catalog: catalog, processing: processing}
}

func (h *InterviewHandler) RegisterRoutes(r fiber.Router, limiter fiber.Handler) {
	g := r.Group("/interviews")
	g.Post("/questions", limiter, h.GenerateQuestions)
	g.Post("/evaluate", limiter, h.EvaluateAnswer)
	g.Get("/:applicationId", h.Get)
}

func (h *InterviewHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.QuestionsRequest
	if err := bodyParser(c, &req); err != nil {
		return ErrorResponse(c, err)
	}

	questions, err := h.analysis.GenerateQuestions(c.UserContext(), req.CVSummary, req.JobDescription)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Interview questions generated",
		Data:    questions,
	})
}

func (h *InterviewHandler) EvaluateAnswer(c *fiber.Ctx) error {
	var req dto.EvaluateAnswerRequest
	if err := bodyParser(c, &req); err != nil {
		return ErrorResponse(c, err)
	}

	var (
		evaluation *usecase.AnswerEvaluation
		err        error
	)
	meta := fiber.Map{}
	if req.QuestionID != nil {
		evaluation, err = h.processing.AnswerQuestion(c.UserContext(), *req.QuestionID, req.Answer)
		meta["question_id"] = req.QuestionID
	} else {
		evaluation, err = h.analysis.EvaluateAnswer(c.UserContext(), req.Question, req.Answer)
	}
	if err != nil {
		return ErrorResponse(c, err)
	}
	meta["average"] = evaluation.Average()
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Answer evaluated",
		Data:    evaluation,
		Meta:    meta,
	})
}

func (h *InterviewHandler) Get(c *fiber.Ctx) error {
	id, err := paramUUID(c, "applicationId")
	if err != nil {
		return ErrorResponse(c, err)
	}
	interview, err := h.catalog.GetPreInterview(c.UserContext(), id)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get pre-interview",
		Data:    interview,
	})
}
