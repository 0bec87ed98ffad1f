package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/fadilmartias/hiring-assistant/internal/logger"
	"github.com/fadilmartias/hiring-assistant/internal/scoring"
	"github.com/fadilmartias/hiring-assistant/internal/service"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

const (
	StatusSuccess          = "success"
	StatusSuccessSimulated = "success_simulated"

	questionCount = 5
)

var simulatedQuestions = []string{
	"Tell us about the project you are most proud of and your exact role in it.",
	"Which technologies from this job description have you used in production, and what problems did they solve?",
	"Describe a difficult technical problem you faced recently. How did you diagnose it and what was the outcome?",
	"How do you make sure the code you ship is reliable and maintainable over time?",
	"What would you want to learn or improve in your first three months in this role?",
}

const (
	simulatedQuestionsNote  = "The inference service is unavailable; these are generic questions, not tailored to the candidate."
	simulatedEvaluationNote = "The inference service is unavailable; scores are neutral placeholders."
)

type SimilarityResult struct {
	scoring.Similarity
	CVVector  []float32 `json:"-"`
	JobVector []float32 `json:"-"`
}

type Experience struct {
	Position    string `json:"position"`
	Company     string `json:"company"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Period      string `json:"period"`
}

type CVData struct {
	FullName   string       `json:"full_name"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []string     `json:"skills"`
}

type Questions struct {
	Raw    string   `json:"raw"`
	Items  []string `json:"items"`
	Status string   `json:"status"`
	Note   string   `json:"note,omitempty"`
}

type AnswerEvaluation struct {
	Relevance           int    `json:"relevance"`
	TechnicalDepth      int    `json:"technical_depth"`
	Clarity             int    `json:"clarity"`
	ChallengesSolutions int    `json:"challenges_solutions"`
	Comment             string `json:"comment"`
	FollowUpQuestion    string `json:"follow_up_question"`
	Status              string `json:"status"`
	Note                string `json:"note,omitempty"`
}

// Average is the mean of the four 1-5 ratings.
func (e AnswerEvaluation) Average() float64 {
	return float64(e.Relevance+e.TechnicalDepth+e.Clarity+e.ChallengesSolutions) / 4
}

// AnalysisUsecase wraps the inference service with the prompts, parsing and
// fallbacks recruiters rely on.
type AnalysisUsecase struct {
	ai          service.InferenceService
	prompts     *service.PromptBuilder
	placeholder float64
	log         *zap.Logger
}

func NewAnalysisUsecase(ai service.InferenceService, placeholderScore float64, log *zap.Logger) *AnalysisUsecase {
	return &AnalysisUsecase{
		ai:          ai,
		prompts:     service.NewPromptBuilder(),
		placeholder: placeholderScore,
		log:         logger.WithProvider(log, ai.Provider(), ai.ChatModel()),
	}
}

func (uc *AnalysisUsecase) Similarity(ctx context.Context, cvText, jobDescription string) (*SimilarityResult, error) {
	return uc.SimilarityWithJobVector(ctx, cvText, jobDescription, nil)
}

// SimilarityWithJobVector is Similarity with an already known embedding of
// the job text. A cached vector whose length does not match the CV's is
// ignored and the job text embedded again.
func (uc *AnalysisUsecase) SimilarityWithJobVector(ctx context.Context, cvText, jobText string, jobVec []float32) (*SimilarityResult, error) {
	if strings.TrimSpace(cvText) == "" || strings.TrimSpace(jobText) == "" {
		return nil, fmt.Errorf("%w: cv text and job description are required", ErrInvalidInput)
	}

	cvVec, err := uc.ai.Embed(ctx, cvText)
	if err != nil {
		return uc.simulatedSimilarity(err)
	}

	if len(jobVec) != len(cvVec) {
		jobVec, err = uc.ai.Embed(ctx, jobText)
		if err != nil {
			return uc.simulatedSimilarity(err)
		}
	}

	score, err := scoring.CosineSimilarity(cvVec, jobVec)
	if err != nil {
		return nil, fmt.Errorf("compare embeddings: %w", err)
	}

	return &SimilarityResult{
		Similarity: scoring.NewSimilarity(score, false),
		CVVector:   cvVec,
		JobVector:  jobVec,
	}, nil
}

func (uc *AnalysisUsecase) simulatedSimilarity(err error) (*SimilarityResult, error) {
	if !errors.Is(err, service.ErrUnavailable) {
		return nil, fmt.Errorf("embed: %w", err)
	}
	uc.log.Warn("embedding unavailable, using placeholder score",
		zap.Float64("placeholder", uc.placeholder), zap.Error(err))
	return &SimilarityResult{Similarity: scoring.NewSimilarity(uc.placeholder, true)}, nil
}

func (uc *AnalysisUsecase) ExtractCVData(ctx context.Context, cvText string) (*CVData, error) {
	if strings.TrimSpace(cvText) == "" {
		return nil, fmt.Errorf("%w: cv text is required", ErrInvalidInput)
	}

	raw, err := uc.ai.Chat(ctx, service.ChatRequest{
		System: service.SystemExtractCV,
		Prompt: uc.prompts.BuildExtractCVPrompt(cvText),
		JSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("extract cv data: %w", err)
	}

	obj, ok := util.ExtractJSONObject(raw)
	if !ok || !gjson.Valid(obj) {
		uc.log.Warn("unparseable cv data", zap.String("raw", logger.TruncateForLog(raw, 300)))
		return nil, &ParseError{What: "cv data", Raw: raw}
	}

	parsed := gjson.Parse(obj)
	data := &CVData{
		FullName: strings.TrimSpace(parsed.Get("full_name").String()),
		Email:    strings.TrimSpace(parsed.Get("email").String()),
		Phone:    strings.TrimSpace(parsed.Get("phone").String()),
		Summary:  strings.TrimSpace(parsed.Get("summary").String()),
	}
	for _, e := range parsed.Get("experience").Array() {
		data.Experience = append(data.Experience, Experience{
			Position:    e.Get("position").String(),
			Company:     e.Get("company").String(),
			Period:      e.Get("period").String(),
			Description: e.Get("description").String(),
		})
	}
	for _, e := range parsed.Get("education").Array() {
		data.Education = append(data.Education, Education{
			Degree:      e.Get("degree").String(),
			Institution: e.Get("institution").String(),
			Period:      e.Get("period").String(),
		})
	}
	for _, s := range parsed.Get("skills").Array() {
		if v := strings.TrimSpace(s.String()); v != "" {
			data.Skills = append(data.Skills, v)
		}
	}
	return data, nil
}

func (uc *AnalysisUsecase) GenerateQuestions(ctx context.Context, cvSummary, jobDescription string) (*Questions, error) {
	if strings.TrimSpace(cvSummary) == "" || strings.TrimSpace(jobDescription) == "" {
		return nil, fmt.Errorf("%w: cv summary and job description are required", ErrInvalidInput)
	}

	raw, err := uc.ai.Chat(ctx, service.ChatRequest{
		System: service.SystemInterviewer,
		Prompt: uc.prompts.BuildQuestionsPrompt(cvSummary, jobDescription, questionCount),
	})
	if err != nil {
		if !errors.Is(err, service.ErrUnavailable) {
			return nil, fmt.Errorf("generate questions: %w", err)
		}
		uc.log.Warn("chat unavailable, returning simulated questions", zap.Error(err))
		return SimulatedQuestions(), nil
	}

	raw = util.NormalizeText(raw)
	items := util.ParseNumberedList(raw)
	if len(items) == 0 {
		for _, line := range strings.Split(raw, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				items = append(items, line)
			}
		}
	}
	return &Questions{Raw: raw, Items: items, Status: StatusSuccess}, nil
}

// SimulatedQuestions is the fixed question set served while no model is
// reachable.
func SimulatedQuestions() *Questions {
	items := make([]string, len(simulatedQuestions))
	copy(items, simulatedQuestions)

	var sb strings.Builder
	for i, q := range items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, q)
	}
	return &Questions{
		Raw:    strings.TrimSpace(sb.String()),
		Items:  items,
		Status: StatusSuccessSimulated,
		Note:   simulatedQuestionsNote,
	}
}

func (uc *AnalysisUsecase) EvaluateAnswer(ctx context.Context, question, answer string) (*AnswerEvaluation, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return nil, fmt.Errorf("%w: question and answer are required", ErrInvalidInput)
	}

	raw, err := uc.ai.Chat(ctx, service.ChatRequest{
		System: service.SystemAnswerEvaluate,
		Prompt: uc.prompts.BuildEvaluateAnswerPrompt(question, answer),
		JSON:   true,
	})
	if err != nil {
		if !errors.Is(err, service.ErrUnavailable) {
			return nil, fmt.Errorf("evaluate answer: %w", err)
		}
		uc.log.Warn("chat unavailable, returning neutral evaluation", zap.Error(err))
		return &AnswerEvaluation{
			Relevance:           3,
			TechnicalDepth:      3,
			Clarity:             3,
			ChallengesSolutions: 3,
			Status:              StatusSuccessSimulated,
			Note:                simulatedEvaluationNote,
		}, nil
	}

	obj, ok := util.ExtractJSONObject(raw)
	if !ok || !gjson.Valid(obj) {
		uc.log.Warn("unparseable evaluation", zap.String("raw", logger.TruncateForLog(raw, 300)))
		return nil, &ParseError{What: "answer evaluation", Raw: raw}
	}

	parsed := gjson.Parse(obj)
	return &AnswerEvaluation{
		Relevance:           clampRating(parsed.Get("relevance").Int()),
		TechnicalDepth:      clampRating(parsed.Get("technical_depth").Int()),
		Clarity:             clampRating(parsed.Get("clarity").Int()),
		ChallengesSolutions: clampRating(parsed.Get("challenges_solutions").Int()),
		Comment:             strings.TrimSpace(parsed.Get("comment").String()),
		FollowUpQuestion:    strings.TrimSpace(parsed.Get("follow_up_question").String()),
		Status:              StatusSuccess,
	}, nil
}

func clampRating(v int64) int {
	switch {
	case v < 1:
		return 1
	case v > 5:
		return 5
	default:
		return int(v)
	}
}
