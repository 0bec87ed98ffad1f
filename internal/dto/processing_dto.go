package dto

import "github.com/google/uuid"

type SimilarityRequest struct {
	CVSummary      string `json:"cv_summary"`
	JobDescription string `json:"job_description"`
}

type ExtractCVRequest struct {
	CVText string `json:"cv_text"`
}

type QuestionsRequest struct {
	CVSummary      string `json:"cv_summary"`
	JobDescription string `json:"job_description"`
}

// EvaluateAnswerRequest evaluates a free-standing question, or the stored
// pre-interview question named by QuestionID. The evaluation is saved in
// the latter case.
type EvaluateAnswerRequest struct {
	QuestionID *uuid.UUID `json:"question_id"`
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
}
