package usecase

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/fadilmartias/hiring-assistant/internal/extractor"
	"github.com/fadilmartias/hiring-assistant/internal/logger"
	"github.com/fadilmartias/hiring-assistant/internal/model"
	"github.com/fadilmartias/hiring-assistant/internal/repository"
	"github.com/fadilmartias/hiring-assistant/internal/scoring"
	"github.com/fadilmartias/hiring-assistant/internal/service"
	"github.com/fadilmartias/hiring-assistant/internal/util"
)

type StepStatus string

const (
	StepOK        StepStatus = "ok"
	StepSimulated StepStatus = "simulated"
	StepFailed    StepStatus = "failed"
)

const (
	StepExtractText = "extract_text"
	StepExtractData = "extract_data"
	StepSimilarity  = "similarity"
	StepQuestions   = "questions"
	StepPersist     = "persist"

	maxSummaryRunes = 2000
	reindexBatch    = 100
)

type ScoreRequest struct {
	CandidateID uuid.UUID
	OfferID     uuid.UUID
	File        *multipart.FileHeader
}

type ScoreResult struct {
	ApplicationID uuid.UUID          `json:"application_id"`
	RankingID     uuid.UUID          `json:"ranking_id"`
	DocumentID    uuid.UUID          `json:"document_id"`
	Similarity    scoring.Similarity `json:"similarity"`
	Pages         int                `json:"pages"`
	TextLength    int                `json:"text_length"`
}

type CompleteAnalysisResult struct {
	ApplicationID  uuid.UUID             `json:"application_id"`
	DocumentID     uuid.UUID             `json:"document_id"`
	PreInterviewID uuid.UUID             `json:"pre_interview_id"`
	Similarity     scoring.Similarity    `json:"similarity"`
	CVData         *CVData               `json:"cv_data,omitempty"`
	Questions      *Questions            `json:"questions"`
	Steps          map[string]StepStatus `json:"steps"`
}

type SimilarCandidate struct {
	Candidate  model.Candidate `json:"candidate"`
	Similarity float64         `json:"similarity"`
	Percentage float64         `json:"percentage"`
	Level      string          `json:"level"`
}

type ReindexResult struct {
	Offers     int `json:"offers"`
	Candidates int `json:"candidates"`
	Failed     int `json:"failed"`
	// Stale counts CV embeddings from another model; they need a rescore.
	Stale int `json:"stale"`
}

// ProcessingUsecase runs the CV scoring pipeline from upload to ranking.
type ProcessingUsecase struct {
	store     repository.Registry
	storage   service.FileStorage
	extractor extractor.Extractor
	analysis  *AnalysisUsecase
	ai        service.InferenceService
	index     service.CandidateIndex
	log       *zap.Logger
}

func NewProcessingUsecase(
	store repository.Registry,
	storage service.FileStorage,
	ex extractor.Extractor,
	analysis *AnalysisUsecase,
	ai service.InferenceService,
	index service.CandidateIndex,
	log *zap.Logger,
) *ProcessingUsecase {
	return &ProcessingUsecase{
		store:     store,
		storage:   storage,
		extractor: ex,
		analysis:  analysis,
		ai:        ai,
		index:     index,
		log:       logger.OrNop(log),
	}
}

// ScoreCV stores and reads the CV, scores it against the offer and records
// the document, application and ranking in a single transaction.
func (uc *ProcessingUsecase) ScoreCV(ctx context.Context, req ScoreRequest) (*ScoreResult, error) {
	log := uc.log.With(
		zap.String(logger.FieldCandidateID, req.CandidateID.String()),
		zap.String(logger.FieldOfferID, req.OfferID.String()),
	)

	offer, candidate, err := uc.lookup(ctx, req.CandidateID, req.OfferID)
	if err != nil {
		return nil, err
	}

	stored, doc, err := uc.storeAndExtract(ctx, req.File)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			uc.discard(stored.Path)
		}
	}()

	sim, err := uc.analysis.SimilarityWithJobVector(ctx, doc.Text, offer.ComparisonText(), offer.CachedEmbedding(uc.ai.EmbedModel()))
	if err != nil {
		return nil, err
	}
	log.Info("cv scored",
		zap.Float64("score", sim.Score),
		zap.String("level", sim.Level),
		zap.Bool("simulated", sim.Simulated),
	)

	result := &ScoreResult{Similarity: sim.Similarity, Pages: doc.Pages, TextLength: len(doc.Text)}
	err = uc.store.Transaction(ctx, func(tx repository.Registry) error {
		document := &model.CVDocument{
			CandidateID:   candidate.ID,
			FileName:      stored.OriginalName,
			FilePath:      stored.Path,
			ExtractedText: doc.Text,
		}
		if err := tx.Documents().Create(ctx, document); err != nil {
			return fmt.Errorf("create cv document: %w", err)
		}

		app, ranking, err := createRankedApplication(ctx, tx, candidate.ID, offer.ID, sim)
		if err != nil {
			return err
		}
		if err := uc.saveEmbedding(ctx, tx, candidate.ID, sim.CVVector); err != nil {
			return err
		}

		result.ApplicationID = app.ID
		result.RankingID = ranking.ID
		result.DocumentID = document.ID
		return nil
	})
	if err != nil {
		log.Error("scoring transaction rolled back", zap.Error(err))
		return nil, err
	}
	committed = true

	uc.afterCommit(ctx, log, offer, candidate.ID, sim)
	return result, nil
}

// CompleteAnalysis runs every AI step on the CV. AI steps that fail are
// reported in Steps and do not stop the flow; extraction, lookups and the
// final write do.
func (uc *ProcessingUsecase) CompleteAnalysis(ctx context.Context, req ScoreRequest) (*CompleteAnalysisResult, error) {
	log := uc.log.With(
		zap.String(logger.FieldCandidateID, req.CandidateID.String()),
		zap.String(logger.FieldOfferID, req.OfferID.String()),
	)
	steps := map[string]StepStatus{}

	offer, candidate, err := uc.lookup(ctx, req.CandidateID, req.OfferID)
	if err != nil {
		return nil, err
	}

	stored, doc, err := uc.storeAndExtract(ctx, req.File)
	if err != nil {
		return nil, err
	}
	steps[StepExtractText] = StepOK
	committed := false
	defer func() {
		if !committed {
			uc.discard(stored.Path)
		}
	}()

	cvData, err := uc.analysis.ExtractCVData(ctx, doc.Text)
	if err != nil {
		log.Warn("structured extraction failed", zap.String(logger.FieldStep, StepExtractData), zap.Error(err))
		steps[StepExtractData] = StepFailed
		cvData = nil
	} else {
		steps[StepExtractData] = StepOK
	}

	jobText := offer.ComparisonText()
	sim, err := uc.analysis.SimilarityWithJobVector(ctx, doc.Text, jobText, offer.CachedEmbedding(uc.ai.EmbedModel()))
	switch {
	case err != nil:
		log.Warn("similarity failed", zap.String(logger.FieldStep, StepSimilarity), zap.Error(err))
		steps[StepSimilarity] = StepFailed
		sim = &SimilarityResult{Similarity: scoring.NewSimilarity(uc.analysis.placeholder, true)}
	case sim.Simulated:
		steps[StepSimilarity] = StepSimulated
	default:
		steps[StepSimilarity] = StepOK
	}

	summary := util.Truncate(doc.Text, maxSummaryRunes)
	if cvData != nil && cvData.Summary != "" {
		summary = cvData.Summary
	}
	questions, err := uc.analysis.GenerateQuestions(ctx, summary, jobText)
	switch {
	case err != nil:
		log.Warn("question generation failed", zap.String(logger.FieldStep, StepQuestions), zap.Error(err))
		steps[StepQuestions] = StepFailed
		questions = &Questions{Status: string(StepFailed)}
	case questions.Status == StatusSuccessSimulated:
		steps[StepQuestions] = StepSimulated
	default:
		steps[StepQuestions] = StepOK
	}

	result := &CompleteAnalysisResult{
		Similarity: sim.Similarity,
		CVData:     cvData,
		Questions:  questions,
		Steps:      steps,
	}
	err = uc.store.Transaction(ctx, func(tx repository.Registry) error {
		document := &model.CVDocument{
			CandidateID:   candidate.ID,
			FileName:      stored.OriginalName,
			FilePath:      stored.Path,
			ExtractedText: doc.Text,
		}
		if err := tx.Documents().Create(ctx, document); err != nil {
			return fmt.Errorf("create cv document: %w", err)
		}

		if cvData != nil {
			if err := backfillProfile(ctx, tx, candidate, cvData); err != nil {
				return err
			}
		}

		app, _, err := createRankedApplication(ctx, tx, candidate.ID, offer.ID, sim)
		if err != nil {
			return err
		}

		percentage := sim.Percentage
		interview := &model.PreInterview{
			ApplicationID: app.ID,
			Summary:       summary,
			Score:         &percentage,
		}
		for _, q := range questions.Items {
			interview.Questions = append(interview.Questions, model.PreInterviewQuestion{Question: q})
		}
		if err := tx.Applications().CreatePreInterview(ctx, interview); err != nil {
			return fmt.Errorf("create pre-interview: %w", err)
		}

		if err := uc.saveEmbedding(ctx, tx, candidate.ID, sim.CVVector); err != nil {
			return err
		}

		result.ApplicationID = app.ID
		result.DocumentID = document.ID
		result.PreInterviewID = interview.ID
		return nil
	})
	if err != nil {
		log.Error("analysis transaction rolled back", zap.Error(err))
		return nil, err
	}
	committed = true
	steps[StepPersist] = StepOK

	uc.afterCommit(ctx, log, offer, candidate.ID, sim)
	return result, nil
}

// UploadDocument stores a CV for a candidate without scoring it.
func (uc *ProcessingUsecase) UploadDocument(ctx context.Context, candidateID uuid.UUID, file *multipart.FileHeader) (*model.CVDocument, error) {
	if _, err := uc.store.Candidates().FindByID(ctx, candidateID); err != nil {
		return nil, lookupErr(err)
	}

	stored, doc, err := uc.storeAndExtract(ctx, file)
	if err != nil {
		return nil, err
	}

	document := &model.CVDocument{
		CandidateID:   candidateID,
		FileName:      stored.OriginalName,
		FilePath:      stored.Path,
		ExtractedText: doc.Text,
	}
	if err := uc.store.Documents().Create(ctx, document); err != nil {
		uc.discard(stored.Path)
		return nil, fmt.Errorf("create cv document: %w", err)
	}
	return document, nil
}

// AnswerQuestion evaluates a candidate's answer to a stored pre-interview
// question and saves it. A simulated evaluation stores the answer only, so
// the question can be evaluated again once the inference service is back.
func (uc *ProcessingUsecase) AnswerQuestion(ctx context.Context, questionID uuid.UUID, answer string) (*AnswerEvaluation, error) {
	question, err := uc.store.Applications().FindQuestion(ctx, questionID)
	if err != nil {
		return nil, lookupErr(err)
	}

	evaluation, err := uc.analysis.EvaluateAnswer(ctx, question.Question, answer)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	question.Answer = strings.TrimSpace(answer)
	question.AnsweredAt = &now
	question.Feedback = ""
	question.Rating = nil
	if evaluation.Status == StatusSuccess {
		avg := evaluation.Average()
		question.Feedback = evaluation.Comment
		question.Rating = &avg
	}
	if err := uc.store.Applications().SaveAnswer(ctx, question); err != nil {
		return nil, fmt.Errorf("save answer: %w", lookupErr(err))
	}

	uc.log.Info("pre-interview answer saved",
		zap.String("question_id", questionID.String()),
		zap.String("status", evaluation.Status),
	)
	return evaluation, nil
}

// SimilarCandidates returns the candidates whose latest CV is closest to
// the offer.
func (uc *ProcessingUsecase) SimilarCandidates(ctx context.Context, offerID uuid.UUID, limit int) ([]SimilarCandidate, error) {
	offer, err := uc.store.Offers().FindByID(ctx, offerID)
	if err != nil {
		return nil, lookupErr(err)
	}

	vec, err := uc.ensureOfferVector(ctx, offer)
	if err != nil {
		return nil, err
	}

	matches, err := uc.index.Search(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("search %s index: %w", uc.index.Name(), err)
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.CandidateID)
	}
	candidates, err := uc.store.Candidates().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	out := make([]SimilarCandidate, 0, len(matches))
	for _, m := range matches {
		c, ok := byID[m.CandidateID]
		if !ok {
			continue
		}
		p := scoring.Percentage(m.Similarity)
		out = append(out, SimilarCandidate{
			Candidate:  c,
			Similarity: m.Similarity,
			Percentage: p,
			Level:      scoring.Level(p),
		})
	}
	return out, nil
}

// Reindex embeds offers that have no cached vector and pushes every stored
// CV embedding to the candidate index.
func (uc *ProcessingUsecase) Reindex(ctx context.Context) (*ReindexResult, error) {
	res := &ReindexResult{}

	embedModel := uc.ai.EmbedModel()
	offers, err := uc.store.Offers().ListMissingEmbedding(ctx, embedModel, reindexBatch)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	for i := range offers {
		if _, err := uc.ensureOfferVector(ctx, &offers[i]); err != nil {
			uc.log.Warn("offer embedding failed",
				zap.String(logger.FieldOfferID, offers[i].ID.String()), zap.Error(err))
			res.Failed++
			continue
		}
		res.Offers++
	}

	embeddings, err := uc.store.Embeddings().List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list cv embeddings: %w", err)
	}
	for _, e := range embeddings {
		if e.Model != embedModel {
			res.Stale++
			continue
		}
		if err := uc.index.Upsert(ctx, e.CandidateID, e.Embedding.Slice()); err != nil {
			uc.log.Warn("index upsert failed",
				zap.String(logger.FieldCandidateID, e.CandidateID.String()), zap.Error(err))
			res.Failed++
			continue
		}
		res.Candidates++
	}

	uc.log.Info("reindex finished",
		zap.String("index", uc.index.Name()),
		zap.Int("offers", res.Offers),
		zap.Int("candidates", res.Candidates),
		zap.Int("failed", res.Failed),
		zap.Int("stale", res.Stale),
	)
	return res, nil
}

func (uc *ProcessingUsecase) lookup(ctx context.Context, candidateID, offerID uuid.UUID) (*model.JobOffer, *model.Candidate, error) {
	offer, err := uc.store.Offers().FindByID(ctx, offerID)
	if err != nil {
		return nil, nil, lookupErr(err)
	}
	candidate, err := uc.store.Candidates().FindByID(ctx, candidateID)
	if err != nil {
		return nil, nil, lookupErr(err)
	}
	return offer, candidate, nil
}

func (uc *ProcessingUsecase) storeAndExtract(ctx context.Context, file *multipart.FileHeader) (*service.StoredFile, *extractor.Document, error) {
	if file == nil {
		return nil, nil, fmt.Errorf("%w: file is required", ErrInvalidInput)
	}

	stored, err := uc.storage.Save(file)
	if err != nil {
		return nil, nil, err
	}

	doc, err := uc.extractor.Extract(ctx, stored.Path)
	if err != nil {
		uc.discard(stored.Path)
		return nil, nil, err
	}
	return stored, doc, nil
}

func (uc *ProcessingUsecase) discard(path string) {
	if err := uc.storage.Remove(path); err != nil {
		uc.log.Warn("failed to remove stored file", zap.String("path", path), zap.Error(err))
	}
}

func (uc *ProcessingUsecase) saveEmbedding(ctx context.Context, tx repository.Registry, candidateID uuid.UUID, vec []float32) error {
	if len(vec) == 0 {
		return nil
	}
	err := tx.Embeddings().Upsert(ctx, &model.CVEmbedding{
		CandidateID: candidateID,
		Embedding:   pgvector.NewVector(vec),
		Model:       uc.ai.EmbedModel(),
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("save cv embedding: %w", err)
	}
	return nil
}

// afterCommit caches the offer vector and feeds the candidate index. Both
// are best effort.
func (uc *ProcessingUsecase) afterCommit(ctx context.Context, log *zap.Logger, offer *model.JobOffer, candidateID uuid.UUID, sim *SimilarityResult) {
	embedModel := uc.ai.EmbedModel()
	if offer.CachedEmbedding(embedModel) == nil && len(sim.JobVector) > 0 {
		if err := uc.store.Offers().UpdateEmbedding(ctx, offer.ID, pgvector.NewVector(sim.JobVector), embedModel); err != nil {
			log.Warn("failed to cache offer embedding", zap.Error(err))
		}
	}
	if len(sim.CVVector) > 0 {
		if err := uc.index.Upsert(ctx, candidateID, sim.CVVector); err != nil {
			log.Warn("failed to index candidate", zap.String("index", uc.index.Name()), zap.Error(err))
		}
	}
}

func (uc *ProcessingUsecase) ensureOfferVector(ctx context.Context, offer *model.JobOffer) ([]float32, error) {
	embedModel := uc.ai.EmbedModel()
	if vec := offer.CachedEmbedding(embedModel); vec != nil {
		return vec, nil
	}
	text := offer.ComparisonText()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: offer %s has no text to embed", ErrInvalidInput, offer.ID)
	}

	vec, err := uc.ai.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed offer: %w", err)
	}
	v := pgvector.NewVector(vec)
	if err := uc.store.Offers().UpdateEmbedding(ctx, offer.ID, v, embedModel); err != nil {
		return nil, fmt.Errorf("cache offer embedding: %w", err)
	}
	offer.Embedding = &v
	offer.EmbeddingModel = embedModel
	return vec, nil
}

func createRankedApplication(ctx context.Context, tx repository.Registry, candidateID, offerID uuid.UUID, sim *SimilarityResult) (*model.Application, *model.Ranking, error) {
	app := &model.Application{
		CandidateID: candidateID,
		JobOfferID:  offerID,
		AppliedAt:   time.Now(),
	}
	if err := tx.Applications().Create(ctx, app); err != nil {
		return nil, nil, fmt.Errorf("create application: %w", err)
	}

	ranking := &model.Ranking{
		ApplicationID: app.ID,
		Score:         sim.Percentage,
		SemanticScore: sim.Score,
		Notes:         rankingNotes(sim.Similarity),
	}
	if err := tx.Applications().CreateRanking(ctx, ranking); err != nil {
		return nil, nil, fmt.Errorf("create ranking: %w", err)
	}
	return app, ranking, nil
}

func rankingNotes(s scoring.Similarity) string {
	if s.Simulated {
		return fmt.Sprintf("Placeholder score %.2f: inference service unavailable.", s.Score)
	}
	return fmt.Sprintf("Semantic similarity %.4f (%s).", s.Score, s.Level)
}

// backfillProfile fills empty candidate fields from the CV and stores the
// extracted experience and education.
func backfillProfile(ctx context.Context, tx repository.Registry, candidate *model.Candidate, data *CVData) error {
	changed := false
	fill := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
			changed = true
		}
	}
	fill(&candidate.FullName, data.FullName)
	fill(&candidate.Email, data.Email)
	fill(&candidate.Phone, data.Phone)

	if changed {
		if err := tx.Candidates().Update(ctx, candidate); err != nil {
			return fmt.Errorf("update candidate: %w", err)
		}
	}

	experiences := make([]model.CVExperience, 0, len(data.Experience))
	for _, e := range data.Experience {
		experiences = append(experiences, model.CVExperience{
			CandidateID: candidate.ID,
			Company:     e.Company,
			Position:    e.Position,
			Description: e.Description,
			Period:      e.Period,
		})
	}
	if err := tx.Candidates().AddExperiences(ctx, experiences); err != nil {
		return fmt.Errorf("add experiences: %w", err)
	}

	educations := make([]model.CVEducation, 0, len(data.Education))
	for _, e := range data.Education {
		educations = append(educations, model.CVEducation{
			CandidateID: candidate.ID,
			Institution: e.Institution,
			Degree:      e.Degree,
			Period:      e.Period,
		})
	}
	if err := tx.Candidates().AddEducations(ctx, educations); err != nil {
		return fmt.Errorf("add educations: %w", err)
	}
	return nil
}
