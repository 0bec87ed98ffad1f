package usecase

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/extractor"
	"github.com/fadilmartias/hiring-assistant/internal/model"
	"github.com/fadilmartias/hiring-assistant/internal/scoring"
	"github.com/fadilmartias/hiring-assistant/internal/service"
)

type pipeline struct {
	uc        *ProcessingUsecase
	store     *memStore
	ai        *fakeAI
	ex        *fakeExtractor
	index     *fakeIndex
	uploadDir string
	candidate model.Candidate
	offer     model.JobOffer
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	p := &pipeline{
		store:     newMemStore(),
		ai:        &fakeAI{keywords: []string{"go", "postgres", "react"}},
		ex:        &fakeExtractor{text: "Jane Doe\n\nGo developer, five years with Postgres."},
		index:     &fakeIndex{},
		uploadDir: t.TempDir(),
	}

	storage, err := service.NewFileStorage(&config.StorageConfig{UploadDir: p.uploadDir, MaxUploadSize: 1 << 20})
	require.NoError(t, err)

	analysis := NewAnalysisUsecase(p.ai, 0.75, nil)
	p.uc = NewProcessingUsecase(p.store, storage, p.ex, analysis, p.ai, p.index, nil)

	ctx := context.Background()
	company := model.Company{Name: "Acme"}
	require.NoError(t, p.store.Companies().Create(ctx, &company))
	p.offer = model.JobOffer{CompanyID: company.ID, Title: "Backend", Description: "Go and Postgres", Status: model.OfferStatusActive}
	require.NoError(t, p.store.Offers().Create(ctx, &p.offer))
	p.candidate = model.Candidate{FullName: "Jane Doe"}
	require.NoError(t, p.store.Candidates().Create(ctx, &p.candidate))
	return p
}

func (p *pipeline) request(t *testing.T) ScoreRequest {
	return ScoreRequest{CandidateID: p.candidate.ID, OfferID: p.offer.ID, File: pdfHeader(t, "jane.pdf")}
}

func (p *pipeline) storedFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(p.uploadDir)
	require.NoError(t, err)
	return len(entries)
}

func pdfHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestScoreCV(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	res, err := p.uc.ScoreCV(context.Background(), p.request(t))
	require.NoError(t, err)

	assert.Equal(t, scoring.LevelExcellent, res.Similarity.Level)
	assert.Equal(t, 100.0, res.Similarity.Percentage)
	assert.False(t, res.Similarity.Simulated)

	require.Len(t, p.store.documents, 1)
	doc := p.store.documents[res.DocumentID]
	assert.Equal(t, "jane.pdf", doc.FileName)
	assert.Equal(t, p.ex.text, doc.ExtractedText)
	assert.FileExists(t, doc.FilePath)

	app := p.store.applications[res.ApplicationID]
	assert.Equal(t, p.candidate.ID, app.CandidateID)
	assert.Equal(t, p.offer.ID, app.JobOfferID)

	ranking := p.store.rankings[res.ApplicationID]
	assert.Equal(t, res.RankingID, ranking.ID)
	assert.Equal(t, 100.0, ranking.Score)
	assert.InDelta(t, 1.0, ranking.SemanticScore, 1e-6)
	assert.Contains(t, ranking.Notes, scoring.LevelExcellent)

	emb, ok := p.store.embeddings[p.candidate.ID]
	require.True(t, ok)
	assert.Equal(t, "fake-embed", emb.Model)
	assert.NotNil(t, p.store.offers[p.offer.ID].Embedding, "offer vector cached")
	assert.Contains(t, p.index.upserts, p.candidate.ID)
}

func TestScoreCVPlaceholderWhenUnavailable(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)
	p.ai.embedErr = fmt.Errorf("%w: connection refused", service.ErrUnavailable)

	res, err := p.uc.ScoreCV(context.Background(), p.request(t))
	require.NoError(t, err)
	assert.True(t, res.Similarity.Simulated)
	assert.Equal(t, 75.0, res.Similarity.Percentage)

	ranking := p.store.rankings[res.ApplicationID]
	assert.Equal(t, 75.0, ranking.Score)
	assert.Equal(t, 0.75, ranking.SemanticScore)
	assert.Contains(t, ranking.Notes, "Placeholder")
	assert.Empty(t, p.store.embeddings)
	assert.Nil(t, p.store.offers[p.offer.ID].Embedding)
}

func TestScoreCVRollsBack(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)
	p.store.failRankings = true

	_, err := p.uc.ScoreCV(context.Background(), p.request(t))
	require.Error(t, err)

	assert.Empty(t, p.store.documents)
	assert.Empty(t, p.store.applications)
	assert.Empty(t, p.store.rankings)
	assert.Empty(t, p.store.embeddings)
	assert.Zero(t, p.storedFiles(t), "stored file removed")
}

func TestScoreCVLookupAndExtractionErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown offer", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(t)
		req := p.request(t)
		req.OfferID = uuid.New()

		_, err := p.uc.ScoreCV(context.Background(), req)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, p.storedFiles(t))
	})

	t.Run("unknown candidate", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(t)
		req := p.request(t)
		req.CandidateID = uuid.New()

		_, err := p.uc.ScoreCV(context.Background(), req)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no text", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(t)
		p.ex.err = extractor.ErrNoText

		_, err := p.uc.ScoreCV(context.Background(), p.request(t))
		assert.ErrorIs(t, err, extractor.ErrNoText)
		assert.Zero(t, p.storedFiles(t))
		assert.Empty(t, p.store.applications)
	})

	t.Run("not a pdf", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(t)
		req := p.request(t)
		req.File = pdfHeader(t, "cv.docx")

		_, err := p.uc.ScoreCV(context.Background(), req)
		assert.ErrorIs(t, err, extractor.ErrUnsupportedFile)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		p := newPipeline(t)
		req := p.request(t)
		req.File = nil

		_, err := p.uc.ScoreCV(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCompleteAnalysis(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)
	p.ai.chat = func(req service.ChatRequest) (string, error) {
		switch req.System {
		case service.SystemExtractCV:
			return `{"full_name": "Jane Q. Doe", "email": "jane@example.com", "summary": "Go developer",
				"experience": [{"position": "Engineer", "company": "Acme", "period": "2020-2024"}],
				"education": [{"degree": "BSc", "institution": "UNI"}], "skills": ["Go"]}`, nil
		case service.SystemInterviewer:
			assert.Contains(t, req.Prompt, "Go developer")
			return "1. One?\n2. Two?\n3. Three?\n4. Four?\n5. Five?", nil
		}
		return "", fmt.Errorf("unexpected prompt")
	}

	res, err := p.uc.CompleteAnalysis(context.Background(), p.request(t))
	require.NoError(t, err)

	assert.Equal(t, map[string]StepStatus{
		StepExtractText: StepOK,
		StepExtractData: StepOK,
		StepSimilarity:  StepOK,
		StepQuestions:   StepOK,
		StepPersist:     StepOK,
	}, res.Steps)
	assert.Equal(t, "jane@example.com", res.CVData.Email)
	assert.Len(t, res.Questions.Items, 5)

	candidate := p.store.candidates[p.candidate.ID]
	assert.Equal(t, "Jane Doe", candidate.FullName, "existing fields are kept")
	assert.Equal(t, "jane@example.com", candidate.Email, "empty fields are filled")
	assert.Len(t, p.store.experiences, 1)
	assert.Len(t, p.store.educations, 1)

	interview := p.store.interviews[res.ApplicationID]
	assert.Equal(t, res.PreInterviewID, interview.ID)
	assert.Equal(t, "Go developer", interview.Summary)
	require.NotNil(t, interview.Score)
	assert.Equal(t, res.Similarity.Percentage, *interview.Score)
	require.Len(t, interview.Questions, 5)
	assert.Equal(t, "One?", interview.Questions[0].Question)

	assert.Contains(t, p.store.rankings, res.ApplicationID)
	assert.Contains(t, p.store.embeddings, p.candidate.ID)
}

func TestCompleteAnalysisDegradesWithoutChat(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	res, err := p.uc.CompleteAnalysis(context.Background(), p.request(t))
	require.NoError(t, err)

	assert.Equal(t, StepFailed, res.Steps[StepExtractData])
	assert.Equal(t, StepOK, res.Steps[StepSimilarity])
	assert.Equal(t, StepSimulated, res.Steps[StepQuestions])
	assert.Nil(t, res.CVData)
	assert.Equal(t, StatusSuccessSimulated, res.Questions.Status)

	interview := p.store.interviews[res.ApplicationID]
	assert.Len(t, interview.Questions, questionCount)
	assert.True(t, strings.HasPrefix(interview.Summary, "Jane Doe"))
}

func TestCompleteAnalysisRollsBack(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)
	p.store.failRankings = true

	_, err := p.uc.CompleteAnalysis(context.Background(), p.request(t))
	require.Error(t, err)
	assert.Empty(t, p.store.documents)
	assert.Empty(t, p.store.interviews)
	assert.Zero(t, p.storedFiles(t))
}

func TestUploadDocument(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	doc, err := p.uc.UploadDocument(context.Background(), p.candidate.ID, pdfHeader(t, "cv.pdf"))
	require.NoError(t, err)
	assert.Equal(t, p.ex.text, doc.ExtractedText)
	assert.Contains(t, p.store.documents, doc.ID)
	assert.Empty(t, p.store.applications)

	_, err = p.uc.UploadDocument(context.Background(), uuid.New(), pdfHeader(t, "cv.pdf"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSimilarCandidates(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	other := model.Candidate{FullName: "John Roe"}
	require.NoError(t, p.store.Candidates().Create(context.Background(), &other))
	p.index.matches = []service.Match{
		{CandidateID: p.candidate.ID, Similarity: 0.91},
		{CandidateID: uuid.New(), Similarity: 0.8}, // deleted candidate
		{CandidateID: other.ID, Similarity: 0.42},
	}

	out, err := p.uc.SimilarCandidates(context.Background(), p.offer.ID, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Jane Doe", out[0].Candidate.FullName)
	assert.Equal(t, scoring.LevelExcellent, out[0].Level)
	assert.Equal(t, 42.0, out[1].Percentage)
	assert.NotNil(t, p.store.offers[p.offer.ID].Embedding)

	_, err = p.uc.SimilarCandidates(context.Background(), uuid.New(), 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReindex(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)
	ctx := context.Background()

	require.NoError(t, p.store.Embeddings().Upsert(ctx, &model.CVEmbedding{
		CandidateID: p.candidate.ID,
		Embedding:   pgvector.NewVector([]float32{1, 0, 0}),
		Model:       "fake-embed",
	}))
	legacy := uuid.New()
	require.NoError(t, p.store.Embeddings().Upsert(ctx, &model.CVEmbedding{
		CandidateID: legacy,
		Embedding:   pgvector.NewVector([]float32{0, 1, 0}),
		Model:       "old-model",
	}))

	res, err := p.uc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, &ReindexResult{Offers: 1, Candidates: 1, Stale: 1}, res)
	assert.Equal(t, "fake-embed", p.store.offers[p.offer.ID].EmbeddingModel)
	assert.Equal(t, []float32{1, 0, 0}, p.index.upserts[p.candidate.ID])
	assert.NotContains(t, p.index.upserts, legacy)
}

func TestScoreCVIgnoresOfferVectorFromOtherModel(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	stale := pgvector.NewVector([]float32{0, 0, 1})
	offer := p.store.offers[p.offer.ID]
	offer.Embedding = &stale
	offer.EmbeddingModel = "old-model"
	p.store.offers[p.offer.ID] = offer

	res, err := p.uc.ScoreCV(context.Background(), p.request(t))
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Similarity.Percentage)
	assert.Equal(t, 2, p.ai.embeds, "cv and offer text embedded")

	cached := p.store.offers[p.offer.ID]
	assert.Equal(t, "fake-embed", cached.EmbeddingModel)
	assert.Equal(t, []float32{1, 1, 0}, cached.Embedding.Slice())
}

func TestAnswerQuestion(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)
	ctx := context.Background()

	app := model.Application{CandidateID: p.candidate.ID, JobOfferID: p.offer.ID}
	require.NoError(t, p.store.Applications().Create(ctx, &app))
	interview := model.PreInterview{
		ApplicationID: app.ID,
		Questions: []model.PreInterviewQuestion{
			{Question: "How do you tune Postgres?"},
			{Question: "Why Go?"},
		},
	}
	require.NoError(t, p.store.Applications().CreatePreInterview(ctx, &interview))
	questionID := interview.Questions[0].ID

	var prompt string
	p.ai.chat = func(req service.ChatRequest) (string, error) {
		prompt = req.Prompt
		return `{"relevance": 5, "technical_depth": 4, "clarity": 4, "challenges_solutions": 3,
			"comment": "Solid indexing answer.", "follow_up_question": "And vacuum?"}`, nil
	}

	eval, err := p.uc.AnswerQuestion(ctx, questionID, "  EXPLAIN ANALYZE and indexes.  ")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, eval.Status)
	assert.Contains(t, prompt, "How do you tune Postgres?")

	saved := p.store.interviews[app.ID].Questions[0]
	assert.Equal(t, "EXPLAIN ANALYZE and indexes.", saved.Answer)
	assert.Equal(t, "Solid indexing answer.", saved.Feedback)
	require.NotNil(t, saved.Rating)
	assert.Equal(t, 4.0, *saved.Rating)
	assert.NotNil(t, saved.AnsweredAt)
	assert.Empty(t, p.store.interviews[app.ID].Questions[1].Answer)

	p.ai.chat = nil
	eval, err = p.uc.AnswerQuestion(ctx, questionID, "Retrying while offline.")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccessSimulated, eval.Status)
	saved = p.store.interviews[app.ID].Questions[0]
	assert.Equal(t, "Retrying while offline.", saved.Answer)
	assert.Nil(t, saved.Rating)
	assert.Empty(t, saved.Feedback)

	_, err = p.uc.AnswerQuestion(ctx, uuid.New(), "anything")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.uc.AnswerQuestion(ctx, questionID, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
