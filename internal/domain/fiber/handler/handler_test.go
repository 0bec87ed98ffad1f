package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/hiring-assistant/internal/config"
	"github.com/fadilmartias/hiring-assistant/internal/extractor"
	"github.com/fadilmartias/hiring-assistant/internal/model"
	"github.com/fadilmartias/hiring-assistant/internal/repository"
	"github.com/fadilmartias/hiring-assistant/internal/service"
	"github.com/fadilmartias/hiring-assistant/internal/usecase"
)

type stubRegistry struct {
	repository.Registry
	companies map[uuid.UUID]model.Company
}

func (s *stubRegistry) Companies() repository.CompanyRepository { return stubCompanies{s} }
func (s *stubRegistry) Offers() repository.JobOfferRepository   { return stubOffers{} }
func (s *stubRegistry) Applications() repository.ApplicationRepository {
	return stubApplications{}
}

type stubApplications struct {
	repository.ApplicationRepository
}

func (stubApplications) FindQuestion(context.Context, uuid.UUID) (*model.PreInterviewQuestion, error) {
	return nil, repository.ErrNotFound
}

type stubCompanies struct{ s *stubRegistry }

func (r stubCompanies) Create(_ context.Context, c *model.Company) error {
	c.ID = uuid.New()
	r.s.companies[c.ID] = *c
	return nil
}

func (r stubCompanies) FindByID(_ context.Context, id uuid.UUID) (*model.Company, error) {
	c, ok := r.s.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r stubCompanies) List(context.Context, repository.Page) ([]model.Company, int64, error) {
	out := make([]model.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

type stubOffers struct{ repository.JobOfferRepository }

func (stubOffers) FindByID(context.Context, uuid.UUID) (*model.JobOffer, error) {
	return nil, repository.ErrNotFound
}

type stubAI struct {
	unavailable bool
}

func (a stubAI) Embed(_ context.Context, text string) ([]float32, error) {
	if a.unavailable {
		return nil, service.ErrUnavailable
	}
	if strings.Contains(strings.ToLower(text), "go") {
		return []float32{1, 0}, nil
	}
	return []float32{0, 1}, nil
}

func (a stubAI) Chat(context.Context, service.ChatRequest) (string, error) {
	if a.unavailable {
		return "", service.ErrUnavailable
	}
	return "1. Why Go?", nil
}

func (stubAI) Provider() string   { return "stub" }
func (stubAI) EmbedModel() string { return "stub-embed" }
func (stubAI) ChatModel() string  { return "stub-chat" }

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Details    json.RawMessage `json:"details"`
	Pagination *struct {
		TotalItems int64 `json:"total_items"`
	} `json:"pagination"`
}

func newTestApp(t *testing.T, ai service.InferenceService) *fiber.App {
	t.Helper()

	store := &stubRegistry{companies: map[uuid.UUID]model.Company{}}
	storage, err := service.NewFileStorage(&config.StorageConfig{UploadDir: t.TempDir(), MaxUploadSize: 1 << 20})
	require.NoError(t, err)

	analysis := usecase.NewAnalysisUsecase(ai, 0.75, nil)
	uc := Usecases{
		Catalog:  usecase.NewCatalogUsecase(store),
		Analysis: analysis,
		Processing: usecase.NewProcessingUsecase(store, storage,
			extractor.New(&config.StorageConfig{PDFEngine: config.PDFEnginePure}, nil),
			analysis, ai, service.NewPgvectorIndex(nil, "stub-embed"), nil),
	}

	app := fiber.New()
	RegisterRoutes(app, uc, func(c *fiber.Ctx) error { return c.Next() })
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env), string(body))
	return resp.StatusCode, env
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCompanyRoutes(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, stubAI{})

	code, env := do(t, app, jsonRequest("POST", "/companies", `{"name": "Acme", "tax_id": "20123456789"}`))
	assert.Equal(t, fiber.StatusCreated, code)
	assert.True(t, env.Success)

	var company model.Company
	require.NoError(t, json.Unmarshal(env.Data, &company))
	assert.Equal(t, "Acme", company.Name)

	code, env = do(t, app, httptest.NewRequest("GET", "/companies/"+company.ID.String(), nil))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), "Acme")

	code, env = do(t, app, httptest.NewRequest("GET", "/companies", nil))
	assert.Equal(t, fiber.StatusOK, code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.TotalItems)
}

func TestCompanyRouteErrors(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, stubAI{})

	tests := []struct {
		name     string
		req      *http.Request
		wantCode int
		wantIn   string
	}{
		{name: "missing name", req: jsonRequest("POST", "/companies", `{}`), wantCode: fiber.StatusBadRequest, wantIn: "name"},
		{name: "malformed body", req: jsonRequest("POST", "/companies", `{"name":`), wantCode: fiber.StatusBadRequest},
		{name: "bad id", req: httptest.NewRequest("GET", "/companies/42", nil), wantCode: fiber.StatusBadRequest, wantIn: "id"},
		{name: "unknown id", req: httptest.NewRequest("GET", "/companies/"+uuid.NewString(), nil), wantCode: fiber.StatusNotFound},
	}

	for _, tt := range tests {
		code, env := do(t, app, tt.req)
		assert.Equal(t, tt.wantCode, code, tt.name)
		assert.False(t, env.Success, tt.name)
		if tt.wantIn != "" {
			assert.Contains(t, string(env.Details), tt.wantIn, tt.name)
		}
	}
}

func TestSimilarityRoute(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, stubAI{})
	code, env := do(t, app, jsonRequest("POST", "/processing/similarity",
		`{"cv_summary": "Go developer", "job_description": "We use Go"}`))
	assert.Equal(t, fiber.StatusOK, code)

	var sim struct {
		Percentage float64 `json:"percentage"`
		Level      string  `json:"level"`
		Simulated  bool    `json:"simulated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sim))
	assert.Equal(t, 100.0, sim.Percentage)
	assert.Equal(t, "Excellent", sim.Level)
	assert.False(t, sim.Simulated)

	code, _ = do(t, app, jsonRequest("POST", "/processing/similarity", `{"cv_summary": ""}`))
	assert.Equal(t, fiber.StatusBadRequest, code)

	app = newTestApp(t, stubAI{unavailable: true})
	code, env = do(t, app, jsonRequest("POST", "/processing/similarity",
		`{"cv_summary": "Go developer", "job_description": "We use Go"}`))
	assert.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &sim))
	assert.Equal(t, 75.0, sim.Percentage)
	assert.True(t, sim.Simulated)
}

func TestInterviewRoutes(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, stubAI{unavailable: true})
	code, env := do(t, app, jsonRequest("POST", "/interviews/questions",
		`{"cv_summary": "Go developer", "job_description": "Backend"}`))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), usecase.StatusSuccessSimulated)

	code, env = do(t, app, jsonRequest("POST", "/interviews/evaluate", `{"question": "Why?", "answer": "Because."}`))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(env.Data), `"relevance":3`)

	code, _ = do(t, app, jsonRequest("POST", "/interviews/evaluate",
		`{"question_id": "`+uuid.NewString()+`", "answer": "Because."}`))
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = do(t, app, jsonRequest("POST", "/interviews/evaluate", `{"question_id": "nope", "answer": "Because."}`))
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, httptest.NewRequest("GET", "/interviews/nope", nil))
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestScoreRouteValidation(t *testing.T) {
	t.Parallel()
	app := newTestApp(t, stubAI{})

	multipartReq := func(query string, withFile bool) *http.Request {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if withFile {
			fw, err := mw.CreateFormFile("file", "cv.pdf")
			require.NoError(t, err)
			_, _ = fw.Write([]byte("%PDF-1.4"))
		}
		require.NoError(t, mw.Close())
		req := httptest.NewRequest("POST", "/processing/score?"+query, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return req
	}

	ids := fmt.Sprintf("candidate_id=%s&offer_id=%s", uuid.NewString(), uuid.NewString())

	code, env := do(t, app, multipartReq("candidate_id=x&offer_id=y", true))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, string(env.Details), "candidate_id")

	code, env = do(t, app, multipartReq(ids, false))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, string(env.Details), "file")

	code, _ = do(t, app, multipartReq(ids, true))
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestErrorResponseMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", usecase.ErrInvalidInput), fiber.StatusBadRequest},
		{fmt.Errorf("%w: x", usecase.ErrNotFound), fiber.StatusNotFound},
		{extractor.ErrUnsupportedFile, fiber.StatusUnprocessableEntity},
		{extractor.ErrNoText, fiber.StatusUnprocessableEntity},
		{fmt.Errorf("%w: fitz: cannot open document", extractor.ErrUnreadableFile), fiber.StatusUnprocessableEntity},
		{service.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},
		{&usecase.ParseError{What: "cv data", Raw: "?"}, fiber.StatusBadGateway},
		{fmt.Errorf("chat: %w", service.ErrUnavailable), fiber.StatusServiceUnavailable},
		{fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), fiber.StatusMethodNotAllowed},
		{errors.New("pq: connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, tt.err) })

		code, env := do(t, app, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, tt.want, code, tt.err.Error())
		assert.False(t, env.Success)
		if tt.want == fiber.StatusInternalServerError {
			assert.Equal(t, "internal server error", env.Message)
		}
	}
}
