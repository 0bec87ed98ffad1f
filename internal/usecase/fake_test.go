package usecase

import (
	"context"
	"errors"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/fadilmartias/hiring-assistant/internal/extractor"
	"github.com/fadilmartias/hiring-assistant/internal/model"
	"github.com/fadilmartias/hiring-assistant/internal/repository"
	"github.com/fadilmartias/hiring-assistant/internal/service"
)

// memStore is an in-memory Registry. Transaction works on a copy and only
// publishes it when fn succeeds.
type memStore struct {
	companies    map[uuid.UUID]model.Company
	offers       map[uuid.UUID]model.JobOffer
	candidates   map[uuid.UUID]model.Candidate
	experiences  []model.CVExperience
	educations   []model.CVEducation
	documents    map[uuid.UUID]model.CVDocument
	applications map[uuid.UUID]model.Application
	rankings     map[uuid.UUID]model.Ranking      // by application
	interviews   map[uuid.UUID]model.PreInterview // by application
	embeddings   map[uuid.UUID]model.CVEmbedding  // by candidate

	// failRankings makes CreateRanking fail, to exercise rollbacks.
	failRankings bool
}

func newMemStore() *memStore {
	return &memStore{
		companies:    map[uuid.UUID]model.Company{},
		offers:       map[uuid.UUID]model.JobOffer{},
		candidates:   map[uuid.UUID]model.Candidate{},
		documents:    map[uuid.UUID]model.CVDocument{},
		applications: map[uuid.UUID]model.Application{},
		rankings:     map[uuid.UUID]model.Ranking{},
		interviews:   map[uuid.UUID]model.PreInterview{},
		embeddings:   map[uuid.UUID]model.CVEmbedding{},
	}
}

func (s *memStore) clone() *memStore {
	c := *s
	c.companies = maps.Clone(s.companies)
	c.offers = maps.Clone(s.offers)
	c.candidates = maps.Clone(s.candidates)
	c.experiences = append([]model.CVExperience(nil), s.experiences...)
	c.educations = append([]model.CVEducation(nil), s.educations...)
	c.documents = maps.Clone(s.documents)
	c.applications = maps.Clone(s.applications)
	c.rankings = maps.Clone(s.rankings)
	c.interviews = maps.Clone(s.interviews)
	c.embeddings = maps.Clone(s.embeddings)
	return &c
}

func (s *memStore) Companies() repository.CompanyRepository        { return memCompanies{s} }
func (s *memStore) Offers() repository.JobOfferRepository          { return memOffers{s} }
func (s *memStore) Candidates() repository.CandidateRepository     { return memCandidates{s} }
func (s *memStore) Documents() repository.DocumentRepository       { return memDocuments{s} }
func (s *memStore) Applications() repository.ApplicationRepository { return memApplications{s} }
func (s *memStore) Embeddings() repository.EmbeddingRepository     { return memEmbeddings{s} }

func (s *memStore) Transaction(_ context.Context, fn func(tx repository.Registry) error) error {
	tx := s.clone()
	if err := fn(tx); err != nil {
		return err
	}
	*s = *tx
	return nil
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func notFound(what string) error {
	return errors.Join(repository.ErrNotFound, errors.New(what))
}

func paginate[T any](items []T, page repository.Page) []T {
	page = page.Normalize()
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	return items[start:min(start+page.Size, len(items))]
}

type memCompanies struct{ s *memStore }

func (r memCompanies) Create(_ context.Context, c *model.Company) error {
	newID(&c.ID)
	r.s.companies[c.ID] = *c
	return nil
}

func (r memCompanies) FindByID(_ context.Context, id uuid.UUID) (*model.Company, error) {
	c, ok := r.s.companies[id]
	if !ok {
		return nil, notFound("company")
	}
	return &c, nil
}

func (r memCompanies) List(_ context.Context, page repository.Page) ([]model.Company, int64, error) {
	all := make([]model.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return paginate(all, page), int64(len(all)), nil
}

type memOffers struct{ s *memStore }

func (r memOffers) Create(_ context.Context, o *model.JobOffer) error {
	newID(&o.ID)
	r.s.offers[o.ID] = *o
	return nil
}

func (r memOffers) FindByID(_ context.Context, id uuid.UUID) (*model.JobOffer, error) {
	o, ok := r.s.offers[id]
	if !ok {
		return nil, notFound("job offer")
	}
	return &o, nil
}

func (r memOffers) List(_ context.Context, f repository.OfferFilter, page repository.Page) ([]model.JobOffer, int64, error) {
	var all []model.JobOffer
	for _, o := range r.s.offers {
		if f.CompanyID != nil && o.CompanyID != *f.CompanyID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	return paginate(all, page), int64(len(all)), nil
}

func (r memOffers) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := r.s.offers[id]
	if !ok {
		return notFound("job offer")
	}
	o.Status = status
	r.s.offers[id] = o
	return nil
}

func (r memOffers) UpdateEmbedding(_ context.Context, id uuid.UUID, v pgvector.Vector, embedModel string) error {
	o, ok := r.s.offers[id]
	if !ok {
		return notFound("job offer")
	}
	o.Embedding = &v
	o.EmbeddingModel = embedModel
	r.s.offers[id] = o
	return nil
}

func (r memOffers) ListMissingEmbedding(_ context.Context, embedModel string, limit int) ([]model.JobOffer, error) {
	var out []model.JobOffer
	for _, o := range r.s.offers {
		if o.CachedEmbedding(embedModel) == nil && len(out) < limit {
			out = append(out, o)
		}
	}
	return out, nil
}

type memCandidates struct{ s *memStore }

func (r memCandidates) Create(_ context.Context, c *model.Candidate) error {
	newID(&c.ID)
	r.s.candidates[c.ID] = *c
	return nil
}

func (r memCandidates) FindByID(_ context.Context, id uuid.UUID) (*model.Candidate, error) {
	c, ok := r.s.candidates[id]
	if !ok {
		return nil, notFound("candidate")
	}
	return &c, nil
}

func (r memCandidates) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Candidate, error) {
	var out []model.Candidate
	for _, id := range ids {
		if c, ok := r.s.candidates[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCandidates) List(_ context.Context, page repository.Page) ([]model.Candidate, int64, error) {
	all := make([]model.Candidate, 0, len(r.s.candidates))
	for _, c := range r.s.candidates {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FullName < all[j].FullName })
	return paginate(all, page), int64(len(all)), nil
}

func (r memCandidates) Update(_ context.Context, c *model.Candidate) error {
	if _, ok := r.s.candidates[c.ID]; !ok {
		return notFound("candidate")
	}
	r.s.candidates[c.ID] = *c
	return nil
}

func (r memCandidates) AddExperiences(_ context.Context, e []model.CVExperience) error {
	r.s.experiences = append(r.s.experiences, e...)
	return nil
}

func (r memCandidates) AddEducations(_ context.Context, e []model.CVEducation) error {
	r.s.educations = append(r.s.educations, e...)
	return nil
}

type memDocuments struct{ s *memStore }

func (r memDocuments) Create(_ context.Context, d *model.CVDocument) error {
	newID(&d.ID)
	r.s.documents[d.ID] = *d
	return nil
}

func (r memDocuments) FindByID(_ context.Context, id uuid.UUID) (*model.CVDocument, error) {
	d, ok := r.s.documents[id]
	if !ok {
		return nil, notFound("cv document")
	}
	return &d, nil
}

func (r memDocuments) List(_ context.Context, candidateID *uuid.UUID, page repository.Page) ([]model.CVDocument, int64, error) {
	var all []model.CVDocument
	for _, d := range r.s.documents {
		if candidateID == nil || d.CandidateID == *candidateID {
			all = append(all, d)
		}
	}
	return paginate(all, page), int64(len(all)), nil
}

type memApplications struct{ s *memStore }

func (r memApplications) Create(_ context.Context, a *model.Application) error {
	newID(&a.ID)
	r.s.applications[a.ID] = *a
	return nil
}

func (r memApplications) CreateRanking(_ context.Context, rk *model.Ranking) error {
	if r.s.failRankings {
		return errors.New("rankings table is gone")
	}
	if _, ok := r.s.applications[rk.ApplicationID]; !ok {
		return errors.New("foreign key violation: application")
	}
	if _, dup := r.s.rankings[rk.ApplicationID]; dup {
		return errors.New("unique violation: application_id")
	}
	newID(&rk.ID)
	rk.CreatedAt = time.Now()
	r.s.rankings[rk.ApplicationID] = *rk
	return nil
}

func (r memApplications) FindRankingByApplication(_ context.Context, id uuid.UUID) (*model.Ranking, error) {
	rk, ok := r.s.rankings[id]
	if !ok {
		return nil, notFound("ranking")
	}
	return &rk, nil
}

func (r memApplications) RankingByOffer(_ context.Context, offerID uuid.UUID, limit int) ([]repository.RankedApplication, error) {
	var rows []repository.RankedApplication
	for _, a := range r.s.applications {
		rk, ok := r.s.rankings[a.ID]
		if a.JobOfferID != offerID || !ok {
			continue
		}
		c := r.s.candidates[a.CandidateID]
		rows = append(rows, repository.RankedApplication{
			ApplicationID: a.ID,
			CandidateID:   c.ID,
			FullName:      c.FullName,
			Email:         c.Email,
			Score:         rk.Score,
			SemanticScore: rk.SemanticScore,
			Notes:         rk.Notes,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r memApplications) CreatePreInterview(_ context.Context, p *model.PreInterview) error {
	newID(&p.ID)
	for i := range p.Questions {
		newID(&p.Questions[i].ID)
		p.Questions[i].PreInterviewID = p.ID
	}
	r.s.interviews[p.ApplicationID] = *p
	return nil
}

func (r memApplications) FindPreInterviewByApplication(_ context.Context, id uuid.UUID) (*model.PreInterview, error) {
	p, ok := r.s.interviews[id]
	if !ok {
		return nil, notFound("pre-interview")
	}
	return &p, nil
}

func (r memApplications) FindQuestion(_ context.Context, id uuid.UUID) (*model.PreInterviewQuestion, error) {
	for _, p := range r.s.interviews {
		for _, q := range p.Questions {
			if q.ID == id {
				return &q, nil
			}
		}
	}
	return nil, notFound("pre-interview question")
}

func (r memApplications) SaveAnswer(_ context.Context, question *model.PreInterviewQuestion) error {
	for appID, p := range r.s.interviews {
		for i, q := range p.Questions {
			if q.ID != question.ID {
				continue
			}
			questions := append([]model.PreInterviewQuestion(nil), p.Questions...)
			questions[i].Answer = question.Answer
			questions[i].Feedback = question.Feedback
			questions[i].Rating = question.Rating
			questions[i].AnsweredAt = question.AnsweredAt
			p.Questions = questions
			r.s.interviews[appID] = p
			return nil
		}
	}
	return notFound("pre-interview question")
}

type memEmbeddings struct{ s *memStore }

func (r memEmbeddings) Upsert(_ context.Context, e *model.CVEmbedding) error {
	newID(&e.ID)
	r.s.embeddings[e.CandidateID] = *e
	return nil
}

func (r memEmbeddings) FindByCandidate(_ context.Context, id uuid.UUID) (*model.CVEmbedding, error) {
	e, ok := r.s.embeddings[id]
	if !ok {
		return nil, notFound("cv embedding")
	}
	return &e, nil
}

func (r memEmbeddings) List(_ context.Context, limit int) ([]model.CVEmbedding, error) {
	var out []model.CVEmbedding
	for _, e := range r.s.embeddings {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, e)
	}
	return out, nil
}

func (r memEmbeddings) SearchNearest(context.Context, pgvector.Vector, string, int) ([]repository.EmbeddingMatch, error) {
	return nil, errors.New("not supported in memory")
}

// fakeAI embeds by keyword so similarity is predictable: every text becomes
// a vector of keyword counts.
type fakeAI struct {
	keywords []string
	chat     func(req service.ChatRequest) (string, error)
	embedErr error
	embeds   int
}

func (f *fakeAI) Embed(_ context.Context, text string) ([]float32, error) {
	f.embeds++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	lower := strings.ToLower(text)
	vec := make([]float32, len(f.keywords))
	for i, k := range f.keywords {
		vec[i] = float32(strings.Count(lower, k))
	}
	return vec, nil
}

func (f *fakeAI) Chat(_ context.Context, req service.ChatRequest) (string, error) {
	if f.chat == nil {
		return "", service.ErrUnavailable
	}
	return f.chat(req)
}

func (f *fakeAI) Provider() string   { return "fake" }
func (f *fakeAI) EmbedModel() string { return "fake-embed" }
func (f *fakeAI) ChatModel() string  { return "fake-chat" }

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(context.Context, string) (*extractor.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &extractor.Document{Text: f.text, Pages: 1, Engine: "fake"}, nil
}

type fakeIndex struct {
	upserts map[uuid.UUID][]float32
	matches []service.Match
}

func (f *fakeIndex) Name() string { return "fake" }

func (f *fakeIndex) Upsert(_ context.Context, id uuid.UUID, v []float32) error {
	if f.upserts == nil {
		f.upserts = map[uuid.UUID][]float32{}
	}
	f.upserts[id] = v
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, limit int) ([]service.Match, error) {
	if len(f.matches) > limit {
		return f.matches[:limit], nil
	}
	return f.matches, nil
}
