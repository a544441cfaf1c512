package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ponderrr/smartadvisor/internal/dto"
	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/pkg/apperror"
	"github.com/ponderrr/smartadvisor/internal/repository/contract"
	"github.com/ponderrr/smartadvisor/internal/repository/specification"
	"github.com/ponderrr/smartadvisor/internal/repository/unitofwork"
	"github.com/ponderrr/smartadvisor/pkg/catalog"
	"github.com/ponderrr/smartadvisor/pkg/generator"
)

// --- In-memory store and fakes ---

type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*entity.User
	prefs    map[uuid.UUID]*entity.UserPreferences
	recs     map[uuid.UUID]*entity.Recommendation
	question []*entity.RecommendationQuestion
	answer   []*entity.RecommendationAnswer
	item     []*entity.RecommendationItem
	history  []*entity.RecommendationHistoryEntry
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[uuid.UUID]*entity.User),
		prefs: make(map[uuid.UUID]*entity.UserPreferences),
		recs:  make(map[uuid.UUID]*entity.Recommendation),
	}
}

type memFactory struct {
	store *memStore
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

type memUow struct {
	store *memStore
}

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) UserRepository() contract.UserRepository {
	return &memUserRepo{store: u.store}
}
func (u *memUow) PreferencesRepository() contract.PreferencesRepository {
	return &memPrefsRepo{store: u.store}
}
func (u *memUow) RecommendationRepository() contract.RecommendationRepository {
	return &memRecRepo{store: u.store}
}
func (u *memUow) QuestionRepository() contract.QuestionRepository {
	return &memQuestionRepo{store: u.store}
}
func (u *memUow) AnswerRepository() contract.AnswerRepository {
	return &memAnswerRepo{store: u.store}
}
func (u *memUow) ItemRepository() contract.ItemRepository {
	return &memItemRepo{store: u.store}
}
func (u *memUow) HistoryRepository() contract.HistoryRepository {
	return &memHistoryRepo{store: u.store}
}
func (u *memUow) SavedItemRepository() contract.SavedItemRepository     { return nil }
func (u *memUow) SubscriptionRepository() contract.SubscriptionRepository { return nil }

type memUserRepo struct{ store *memStore }

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.users[user.Id] = user
	return nil
}
func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *memUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.store.users[byId.ID], nil
		}
	}
	return nil, nil
}
func (r *memUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *memUserRepo) CreateEmailVerificationToken(ctx context.Context, token *entity.EmailVerificationToken) error {
	return nil
}
func (r *memUserRepo) FindEmailVerificationToken(ctx context.Context, userId uuid.UUID, token string) (*entity.EmailVerificationToken, error) {
	return nil, nil
}
func (r *memUserRepo) DeleteEmailVerificationTokens(ctx context.Context, userId uuid.UUID) error {
	return nil
}
func (r *memUserRepo) CreatePasswordResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	return nil
}
func (r *memUserRepo) FindPasswordResetToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	return nil, nil
}
func (r *memUserRepo) MarkPasswordResetTokenUsed(ctx context.Context, id uuid.UUID) error {
	return nil
}
func (r *memUserRepo) CreateRefreshToken(ctx context.Context, token *entity.UserRefreshToken) error {
	return nil
}
func (r *memUserRepo) FindRefreshTokenByHash(ctx context.Context, hash string) (*entity.UserRefreshToken, error) {
	return nil, nil
}
func (r *memUserRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *memUserRepo) RevokeAllRefreshTokens(ctx context.Context, userId uuid.UUID) error { return nil }

type memPrefsRepo struct{ store *memStore }

func (r *memPrefsRepo) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.UserPreferences, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.prefs[userId], nil
}
func (r *memPrefsRepo) Upsert(ctx context.Context, prefs *entity.UserPreferences) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.prefs[prefs.UserId] = prefs
	return nil
}
func (r *memPrefsRepo) DeleteByUserId(ctx context.Context, userId uuid.UUID) error { return nil }

type memRecRepo struct{ store *memStore }

func (r *memRecRepo) Create(ctx context.Context, rec *entity.Recommendation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *rec
	r.store.recs[rec.Id] = &copied
	return nil
}
func (r *memRecRepo) Update(ctx context.Context, rec *entity.Recommendation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *rec
	r.store.recs[rec.Id] = &copied
	return nil
}
func (r *memRecRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recommendation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			if rec, found := r.store.recs[byId.ID]; found {
				copied := *rec
				return &copied, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}
func (r *memRecRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recommendation, error) {
	return nil, nil
}
func (r *memRecRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.recs)), nil
}

type memQuestionRepo struct{ store *memStore }

func (r *memQuestionRepo) CreateBatch(ctx context.Context, questions []*entity.RecommendationQuestion) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.question = append(r.store.question, questions...)
	return nil
}
func (r *memQuestionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationQuestion, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.RecommendationQuestion
	for _, q := range r.store.question {
		if matchesRecommendation(specs, q.RecommendationId) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

type memAnswerRepo struct{ store *memStore }

func (r *memAnswerRepo) CreateBatch(ctx context.Context, answers []*entity.RecommendationAnswer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.answer = append(r.store.answer, answers...)
	return nil
}
func (r *memAnswerRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationAnswer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wanted := make(map[uuid.UUID]bool)
	for _, spec := range specs {
		if byQ, ok := spec.(specification.ByQuestionIDs); ok {
			for _, id := range byQ.QuestionIDs {
				wanted[id] = true
			}
		}
	}
	var out []*entity.RecommendationAnswer
	for _, a := range r.store.answer {
		if len(wanted) == 0 || wanted[a.QuestionId] {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memItemRepo struct{ store *memStore }

func (r *memItemRepo) CreateBatch(ctx context.Context, items []*entity.RecommendationItem) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.item = append(r.store.item, items...)
	return nil
}
func (r *memItemRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecommendationItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			for _, item := range r.store.item {
				if item.Id == byId.ID {
					return item, nil
				}
			}
		}
	}
	return nil, nil
}
func (r *memItemRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.RecommendationItem
	for _, item := range r.store.item {
		if matchesRecommendation(specs, item.RecommendationId) {
			out = append(out, item)
		}
	}
	return out, nil
}
func (r *memItemRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.item)), nil
}

type memHistoryRepo struct{ store *memStore }

func (r *memHistoryRepo) CreateBatch(ctx context.Context, entries []*entity.RecommendationHistoryEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.history = append(r.store.history, entries...)
	return nil
}
func (r *memHistoryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecommendationHistoryEntry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.RecommendationHistoryEntry
	for _, e := range r.store.history {
		if matchesUser(specs, e.UserId) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	for _, spec := range specs {
		if p, ok := spec.(specification.Pagination); ok {
			if p.Offset >= len(out) {
				return nil, nil
			}
			end := p.Offset + p.Limit
			if end > len(out) {
				end = len(out)
			}
			out = out[p.Offset:end]
		}
	}
	return out, nil
}
func (r *memHistoryRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, e := range r.store.history {
		if matchesUser(specs, e.UserId) {
			n++
		}
	}
	return n, nil
}

func matchesRecommendation(specs []specification.Specification, recommendationId uuid.UUID) bool {
	for _, spec := range specs {
		if byRec, ok := spec.(specification.ByRecommendationID); ok {
			return byRec.RecommendationID == recommendationId
		}
	}
	return true
}

func matchesUser(specs []specification.Specification, userId uuid.UUID) bool {
	for _, spec := range specs {
		if owned, ok := spec.(specification.UserOwnedBy); ok {
			return owned.UserID == userId
		}
	}
	return true
}

// --- Scripted pipeline collaborators ---

type fakeQuestionSource struct {
	questions []generator.Question
	err       error

	lastCount     int
	lastPromptCtx generator.PromptContext
}

func (f *fakeQuestionSource) GenerateQuestions(ctx context.Context, contentType generator.ContentType, count int, promptCtx generator.PromptContext) ([]generator.Question, error) {
	f.lastCount = count
	f.lastPromptCtx = promptCtx
	if f.err != nil {
		return nil, f.err
	}
	return f.questions, nil
}

type fakeCandidateSource struct {
	set *generator.CandidateSet
	err error

	lastPairs []generator.QAPair
}

func (f *fakeCandidateSource) GenerateCandidates(ctx context.Context, contentType generator.ContentType, pairs []generator.QAPair, promptCtx generator.PromptContext) (*generator.CandidateSet, error) {
	f.lastPairs = pairs
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

// fakeEnricher serves enrichments by candidate title; unknown titles miss.
type fakeEnricher struct {
	byTitle map[string]*catalog.Enrichment
}

func (f *fakeEnricher) Enrich(ctx context.Context, candidate generator.Candidate) *catalog.Enrichment {
	if f.byTitle == nil {
		return nil
	}
	return f.byTitle[candidate.Title]
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.payloads = append(f.payloads, payload)
	return nil
}

type testLogger struct{}

func (testLogger) Debug(module, message string, details map[string]interface{}) {}
func (testLogger) Info(module, message string, details map[string]interface{})  {}
func (testLogger) Warn(module, message string, details map[string]interface{})  {}
func (testLogger) Error(module, message string, details map[string]interface{}) {}
func (testLogger) Sync() error                                                  { return nil }

type pipelineFixture struct {
	store           *memStore
	questionSource  *fakeQuestionSource
	candidateSource *fakeCandidateSource
	movieEnricher   *fakeEnricher
	bookEnricher    *fakeEnricher
	publisher       *fakePublisher
	service         IRecommendationService
	userId          uuid.UUID
}

func newPipelineFixture() *pipelineFixture {
	store := newMemStore()
	userId := uuid.New()
	store.users[userId] = &entity.User{
		Id:     userId,
		Email:  "reader@example.com",
		Status: entity.UserStatusActive,
	}

	f := &pipelineFixture{
		store:           store,
		questionSource:  &fakeQuestionSource{},
		candidateSource: &fakeCandidateSource{},
		movieEnricher:   &fakeEnricher{},
		bookEnricher:    &fakeEnricher{},
		publisher:       &fakePublisher{},
		userId:          userId,
	}
	f.service = NewRecommendationService(
		&memFactory{store: store},
		f.questionSource,
		f.candidateSource,
		f.movieEnricher,
		f.bookEnricher,
		f.publisher,
		nil,
		testLogger{},
	)
	return f
}

// seedSession plants a session with questions in the given status.
func (f *pipelineFixture) seedSession(status entity.RecommendationStatus, recType entity.RecommendationType, questionTexts ...string) *entity.Recommendation {
	rec := &entity.Recommendation{
		Id:        uuid.New(),
		UserId:    f.userId,
		Type:      recType,
		Status:    status,
		CreatedAt: time.Now(),
	}
	f.store.recs[rec.Id] = rec
	for i, text := range questionTexts {
		f.store.question = append(f.store.question, &entity.RecommendationQuestion{
			Id:               uuid.New(),
			RecommendationId: rec.Id,
			Text:             text,
			Order:            i + 1,
			CreatedAt:        time.Now(),
		})
	}
	return rec
}

func (f *pipelineFixture) questionsOf(recId uuid.UUID) []*entity.RecommendationQuestion {
	var out []*entity.RecommendationQuestion
	for _, q := range f.store.question {
		if q.RecommendationId == recId {
			out = append(out, q)
		}
	}
	return out
}

func (f *pipelineFixture) itemsOf(recId uuid.UUID) []*entity.RecommendationItem {
	var out []*entity.RecommendationItem
	for _, item := range f.store.item {
		if item.RecommendationId == recId {
			out = append(out, item)
		}
	}
	return out
}

func (f *pipelineFixture) answerAll(recId uuid.UUID, answerText string) {
	base := time.Now()
	for i, q := range f.questionsOf(recId) {
		f.store.answer = append(f.store.answer, &entity.RecommendationAnswer{
			Id:         uuid.New(),
			QuestionId: q.Id,
			Text:       answerText,
			CreatedAt:  base.Add(time.Duration(i) * time.Millisecond),
		})
	}
}

// --- GenerateQuestions ---

func TestGenerateQuestionsPersistsSession(t *testing.T) {
	f := newPipelineFixture()
	f.questionSource.questions = []generator.Question{
		{Text: "What genres do you enjoy?", Order: 1},
		{Text: "Recent or classic?", Order: 2},
		{Text: "How much time do you have?", Order: 3},
	}

	res, err := f.service.GenerateQuestions(context.Background(), f.userId, &dto.GenerateQuestionsRequest{
		Type:         "movie",
		NumQuestions: 3,
	})

	assert.NoError(t, err)
	assert.Equal(t, "questions_ready", res.Status)
	assert.Len(t, res.Questions, 3)
	assert.Equal(t, 3, f.questionSource.lastCount)

	rec := f.store.recs[res.Id]
	assert.NotNil(t, rec)
	assert.Equal(t, entity.RecommendationStatusQuestionsReady, rec.Status)
	assert.Len(t, f.questionsOf(res.Id), 3)
}

func TestGenerateQuestionsRejectsUnknownType(t *testing.T) {
	f := newPipelineFixture()

	_, err := f.service.GenerateQuestions(context.Background(), f.userId, &dto.GenerateQuestionsRequest{
		Type:         "podcast",
		NumQuestions: 5,
	})

	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestGenerateQuestionsUpstreamFailureLeavesNothingBehind(t *testing.T) {
	f := newPipelineFixture()
	f.questionSource.err = errors.New("model unreachable")

	_, err := f.service.GenerateQuestions(context.Background(), f.userId, &dto.GenerateQuestionsRequest{
		Type:         "book",
		NumQuestions: 5,
	})

	assert.True(t, apperror.IsKind(err, apperror.KindUpstreamGeneration))
	assert.Empty(t, f.store.recs)
	assert.Empty(t, f.store.question)
}

func TestGenerateQuestionsPassesUserContextToPrompt(t *testing.T) {
	f := newPipelineFixture()
	age := 12
	f.store.users[f.userId].Age = &age
	f.store.prefs[f.userId] = &entity.UserPreferences{
		UserId:                f.userId,
		RequireSubtitles:      true,
		ExcludeViolentContent: true,
		PreferredLanguage:     "es",
	}
	f.questionSource.questions = []generator.Question{{Text: "Q", Order: 1}}

	_, err := f.service.GenerateQuestions(context.Background(), f.userId, &dto.GenerateQuestionsRequest{
		Type:         "movie",
		NumQuestions: 1,
	})

	assert.NoError(t, err)
	assert.Equal(t, &age, f.questionSource.lastPromptCtx.UserAge)
	assert.Contains(t, f.questionSource.lastPromptCtx.AccessibilityNeeds, "subtitles required")
	assert.Contains(t, f.questionSource.lastPromptCtx.AccessibilityNeeds, "avoid violent content")
	assert.Equal(t, "es", f.questionSource.lastPromptCtx.PreferredLanguage)
}

// --- SubmitAnswers ---

func TestSubmitAnswersMovesSessionForward(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusQuestionsReady, entity.RecommendationTypeMovie, "Q1", "Q2")
	questions := f.questionsOf(rec.Id)

	res, err := f.service.SubmitAnswers(context.Background(), f.userId, &dto.SubmitAnswersRequest{
		Id: rec.Id,
		Answers: []dto.SubmitAnswerItem{
			{QuestionId: questions[0].Id, AnswerText: "action"},
			{QuestionId: questions[1].Id, AnswerText: "recent"},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, "answers_submitted", res.Status)
	assert.Equal(t, entity.RecommendationStatusAnswersSubmitted, f.store.recs[rec.Id].Status)
	assert.Len(t, f.store.answer, 2)
}

func TestSubmitAnswersRejectsWrongStatus(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusRecommendationsReady, entity.RecommendationTypeMovie, "Q1")
	questions := f.questionsOf(rec.Id)

	_, err := f.service.SubmitAnswers(context.Background(), f.userId, &dto.SubmitAnswersRequest{
		Id:      rec.Id,
		Answers: []dto.SubmitAnswerItem{{QuestionId: questions[0].Id, AnswerText: "x"}},
	})

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestSubmitAnswersRejectsUnknownQuestion(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusQuestionsReady, entity.RecommendationTypeMovie, "Q1")

	_, err := f.service.SubmitAnswers(context.Background(), f.userId, &dto.SubmitAnswersRequest{
		Id:      rec.Id,
		Answers: []dto.SubmitAnswerItem{{QuestionId: uuid.New(), AnswerText: "x"}},
	})

	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, f.store.answer)
	assert.Equal(t, entity.RecommendationStatusQuestionsReady, f.store.recs[rec.Id].Status)
}

func TestSubmitAnswersRejectsNonOwner(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusQuestionsReady, entity.RecommendationTypeMovie, "Q1")
	questions := f.questionsOf(rec.Id)

	_, err := f.service.SubmitAnswers(context.Background(), uuid.New(), &dto.SubmitAnswersRequest{
		Id:      rec.Id,
		Answers: []dto.SubmitAnswerItem{{QuestionId: questions[0].Id, AnswerText: "x"}},
	})

	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestSubmitAnswersUnknownSession(t *testing.T) {
	f := newPipelineFixture()

	_, err := f.service.SubmitAnswers(context.Background(), f.userId, &dto.SubmitAnswersRequest{
		Id:      uuid.New(),
		Answers: []dto.SubmitAnswerItem{{QuestionId: uuid.New(), AnswerText: "x"}},
	})

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

// --- GenerateRecommendations ---

func TestGenerateRecommendationsCommitsEnrichedItems(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusAnswersSubmitted, entity.RecommendationTypeBoth,
		"Q1", "Q2", "Q3", "Q4", "Q5")
	f.answerAll(rec.Id, "something thoughtful")

	f.candidateSource.set = &generator.CandidateSet{
		Movies: []generator.Candidate{{Title: "Arrival", Description: "Short blurb"}},
		Books:  []generator.Candidate{{Title: "Contact", Author: "Carl Sagan", Description: "Short blurb"}},
	}
	runtime := 116
	f.movieEnricher.byTitle = map[string]*catalog.Enrichment{
		"Arrival": {
			CatalogId:   "329865",
			PosterPath:  "https://img.example/arrival.jpg",
			ReleaseDate: "2016-11-11",
			Runtime:     &runtime,
			Description: "A linguist is recruited to communicate with visitors.",
		},
	}
	// Book lookup misses: the book commits with raw fields only.

	res, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)

	assert.NoError(t, err)
	assert.Equal(t, "recommendations_ready", res.Status)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, entity.RecommendationStatusRecommendationsReady, f.store.recs[rec.Id].Status)

	items := f.itemsOf(rec.Id)
	assert.Len(t, items, 2)

	var movie, book *entity.RecommendationItem
	for _, item := range items {
		switch item.ItemType {
		case entity.RecommendationTypeMovie:
			movie = item
		case entity.RecommendationTypeBook:
			book = item
		}
	}

	assert.NotNil(t, movie)
	assert.Equal(t, "Arrival", movie.Title)
	assert.Equal(t, "329865", *movie.CatalogId)
	assert.Equal(t, "2016-11-11", *movie.ReleaseDate)
	assert.Equal(t, 116, *movie.Runtime)
	// Short generator description gets replaced by the catalog's.
	assert.Equal(t, "A linguist is recruited to communicate with visitors.", movie.Description)

	assert.NotNil(t, book)
	assert.Equal(t, "Contact", book.Title)
	assert.Nil(t, book.CatalogId)
	assert.Equal(t, "Short blurb", book.Description)
}

func TestGenerateRecommendationsAllEnrichmentsMissStillCommits(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusAnswersSubmitted, entity.RecommendationTypeMovie, "Q1")
	f.answerAll(rec.Id, "anything")

	f.candidateSource.set = &generator.CandidateSet{
		Movies: []generator.Candidate{{Title: "Sample One", Description: "Raw description"}},
		Books:  []generator.Candidate{},
	}

	res, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)

	assert.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, "Sample One", res.Items[0].Title)
	assert.Nil(t, res.Items[0].CatalogId)
	assert.Equal(t, entity.RecommendationStatusRecommendationsReady, f.store.recs[rec.Id].Status)
}

func TestGenerateRecommendationsUpstreamFailureKeepsSessionRetryable(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusAnswersSubmitted, entity.RecommendationTypeMovie, "Q1")
	f.answerAll(rec.Id, "anything")

	f.candidateSource.err = errors.New("response was not valid JSON")

	_, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)

	assert.True(t, apperror.IsKind(err, apperror.KindUpstreamGeneration))
	assert.Equal(t, entity.RecommendationStatusAnswersSubmitted, f.store.recs[rec.Id].Status)
	assert.Empty(t, f.store.item)
}

func TestGenerateRecommendationsNoTitledCandidatesFailsSession(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusAnswersSubmitted, entity.RecommendationTypeMovie, "Q1")
	f.answerAll(rec.Id, "anything")

	f.candidateSource.set = &generator.CandidateSet{
		Movies: []generator.Candidate{{Title: "   "}, {Title: ""}},
		Books:  []generator.Candidate{},
	}

	_, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)

	assert.True(t, apperror.IsKind(err, apperror.KindTotalLoss))
	assert.Equal(t, entity.RecommendationStatusFailed, f.store.recs[rec.Id].Status)
	assert.Empty(t, f.store.item)
}

func TestGenerateRecommendationsUntitledCandidateDroppedOthersCommit(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusAnswersSubmitted, entity.RecommendationTypeMovie, "Q1")
	f.answerAll(rec.Id, "anything")

	f.candidateSource.set = &generator.CandidateSet{
		Movies: []generator.Candidate{{Title: "Sample One"}, {Title: ""}},
		Books:  []generator.Candidate{},
	}

	res, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)

	assert.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, "Sample One", res.Items[0].Title)
}

func TestGenerateRecommendationsLatestAnswerWins(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusAnswersSubmitted, entity.RecommendationTypeMovie, "Q1")
	question := f.questionsOf(rec.Id)[0]

	base := time.Now()
	f.store.answer = append(f.store.answer,
		&entity.RecommendationAnswer{Id: uuid.New(), QuestionId: question.Id, Text: "first thoughts", CreatedAt: base},
		&entity.RecommendationAnswer{Id: uuid.New(), QuestionId: question.Id, Text: "changed my mind", CreatedAt: base.Add(time.Second)},
	)

	f.candidateSource.set = &generator.CandidateSet{
		Movies: []generator.Candidate{{Title: "Sample One"}},
		Books:  []generator.Candidate{},
	}

	_, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)

	assert.NoError(t, err)
	assert.Len(t, f.candidateSource.lastPairs, 1)
	assert.Equal(t, "changed my mind", f.candidateSource.lastPairs[0].Answer)
}

func TestGenerateRecommendationsOmitsUnansweredQuestions(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusAnswersSubmitted, entity.RecommendationTypeMovie, "Q1", "Q2", "Q3")
	questions := f.questionsOf(rec.Id)

	// Only the first and third questions get answers.
	base := time.Now()
	f.store.answer = append(f.store.answer,
		&entity.RecommendationAnswer{Id: uuid.New(), QuestionId: questions[0].Id, Text: "a1", CreatedAt: base},
		&entity.RecommendationAnswer{Id: uuid.New(), QuestionId: questions[2].Id, Text: "a3", CreatedAt: base.Add(time.Millisecond)},
	)

	f.candidateSource.set = &generator.CandidateSet{
		Movies: []generator.Candidate{{Title: "Sample One"}},
		Books:  []generator.Candidate{},
	}

	_, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)

	assert.NoError(t, err)
	assert.Len(t, f.candidateSource.lastPairs, 2)
	assert.Equal(t, "Q1", f.candidateSource.lastPairs[0].Question)
	assert.Equal(t, "Q3", f.candidateSource.lastPairs[1].Question)
}

func TestGenerateRecommendationsRejectsWrongStatus(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusQuestionsReady, entity.RecommendationTypeMovie, "Q1")

	_, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)

	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestGenerateRecommendationsPublishesHistoryMessage(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusAnswersSubmitted, entity.RecommendationTypeMovie, "Q1")
	f.answerAll(rec.Id, "anything")

	f.candidateSource.set = &generator.CandidateSet{
		Movies: []generator.Candidate{{Title: "Sample One"}},
		Books:  []generator.Candidate{},
	}

	_, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)
	assert.NoError(t, err)

	assert.Len(t, f.publisher.payloads, 1)
	var msg dto.PublishRecommendationCompletedMessage
	assert.NoError(t, json.Unmarshal(f.publisher.payloads[0], &msg))
	assert.Equal(t, rec.Id, msg.RecommendationId)
	assert.Equal(t, f.userId, msg.UserId)
	assert.Equal(t, []string{"Sample One"}, msg.Titles)
}

func TestGenerateRecommendationsPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusAnswersSubmitted, entity.RecommendationTypeMovie, "Q1")
	f.answerAll(rec.Id, "anything")

	f.candidateSource.set = &generator.CandidateSet{
		Movies: []generator.Candidate{{Title: "Sample One"}},
		Books:  []generator.Candidate{},
	}
	f.publisher.err = errors.New("bus is down")

	res, err := f.service.GenerateRecommendations(context.Background(), f.userId, rec.Id)

	assert.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

// --- Get and History ---

func TestGetReturnsSessionWithQuestionsAndItems(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusRecommendationsReady, entity.RecommendationTypeMovie, "Q1", "Q2")
	f.store.item = append(f.store.item, &entity.RecommendationItem{
		Id:               uuid.New(),
		RecommendationId: rec.Id,
		ItemType:         entity.RecommendationTypeMovie,
		Title:            "Sample One",
		CreatedAt:        time.Now(),
	})

	res, err := f.service.Get(context.Background(), f.userId, rec.Id)

	assert.NoError(t, err)
	assert.Len(t, res.Questions, 2)
	assert.Len(t, res.Items, 1)
	assert.NotNil(t, res.Items[0].Genres)
}

func TestGetRejectsNonOwner(t *testing.T) {
	f := newPipelineFixture()
	rec := f.seedSession(entity.RecommendationStatusRecommendationsReady, entity.RecommendationTypeMovie)

	_, err := f.service.Get(context.Background(), uuid.New(), rec.Id)

	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestHistoryPaginates(t *testing.T) {
	f := newPipelineFixture()
	base := time.Now()
	for i := 0; i < 25; i++ {
		f.store.history = append(f.store.history, &entity.RecommendationHistoryEntry{
			Id:        uuid.New(),
			UserId:    f.userId,
			Title:     "Title",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	// Another user's history must not leak in.
	f.store.history = append(f.store.history, &entity.RecommendationHistoryEntry{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Title:     "Not yours",
		CreatedAt: base,
	})

	page1, err := f.service.History(context.Background(), f.userId, 1)
	assert.NoError(t, err)
	assert.Len(t, page1.Entries, 20)
	assert.Equal(t, int64(25), page1.Total)

	page2, err := f.service.History(context.Background(), f.userId, 2)
	assert.NoError(t, err)
	assert.Len(t, page2.Entries, 5)
	assert.Equal(t, 2, page2.Page)
}
