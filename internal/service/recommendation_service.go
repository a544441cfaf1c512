package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ponderrr/smartadvisor/internal/dto"
	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/pkg/apperror"
	"github.com/ponderrr/smartadvisor/internal/pkg/logger"
	"github.com/ponderrr/smartadvisor/internal/repository/specification"
	"github.com/ponderrr/smartadvisor/internal/repository/unitofwork"
	"github.com/ponderrr/smartadvisor/pkg/catalog"
	"github.com/ponderrr/smartadvisor/pkg/events"
	"github.com/ponderrr/smartadvisor/pkg/generator"
	pktNats "github.com/ponderrr/smartadvisor/pkg/nats"
)

const (
	// Generative calls are fatal on timeout, so they get a generous budget.
	generationTimeout = 60 * time.Second

	// Catalog lookups are best effort: a small per-call budget, a bound on
	// in-flight lookups, and an overall deadline for the whole fan-out.
	// Candidates whose lookup misses the deadline commit with raw fields.
	enrichmentConcurrency   = 4
	enrichmentCallTimeout   = 10 * time.Second
	enrichmentPhaseDeadline = 30 * time.Second

	historyPageSize = 20
)

type IRecommendationService interface {
	GenerateQuestions(ctx context.Context, userId uuid.UUID, req *dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error)
	SubmitAnswers(ctx context.Context, userId uuid.UUID, req *dto.SubmitAnswersRequest) (*dto.SubmitAnswersResponse, error)
	GenerateRecommendations(ctx context.Context, userId uuid.UUID, recommendationId uuid.UUID) (*dto.RecommendationResponse, error)
	Get(ctx context.Context, userId uuid.UUID, recommendationId uuid.UUID) (*dto.RecommendationResponse, error)
	History(ctx context.Context, userId uuid.UUID, page int) (*dto.HistoryResponse, error)
}

type recommendationService struct {
	uowFactory       unitofwork.RepositoryFactory
	questionSource   generator.QuestionSource
	candidateSource  generator.CandidateSource
	movieEnricher    catalog.Enricher
	bookEnricher     catalog.Enricher
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	log              logger.ILogger
}

func NewRecommendationService(
	uowFactory unitofwork.RepositoryFactory,
	questionSource generator.QuestionSource,
	candidateSource generator.CandidateSource,
	movieEnricher catalog.Enricher,
	bookEnricher catalog.Enricher,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IRecommendationService {
	return &recommendationService{
		uowFactory:       uowFactory,
		questionSource:   questionSource,
		candidateSource:  candidateSource,
		movieEnricher:    movieEnricher,
		bookEnricher:     bookEnricher,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

func (s *recommendationService) GenerateQuestions(ctx context.Context, userId uuid.UUID, req *dto.GenerateQuestionsRequest) (*dto.GenerateQuestionsResponse, error) {
	recType := entity.RecommendationType(req.Type)
	if !recType.Valid() {
		return nil, apperror.Validation("unknown recommendation type")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	promptCtx := s.promptContext(ctx, uow, userId)

	callCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	questions, err := s.questionSource.GenerateQuestions(callCtx, generator.ContentType(recType), req.NumQuestions, promptCtx)
	if err != nil {
		s.log.Error("recommendation", "question generation failed", map[string]interface{}{
			"user_id": userId,
			"type":    req.Type,
			"error":   err.Error(),
		})
		return nil, apperror.UpstreamGeneration("question generation failed", err)
	}

	now := time.Now()
	rec := entity.Recommendation{
		Id:        uuid.New(),
		UserId:    userId,
		Type:      recType,
		Status:    entity.RecommendationStatusQuestionsReady,
		CreatedAt: now,
	}

	questionEntities := make([]*entity.RecommendationQuestion, len(questions))
	for i, q := range questions {
		questionEntities[i] = &entity.RecommendationQuestion{
			Id:               uuid.New(),
			RecommendationId: rec.Id,
			Text:             q.Text,
			Order:            q.Order,
			CreatedAt:        now,
		}
	}

	// Session and questions land together or not at all.
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("could not start transaction", err)
	}
	defer uow.Rollback()

	if err := uow.RecommendationRepository().Create(ctx, &rec); err != nil {
		return nil, apperror.Persistence("could not create session", err)
	}
	if err := uow.QuestionRepository().CreateBatch(ctx, questionEntities); err != nil {
		return nil, apperror.Persistence("could not persist questions", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence("could not commit session", err)
	}

	res := &dto.GenerateQuestionsResponse{
		Id:        rec.Id,
		Type:      string(rec.Type),
		Status:    string(rec.Status),
		Questions: toQuestionResponses(questionEntities),
		CreatedAt: rec.CreatedAt,
	}
	return res, nil
}

func (s *recommendationService) SubmitAnswers(ctx context.Context, userId uuid.UUID, req *dto.SubmitAnswersRequest) (*dto.SubmitAnswersResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rec, err := s.loadOwnedSession(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}
	if rec.Status != entity.RecommendationStatusQuestionsReady {
		return nil, apperror.Conflict("session is not accepting answers")
	}

	questions, err := uow.QuestionRepository().FindAll(ctx, specification.ByRecommendationID{RecommendationID: rec.Id})
	if err != nil {
		return nil, err
	}

	known := make(map[uuid.UUID]bool, len(questions))
	for _, q := range questions {
		known[q.Id] = true
	}

	now := time.Now()
	answers := make([]*entity.RecommendationAnswer, len(req.Answers))
	for i, a := range req.Answers {
		if !known[a.QuestionId] {
			return nil, apperror.Validation("answer references an unknown question")
		}
		answers[i] = &entity.RecommendationAnswer{
			Id:         uuid.New(),
			QuestionId: a.QuestionId,
			Text:       a.AnswerText,
			CreatedAt:  now,
		}
	}

	rec.Status = entity.RecommendationStatusAnswersSubmitted
	rec.UpdatedAt = &now

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("could not start transaction", err)
	}
	defer uow.Rollback()

	if err := uow.AnswerRepository().CreateBatch(ctx, answers); err != nil {
		return nil, apperror.Persistence("could not persist answers", err)
	}
	if err := uow.RecommendationRepository().Update(ctx, rec); err != nil {
		return nil, apperror.Persistence("could not update session", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence("could not commit answers", err)
	}

	return &dto.SubmitAnswersResponse{
		Id:     rec.Id,
		Status: string(rec.Status),
	}, nil
}

// typedCandidate pins a candidate to the item type it was generated under.
type typedCandidate struct {
	itemType  entity.RecommendationType
	candidate generator.Candidate
}

func (s *recommendationService) GenerateRecommendations(ctx context.Context, userId uuid.UUID, recommendationId uuid.UUID) (*dto.RecommendationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rec, err := s.loadOwnedSession(ctx, uow, userId, recommendationId)
	if err != nil {
		return nil, err
	}
	if rec.Status != entity.RecommendationStatusAnswersSubmitted {
		return nil, apperror.Conflict("session has no submitted answers")
	}

	questions, pairs, err := s.buildQAPairs(ctx, uow, rec.Id)
	if err != nil {
		return nil, err
	}

	promptCtx := s.promptContext(ctx, uow, userId)

	callCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	set, err := s.candidateSource.GenerateCandidates(callCtx, generator.ContentType(rec.Type), pairs, promptCtx)
	if err != nil {
		// Nothing was persisted; the session stays answers_submitted so
		// the caller may retry.
		s.log.Error("recommendation", "candidate generation failed", map[string]interface{}{
			"recommendation_id": rec.Id,
			"error":             err.Error(),
		})
		return nil, apperror.UpstreamGeneration("candidate generation failed", err)
	}

	survivors := filterTitled(rec.Type, set)
	if len(survivors) == 0 {
		s.markFailed(ctx, rec)
		return nil, apperror.TotalLoss("no usable candidates were generated")
	}

	enrichments := s.enrichAll(ctx, survivors)

	items := s.stageItems(rec, survivors, enrichments)
	if len(items) == 0 {
		s.markFailed(ctx, rec)
		return nil, apperror.TotalLoss("no candidates survived staging")
	}

	now := time.Now()
	rec.Status = entity.RecommendationStatusRecommendationsReady
	rec.UpdatedAt = &now

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Persistence("could not start transaction", err)
	}
	defer uow.Rollback()

	if err := uow.ItemRepository().CreateBatch(ctx, items); err != nil {
		return nil, apperror.Persistence("could not persist items", err)
	}
	if err := uow.RecommendationRepository().Update(ctx, rec); err != nil {
		return nil, apperror.Persistence("could not update session", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, apperror.Persistence("could not commit items", err)
	}

	s.publishCompleted(ctx, rec, items)

	return &dto.RecommendationResponse{
		Id:        rec.Id,
		Type:      string(rec.Type),
		Status:    string(rec.Status),
		Questions: toQuestionResponses(questions),
		Items:     toItemResponses(items),
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (s *recommendationService) Get(ctx context.Context, userId uuid.UUID, recommendationId uuid.UUID) (*dto.RecommendationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rec, err := s.loadOwnedSession(ctx, uow, userId, recommendationId)
	if err != nil {
		return nil, err
	}

	questions, err := uow.QuestionRepository().FindAll(ctx,
		specification.ByRecommendationID{RecommendationID: rec.Id},
		specification.OrderBy{Field: "question_order"},
	)
	if err != nil {
		return nil, err
	}

	items, err := uow.ItemRepository().FindAll(ctx,
		specification.ByRecommendationID{RecommendationID: rec.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	return &dto.RecommendationResponse{
		Id:        rec.Id,
		Type:      string(rec.Type),
		Status:    string(rec.Status),
		Questions: toQuestionResponses(questions),
		Items:     toItemResponses(items),
		CreatedAt: rec.CreatedAt,
	}, nil
}

func (s *recommendationService) History(ctx context.Context, userId uuid.UUID, page int) (*dto.HistoryResponse, error) {
	if page < 1 {
		page = 1
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	entries, err := uow.HistoryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: historyPageSize, Offset: (page - 1) * historyPageSize},
	)
	if err != nil {
		return nil, err
	}

	total, err := uow.HistoryRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, err
	}

	res := &dto.HistoryResponse{
		Entries: make([]dto.HistoryEntryResponse, 0, len(entries)),
		Total:   total,
		Page:    page,
	}
	for _, e := range entries {
		res.Entries = append(res.Entries, dto.HistoryEntryResponse{
			Id:        e.Id,
			Title:     e.Title,
			CreatedAt: e.CreatedAt,
		})
	}
	return res, nil
}

// --- Pipeline internals ---

func (s *recommendationService) loadOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, recommendationId uuid.UUID) (*entity.Recommendation, error) {
	rec, err := uow.RecommendationRepository().FindOne(ctx, specification.ByID{ID: recommendationId})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperror.NotFound("recommendation session not found")
	}
	if rec.UserId != userId {
		return nil, apperror.Forbidden("you do not own this session")
	}
	return rec, nil
}

// buildQAPairs reloads questions with their answers and assembles the
// pairs in question order. The latest answer per question wins;
// unanswered questions are omitted.
func (s *recommendationService) buildQAPairs(ctx context.Context, uow unitofwork.UnitOfWork, recommendationId uuid.UUID) ([]*entity.RecommendationQuestion, []generator.QAPair, error) {
	questions, err := uow.QuestionRepository().FindAll(ctx,
		specification.ByRecommendationID{RecommendationID: recommendationId},
		specification.OrderBy{Field: "question_order"},
	)
	if err != nil {
		return nil, nil, err
	}

	if len(questions) == 0 {
		return questions, nil, nil
	}

	questionIds := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		questionIds[i] = q.Id
	}

	answers, err := uow.AnswerRepository().FindAll(ctx,
		specification.ByQuestionIDs{QuestionIDs: questionIds},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, nil, err
	}

	// Ascending creation order means later answers overwrite earlier ones.
	latest := make(map[uuid.UUID]string, len(answers))
	for _, a := range answers {
		latest[a.QuestionId] = a.Text
	}

	var pairs []generator.QAPair
	for _, q := range questions {
		answer, ok := latest[q.Id]
		if !ok {
			continue
		}
		pairs = append(pairs, generator.QAPair{
			Question: q.Text,
			Answer:   answer,
		})
	}
	return questions, pairs, nil
}

// filterTitled drops candidates without a title and tags the rest with
// their item type.
func filterTitled(recType entity.RecommendationType, set *generator.CandidateSet) []typedCandidate {
	var survivors []typedCandidate
	for _, c := range set.Movies {
		if strings.TrimSpace(c.Title) == "" {
			continue
		}
		survivors = append(survivors, typedCandidate{itemType: entity.RecommendationTypeMovie, candidate: c})
	}
	for _, c := range set.Books {
		if strings.TrimSpace(c.Title) == "" {
			continue
		}
		survivors = append(survivors, typedCandidate{itemType: entity.RecommendationTypeBook, candidate: c})
	}
	return survivors
}

// enrichAll fans out one catalog lookup per candidate under a worker
// bound and a phase deadline. Results slot in by candidate index, never
// by completion order. A nil slot means that candidate commits raw.
func (s *recommendationService) enrichAll(ctx context.Context, survivors []typedCandidate) []*catalog.Enrichment {
	phaseCtx, cancel := context.WithTimeout(ctx, enrichmentPhaseDeadline)
	defer cancel()

	enrichments := make([]*catalog.Enrichment, len(survivors))

	sem := make(chan struct{}, enrichmentConcurrency)
	var wg sync.WaitGroup
	for i := range survivors {
		wg.Add(1)
		go func(i int, tc typedCandidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			callCtx, cancelCall := context.WithTimeout(phaseCtx, enrichmentCallTimeout)
			defer cancelCall()

			enrichments[i] = s.enricherFor(tc.itemType).Enrich(callCtx, tc.candidate)
		}(i, survivors[i])
	}
	wg.Wait()

	return enrichments
}

func (s *recommendationService) enricherFor(itemType entity.RecommendationType) catalog.Enricher {
	if itemType == entity.RecommendationTypeBook {
		return s.bookEnricher
	}
	return s.movieEnricher
}

// stageItems merges enrichments into candidates and builds the rows to
// commit. A single candidate failing to stage is logged and dropped; it
// never aborts the others.
func (s *recommendationService) stageItems(rec *entity.Recommendation, survivors []typedCandidate, enrichments []*catalog.Enrichment) []*entity.RecommendationItem {
	now := time.Now()
	items := make([]*entity.RecommendationItem, 0, len(survivors))

	for i, tc := range survivors {
		merged := catalog.NewItem(tc.candidate)
		enrichments[i].ApplyTo(&merged)

		if strings.TrimSpace(merged.Title) == "" {
			s.log.Warn("recommendation", "staged item lost its title, dropping", map[string]interface{}{
				"recommendation_id": rec.Id,
				"index":             i,
			})
			continue
		}

		items = append(items, &entity.RecommendationItem{
			Id:               uuid.New(),
			RecommendationId: rec.Id,
			ItemType:         tc.itemType,
			Title:            merged.Title,
			Author:           optString(merged.Author),
			Description:      merged.Description,
			AgeRating:        optString(merged.AgeRating),
			Rating:           merged.Rating,
			PosterPath:       optString(merged.PosterPath),
			CatalogId:        optString(merged.CatalogId),
			ReleaseDate:      optString(merged.ReleaseDate),
			Runtime:          merged.Runtime,
			PageCount:        merged.PageCount,
			Publisher:        optString(merged.Publisher),
			Genres:           merged.Genres,
			CreatedAt:        now,
		})
	}
	return items
}

// markFailed moves the session to its terminal state in its own
// transaction. The pipeline already failed, so errors here are logged
// rather than surfaced.
func (s *recommendationService) markFailed(ctx context.Context, rec *entity.Recommendation) {
	now := time.Now()
	rec.Status = entity.RecommendationStatusFailed
	rec.UpdatedAt = &now

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		s.log.Error("recommendation", "could not mark session failed", map[string]interface{}{
			"recommendation_id": rec.Id,
			"error":             err.Error(),
		})
		return
	}
	defer uow.Rollback()

	if err := uow.RecommendationRepository().Update(ctx, rec); err != nil {
		s.log.Error("recommendation", "could not mark session failed", map[string]interface{}{
			"recommendation_id": rec.Id,
			"error":             err.Error(),
		})
		return
	}
	if err := uow.Commit(); err != nil {
		s.log.Error("recommendation", "could not mark session failed", map[string]interface{}{
			"recommendation_id": rec.Id,
			"error":             err.Error(),
		})
	}
}

// publishCompleted emits the async history message and the domain event.
// Both are auxiliary and never fail the request.
func (s *recommendationService) publishCompleted(ctx context.Context, rec *entity.Recommendation, items []*entity.RecommendationItem) {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}

	if s.publisherService != nil {
		payload := dto.PublishRecommendationCompletedMessage{
			RecommendationId: rec.Id,
			UserId:           rec.UserId,
			Titles:           titles,
		}
		msgJson, err := json.Marshal(payload)
		if err == nil {
			err = s.publisherService.Publish(ctx, msgJson)
		}
		if err != nil {
			s.log.Warn("recommendation", "failed to publish history message", map[string]interface{}{
				"recommendation_id": rec.Id,
				"error":             err.Error(),
			})
		}
	}

	if s.eventPublisher != nil {
		evt := events.NewEvent("RECOMMENDATION_COMPLETED", map[string]interface{}{
			"recommendation_id": rec.Id,
			"user_id":           rec.UserId,
			"item_count":        len(items),
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("recommendation", "failed to publish completion event", map[string]interface{}{
				"recommendation_id": rec.Id,
				"error":             err.Error(),
			})
		}
	}
}

// promptContext loads the demographic and accessibility hints for the
// prompts. Missing preferences are fine; hints are optional.
func (s *recommendationService) promptContext(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) generator.PromptContext {
	promptCtx := generator.PromptContext{}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err == nil && user != nil {
		promptCtx.UserAge = user.Age
	}

	prefs, err := uow.PreferencesRepository().FindByUserId(ctx, userId)
	if err == nil && prefs != nil {
		if prefs.RequireSubtitles {
			promptCtx.AccessibilityNeeds = append(promptCtx.AccessibilityNeeds, "subtitles required")
		}
		if prefs.RequireAudioDescription {
			promptCtx.AccessibilityNeeds = append(promptCtx.AccessibilityNeeds, "audio description required")
		}
		if prefs.ExcludeViolentContent {
			promptCtx.AccessibilityNeeds = append(promptCtx.AccessibilityNeeds, "avoid violent content")
		}
		if prefs.ExcludeSexualContent {
			promptCtx.AccessibilityNeeds = append(promptCtx.AccessibilityNeeds, "avoid sexual content")
		}
		promptCtx.PreferredLanguage = prefs.PreferredLanguage
	}

	return promptCtx
}

// --- DTO helpers ---

func toQuestionResponses(questions []*entity.RecommendationQuestion) []dto.QuestionResponse {
	res := make([]dto.QuestionResponse, len(questions))
	for i, q := range questions {
		res[i] = dto.QuestionResponse{
			Id:    q.Id,
			Text:  q.Text,
			Order: q.Order,
		}
	}
	return res
}

func toItemResponses(items []*entity.RecommendationItem) []dto.ItemResponse {
	res := make([]dto.ItemResponse, len(items))
	for i, item := range items {
		genres := item.Genres
		if genres == nil {
			genres = []string{}
		}
		res[i] = dto.ItemResponse{
			Id:          item.Id,
			Type:        string(item.ItemType),
			Title:       item.Title,
			Author:      item.Author,
			Description: item.Description,
			AgeRating:   item.AgeRating,
			Rating:      item.Rating,
			PosterPath:  item.PosterPath,
			CatalogId:   item.CatalogId,
			ReleaseDate: item.ReleaseDate,
			Runtime:     item.Runtime,
			PageCount:   item.PageCount,
			Publisher:   item.Publisher,
			Genres:      genres,
		}
	}
	return res
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
