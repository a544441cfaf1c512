package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ponderrr/smartadvisor/internal/dto"
	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/repository/unitofwork"
)

type IPreferencesService interface {
	Get(ctx context.Context, userId uuid.UUID) (*dto.PreferencesResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error)
}

type preferencesService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPreferencesService(uowFactory unitofwork.RepositoryFactory) IPreferencesService {
	return &preferencesService{
		uowFactory: uowFactory,
	}
}

func (s *preferencesService) Get(ctx context.Context, userId uuid.UUID) (*dto.PreferencesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	prefs, err := uow.PreferencesRepository().FindByUserId(ctx, userId)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		// Defaults for users who never touched their preferences.
		return &dto.PreferencesResponse{}, nil
	}

	return toPreferencesResponse(prefs), nil
}

func (s *preferencesService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdatePreferencesRequest) (*dto.PreferencesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	prefs := &entity.UserPreferences{
		Id:                      uuid.New(),
		UserId:                  userId,
		RequireSubtitles:        req.RequireSubtitles,
		RequireAudioDescription: req.RequireAudioDescription,
		ExcludeViolentContent:   req.ExcludeViolentContent,
		ExcludeSexualContent:    req.ExcludeSexualContent,
		PreferredLanguage:       req.PreferredLanguage,
		CreatedAt:               now,
		UpdatedAt:               &now,
	}

	if err := uow.PreferencesRepository().Upsert(ctx, prefs); err != nil {
		return nil, err
	}

	return toPreferencesResponse(prefs), nil
}

func toPreferencesResponse(prefs *entity.UserPreferences) *dto.PreferencesResponse {
	return &dto.PreferencesResponse{
		RequireSubtitles:        prefs.RequireSubtitles,
		RequireAudioDescription: prefs.RequireAudioDescription,
		ExcludeViolentContent:   prefs.ExcludeViolentContent,
		ExcludeSexualContent:    prefs.ExcludeSexualContent,
		PreferredLanguage:       prefs.PreferredLanguage,
	}
}
