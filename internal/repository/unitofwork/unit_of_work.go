package unitofwork

import (
	"context"

	"github.com/ponderrr/smartadvisor/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PreferencesRepository() contract.PreferencesRepository
	RecommendationRepository() contract.RecommendationRepository
	QuestionRepository() contract.QuestionRepository
	AnswerRepository() contract.AnswerRepository
	ItemRepository() contract.ItemRepository
	HistoryRepository() contract.HistoryRepository
	SavedItemRepository() contract.SavedItemRepository
	SubscriptionRepository() contract.SubscriptionRepository
}
