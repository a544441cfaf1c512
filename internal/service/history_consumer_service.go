package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/ponderrr/smartadvisor/internal/dto"
	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/pkg/logger"
	"github.com/ponderrr/smartadvisor/internal/repository/unitofwork"
)

type IHistoryConsumerService interface {
	Consume(ctx context.Context) error
}

// historyConsumerService listens for completed sessions and appends one
// denormalized history row per recommended title.
type historyConsumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	log        logger.ILogger
}

func NewHistoryConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IHistoryConsumerService {
	return &historyConsumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		log:        log,
	}
}

func (cs *historyConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *historyConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishRecommendationCompletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("history", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads would retry forever
		return
	}

	if len(payload.Titles) == 0 {
		msg.Ack()
		return
	}

	now := time.Now()
	entries := make([]*entity.RecommendationHistoryEntry, len(payload.Titles))
	for i, title := range payload.Titles {
		entries[i] = &entity.RecommendationHistoryEntry{
			Id:        uuid.New(),
			UserId:    payload.UserId,
			Title:     title,
			CreatedAt: now,
		}
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.log.Error("history", "failed to begin transaction", map[string]interface{}{
			"recommendation_id": payload.RecommendationId,
			"error":             err.Error(),
		})
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.HistoryRepository().CreateBatch(ctx, entries); err != nil {
		cs.log.Error("history", "failed to append history entries", map[string]interface{}{
			"recommendation_id": payload.RecommendationId,
			"error":             err.Error(),
		})
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		cs.log.Error("history", "failed to commit history entries", map[string]interface{}{
			"recommendation_id": payload.RecommendationId,
			"error":             err.Error(),
		})
		msg.Nack()
		return
	}

	cs.log.Info("history", "recorded recommendation history", map[string]interface{}{
		"recommendation_id": payload.RecommendationId,
		"titles":            len(entries),
	})
	msg.Ack()
}
