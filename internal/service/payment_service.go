package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"github.com/ponderrr/smartadvisor/internal/dto"
	"github.com/ponderrr/smartadvisor/internal/entity"
	"github.com/ponderrr/smartadvisor/internal/pkg/apperror"
	"github.com/ponderrr/smartadvisor/internal/pkg/logger"
	"github.com/ponderrr/smartadvisor/internal/repository/specification"
	"github.com/ponderrr/smartadvisor/internal/repository/unitofwork"
	"github.com/ponderrr/smartadvisor/pkg/events"
	pktNats "github.com/ponderrr/smartadvisor/pkg/nats"
)

type IPaymentService interface {
	GetPlans(ctx context.Context) ([]*dto.PlanResponse, error)
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
	GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	CancelSubscription(ctx context.Context, userId uuid.UUID) error
}

type paymentService struct {
	uowFactory     unitofwork.RepositoryFactory
	serverKey      string
	environment    midtrans.EnvironmentType
	clientURL      string
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	serverKey string,
	production bool,
	clientURL string,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IPaymentService {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	return &paymentService{
		uowFactory:     uowFactory,
		serverKey:      serverKey,
		environment:    env,
		clientURL:      clientURL,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *paymentService) GetPlans(ctx context.Context) ([]*dto.PlanResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx, specification.Filter("is_active", true))
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		res = append(res, &dto.PlanResponse{
			Id:                p.Id,
			Name:              p.Name,
			Slug:              p.Slug,
			Description:       p.Description,
			Price:             p.Price,
			BillingPeriod:     string(p.BillingPeriod),
			DailySessionLimit: p.DailySessionLimit,
			MaxQuestionCount:  p.MaxQuestionCount,
		})
	}
	return res, nil
}

func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: req.PlanId})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperror.NotFound("plan not found")
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	now := time.Now()
	periodEnd := now.AddDate(0, 1, 0)
	if plan.BillingPeriod == entity.BillingPeriodYearly {
		periodEnd = now.AddDate(1, 0, 0)
	}

	sub := &entity.UserSubscription{
		Id:                 uuid.New(),
		UserId:             userId,
		PlanId:             plan.Id,
		Status:             entity.SubscriptionStatusInactive,
		PaymentStatus:      entity.PaymentStatusPending,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   periodEnd,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	// External call happens after the row exists; the webhook flips the
	// status once midtrans settles the transaction.
	var sClient snap.Client
	sClient.New(s.serverKey, s.environment)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  sub.Id.String(),
			GrossAmt: int64(plan.Price),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: fmt.Sprintf("%s/account?payment=success", s.clientURL),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    plan.Id.String(),
				Price: int64(plan.Price),
				Qty:   1,
				Name:  plan.Name,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	if s.eventPublisher != nil {
		evt := events.NewEvent("SUBSCRIPTION_CREATED", map[string]interface{}{
			"user_id":   userId,
			"plan_id":   plan.Id,
			"plan_name": plan.Name,
			"amount":    plan.Price,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("payment", "failed to publish subscription event", map[string]interface{}{
				"user_id": userId,
				"error":   err.Error(),
			})
		}
	}

	return &dto.CheckoutResponse{
		OrderId:     sub.Id.String(),
		RedirectURL: snapResp.RedirectURL,
		Token:       snapResp.Token,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	if s.serverKey == "" {
		return fmt.Errorf("midtrans server key not configured")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + s.serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expectedSignature {
		s.log.Warn("payment", "webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return apperror.Unauthorized("invalid signature")
	}

	subId, err := uuid.Parse(req.OrderId)
	if err != nil {
		return apperror.Validation("invalid order id format")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: subId})
	if err != nil {
		return err
	}
	if sub == nil {
		return apperror.NotFound("subscription not found")
	}

	var newStatus entity.SubscriptionStatus
	var newPaymentStatus entity.PaymentStatus

	switch req.TransactionStatus {
	case "capture", "settlement":
		newStatus = entity.SubscriptionStatusActive
		newPaymentStatus = entity.PaymentStatusPaid
	case "deny", "cancel", "expire":
		newStatus = entity.SubscriptionStatusInactive
		newPaymentStatus = entity.PaymentStatusFailed
	case "pending":
		return nil
	default:
		s.log.Warn("payment", "unknown transaction status", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		return nil
	}

	if sub.Status == newStatus && sub.PaymentStatus == newPaymentStatus {
		return nil
	}

	sub.Status = newStatus
	sub.PaymentStatus = newPaymentStatus
	if req.TransactionId != "" {
		sub.MidtransTransactionId = &req.TransactionId
	}
	sub.UpdatedAt = time.Now()

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if newStatus == entity.SubscriptionStatusActive && s.eventPublisher != nil {
		evt := events.NewEvent("SUBSCRIPTION_ACTIVATED", map[string]interface{}{
			"user_id":         sub.UserId,
			"subscription_id": sub.Id,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.log.Warn("payment", "failed to publish activation event", map[string]interface{}{
				"subscription_id": sub.Id,
				"error":           err.Error(),
			})
		}
	}

	return nil
}

func (s *paymentService) GetSubscriptionStatus(ctx context.Context, userId uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	var active *entity.UserSubscription
	for _, sub := range subs {
		if sub.Status == entity.SubscriptionStatusActive && sub.CurrentPeriodEnd.After(time.Now()) {
			active = sub
			break
		}
	}

	if active == nil {
		return &dto.SubscriptionStatusResponse{Active: false}, nil
	}

	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: active.PlanId})
	if err != nil {
		return nil, err
	}

	res := &dto.SubscriptionStatusResponse{
		Active:           true,
		CurrentPeriodEnd: &active.CurrentPeriodEnd,
	}
	if plan != nil {
		res.PlanName = plan.Name
		res.PlanSlug = plan.Slug
	}
	return res, nil
}

func (s *paymentService) CancelSubscription(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subs, err := uow.SubscriptionRepository().FindAllSubscriptions(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return err
	}

	for _, sub := range subs {
		if sub.Status != entity.SubscriptionStatusActive {
			continue
		}
		sub.Status = entity.SubscriptionStatusCanceled
		sub.UpdatedAt = time.Now()
		return uow.SubscriptionRepository().UpdateSubscription(ctx, sub)
	}

	return apperror.NotFound("no active subscription to cancel")
}
