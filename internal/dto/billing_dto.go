package dto

import (
	"time"

	"github.com/google/uuid"
)

type PlanResponse struct {
	Id                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	BillingPeriod     string    `json:"billing_period"`
	DailySessionLimit int       `json:"daily_session_limit"`
	MaxQuestionCount  int       `json:"max_question_count"`
}

type CheckoutRequest struct {
	PlanId uuid.UUID `json:"plan_id" validate:"required"`
}

type CheckoutResponse struct {
	OrderId     string `json:"order_id"`
	RedirectURL string `json:"redirect_url"`
	Token       string `json:"token"`
}

type MidtransWebhookRequest struct {
	OrderId           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionId     string `json:"transaction_id"`
}

type SubscriptionStatusResponse struct {
	Active           bool       `json:"active"`
	PlanName         string     `json:"plan_name,omitempty"`
	PlanSlug         string     `json:"plan_slug,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}
