package bootstrap

import (
	"log"

	"github.com/ponderrr/smartadvisor/internal/config"
	"github.com/ponderrr/smartadvisor/internal/controller"
	"github.com/ponderrr/smartadvisor/internal/pkg/logger"
	"github.com/ponderrr/smartadvisor/internal/pkg/mailer"
	"github.com/ponderrr/smartadvisor/internal/repository/unitofwork"
	"github.com/ponderrr/smartadvisor/internal/service"
	"github.com/ponderrr/smartadvisor/pkg/catalog/googlebooks"
	"github.com/ponderrr/smartadvisor/pkg/catalog/tmdb"
	"github.com/ponderrr/smartadvisor/pkg/generator"
	"github.com/ponderrr/smartadvisor/pkg/llm/factory"

	pktNats "github.com/ponderrr/smartadvisor/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

const recommendationCompletedTopic = "recommendation.completed"

type Container struct {
	// Controllers
	AuthController           controller.IAuthController
	UserController           controller.IUserController
	PreferencesController    controller.IPreferencesController
	RecommendationController controller.IRecommendationController
	SavedItemController      controller.ISavedItemController
	PaymentController        controller.IPaymentController

	// Background Services (Exposed for main.go to run)
	HistoryConsumerService service.IHistoryConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 3. AI Providers
	llmBaseURL := cfg.Ai.OpenAIURL
	if cfg.Ai.LLMProvider == "ollama" {
		llmBaseURL = cfg.Ai.OllamaURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	questionSource := generator.NewLLMQuestionSource(llmProvider)
	candidateSource := generator.NewLLMCandidateSource(llmProvider)

	// Catalog clients degrade to no-ops when their keys are missing
	movieEnricher := tmdb.NewClient(cfg.Keys.TMDB, sysLogger)
	bookEnricher := googlebooks.NewClient(cfg.Keys.GoogleBooks, sysLogger)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, recommendationCompletedTopic)
	historyConsumerService := service.NewHistoryConsumerService(
		pubSub,
		recommendationCompletedTopic,
		uowFactory,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub, sysLogger)
	userService := service.NewUserService(uowFactory)
	preferencesService := service.NewPreferencesService(uowFactory)
	savedItemService := service.NewSavedItemService(uowFactory)

	recommendationService := service.NewRecommendationService(
		uowFactory,
		questionSource,
		candidateSource,
		movieEnricher,
		bookEnricher,
		publisherService,
		natsPub,
		sysLogger,
	)

	paymentService := service.NewPaymentService(
		uowFactory,
		cfg.Payment.MidtransServerKey,
		cfg.Payment.MidtransEnv == "production",
		cfg.App.ClientURL,
		natsPub,
		sysLogger,
	)

	// 5. Controllers
	return &Container{
		AuthController:           controller.NewAuthController(authService),
		UserController:           controller.NewUserController(userService),
		PreferencesController:    controller.NewPreferencesController(preferencesService),
		RecommendationController: controller.NewRecommendationController(recommendationService),
		SavedItemController:      controller.NewSavedItemController(savedItemService),
		PaymentController:        controller.NewPaymentController(paymentService),

		HistoryConsumerService: historyConsumerService,
	}
}
