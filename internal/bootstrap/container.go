package bootstrap

import (
	"log"
	"os"
	"time"

	"math-mentor-be/internal/config"
	"math-mentor-be/internal/controller"
	"math-mentor-be/internal/pkg/logger"
	"math-mentor-be/internal/repository/memory"
	"math-mentor-be/internal/service"
	"math-mentor-be/pkg/agents"
	"math-mentor-be/pkg/embedding"
	"math-mentor-be/pkg/extract"
	"math-mentor-be/pkg/llm/factory"
	"math-mentor-be/pkg/pipeline"
	"math-mentor-be/pkg/ragstore"

	pktNats "math-mentor-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

// LearnTopicName is the in-process bus topic carrying accepted solutions.
const LearnTopicName = "LEARN_ACCEPTED_SOLUTION"

type Container struct {
	// Controllers
	MentorController  controller.IMentorController
	ExtractController controller.IExtractController

	// Background Services (Exposed for main.go to run)
	LearnConsumerService service.ILearnConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stageLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Both factories are credential-driven; neither is configurable by name.
	llmProvider, llmName, err := factory.NewLLMProvider(factory.Credentials{
		GroqAPIKey:   cfg.Keys.Groq,
		OpenAIAPIKey: cfg.Keys.OpenAI,
		GeminiAPIKey: cfg.Keys.GoogleGemini,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s", llmName)

	embeddingProvider, embName, err := embedding.NewProvider(embedding.Credentials{
		OpenAIAPIKey: cfg.Keys.OpenAI,
		GeminiAPIKey: cfg.Keys.GoogleGemini,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize embedding provider: %v", err)
	}
	log.Printf("[INFO] Using embedding provider: %s", embName)

	// 4. Vector Store + Agents
	store := ragstore.NewStore(db, embeddingProvider, stageLogger)

	parserAgent := agents.NewParserAgent(llmProvider, stageLogger)
	routerAgent := agents.NewRouterAgent(llmProvider, stageLogger)
	solverAgent := agents.NewSolverAgent(llmProvider, store, stageLogger)
	verifierAgent := agents.NewVerifierAgent(llmProvider, stageLogger)
	explainerAgent := agents.NewExplainerAgent(llmProvider, stageLogger)

	executor := pipeline.NewExecutor(
		parserAgent,
		routerAgent,
		solverAgent,
		verifierAgent,
		explainerAgent,
		stageLogger,
	)

	// 5. Infrastructure
	resultRepo := memory.NewResultRepository(time.Duration(cfg.App.ResultTTLMinutes) * time.Minute)
	publisherService := service.NewPublisherService(pubSub, LearnTopicName)

	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
		natsPub = nil
	}

	var ocrEngine, asrEngine extract.Engine
	if cfg.Extract.OCREndpoint != "" {
		ocrEngine = extract.NewHTTPEngine(cfg.Extract.OCREndpoint)
	}
	if cfg.Extract.ASREndpoint != "" {
		asrEngine = extract.NewHTTPEngine(cfg.Extract.ASREndpoint)
	}

	// 6. Services
	mentorService := service.NewMentorService(executor, resultRepo, publisherService, natsPub, sysLogger)
	extractService := service.NewExtractService(ocrEngine, asrEngine, sysLogger)
	learnConsumer := service.NewLearnConsumerService(pubSub, LearnTopicName, solverAgent)

	// 7. Controllers
	return &Container{
		MentorController:     controller.NewMentorController(mentorService),
		ExtractController:    controller.NewExtractController(extractService),
		LearnConsumerService: learnConsumer,
	}
}
