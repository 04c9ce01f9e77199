package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/vocamed/scriba/adapters"
	"github.com/vocamed/scriba/adapters/llm"
	scribamongo "github.com/vocamed/scriba/adapters/mongo"
	"github.com/vocamed/scriba/adapters/storage"
	"github.com/vocamed/scriba/adapters/stt"
	"github.com/vocamed/scriba/domain/repositories"
	"github.com/vocamed/scriba/internal/api"
	"github.com/vocamed/scriba/usecase"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	_ = godotenv.Load()

	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Persistence: MongoDB when configured, in-memory otherwise
	var documents repositories.DocumentRepository
	var leases repositories.LeaseRepository
	if os.Getenv("MONGODB_URI") != "" {
		client, err := scribamongo.NewClient(logger)
		if err != nil {
			logger.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Close(context.Background())

		leaseRepo := scribamongo.NewLeaseRepository(client.Database)
		if err := leaseRepo.EnsureIndexes(context.Background()); err != nil {
			logger.Fatal("failed to ensure lease indexes", zap.Error(err))
		}

		documents = scribamongo.NewDocumentRepository(client.Database)
		leases = leaseRepo
	} else {
		logger.Info("MONGODB_URI not set, using in-memory storage")
		memory := adapters.NewMemoryDocumentRepository()
		documents = memory
		leases = memory
	}

	// Speech-to-text backend
	speechToText := newSpeechToText(logger)

	// Generative extraction backend
	var generator repositories.Generator
	if os.Getenv("GEMINI_API_KEY") != "" {
		gemini, err := llm.NewGeminiGenerator(llm.NewGeminiConfigFromEnv(), logger)
		if err != nil {
			logger.Fatal("failed to create Gemini generator", zap.Error(err))
		}
		generator = gemini
	} else {
		logger.Info("GEMINI_API_KEY not set, using mock generator")
		generator = llm.NewMockGenerator()
	}

	// Audio storage collaborator
	audioStore := storage.NewHTTPAudioStore(storage.NewHTTPAudioStoreConfigFromEnv(), logger)

	language := os.Getenv("STT_LANGUAGE")
	if language == "" {
		language = "ro"
	}

	// Pipeline services
	documentService := usecase.NewDocumentService(documents, logger)
	transcriptionService := usecase.NewTranscriptionService(documents, leases, audioStore, speechToText, language, logger)
	extractionService := usecase.NewExtractionService(documents, leases, generator, logger)

	// Background status reconciliation
	reconciler := usecase.NewReconciler(documents, leases, logger)
	reconciler.Start()
	defer reconciler.Stop()

	// Initialize API routes
	handler := api.NewHandler(documentService, transcriptionService, extractionService, logger)
	api.InitRoutes(e, handler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("port", port))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newSpeechToText selects the transcription backend from STT_BACKEND:
// "whisper" (default when WHISPER_API_KEY is set), "google", or "mock".
func newSpeechToText(logger *zap.Logger) repositories.SpeechToText {
	backend := os.Getenv("STT_BACKEND")
	if backend == "" {
		if os.Getenv("WHISPER_API_KEY") != "" {
			backend = "whisper"
		} else {
			backend = "mock"
		}
	}

	switch backend {
	case "whisper":
		whisper, err := stt.NewWhisperSpeechToText(stt.NewWhisperConfigFromEnv(), logger)
		if err != nil {
			logger.Fatal("failed to create whisper transcriber", zap.Error(err))
		}
		return whisper
	case "google":
		return stt.NewGoogleSpeechToText(logger)
	default:
		logger.Info("Using mock speech-to-text backend")
		return stt.NewMockSpeechToText(logger)
	}
}
