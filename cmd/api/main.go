package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/smart-bharat/backend/internal/config"
	"github.com/smart-bharat/backend/internal/handler"
	"github.com/smart-bharat/backend/internal/repository"
	conversationService "github.com/smart-bharat/backend/internal/service/conversation"
	dispatchService "github.com/smart-bharat/backend/internal/service/dispatch"
	feedsService "github.com/smart-bharat/backend/internal/service/feeds"
	"github.com/smart-bharat/backend/internal/service/reply"
	translateService "github.com/smart-bharat/backend/internal/service/translate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Generative reply client. Without credentials every turn resolves to
	// the apology message instead of crashing the process.
	replyClient := reply.NewClient(cfg.Gemini)
	if cfg.Gemini.Enabled() {
		log.Println("Gemini reply client initialized")
	} else {
		log.Println("warning: Gemini credentials not configured, assistant replies will degrade")
	}

	convSvc := conversationService.NewService(
		replyClient,
		conversationService.WithStillWorkingAfter(time.Duration(cfg.Assistant.StillWorkingMS)*time.Millisecond),
	)

	dispatchSvc := buildDispatchService(ctx, cfg.Emergency)
	healthSvc := feedsService.NewHealthService(cfg.Feeds)
	weatherSvc := feedsService.NewWeatherService(cfg.Feeds)

	translateSvc := translateService.NewService(cfg.Translate)
	if translateSvc.Enabled() {
		log.Println("translation service initialized")
	} else {
		log.Println("translation credentials not configured, skipping translation initialization")
	}

	router := handler.NewRouter(handler.Deps{
		Conversation: convSvc,
		Dispatch:     dispatchSvc,
		Health:       healthSvc,
		Weather:      weatherSvc,
		Translate:    translateSvc,
		SpeakReplies: cfg.Assistant.SpeakReplies,
	})

	startServer(ctx, cfg.Server, router)
}

func buildDispatchService(ctx context.Context, cfg config.EmergencyConfig) *dispatchService.Service {
	geocoder := dispatchService.NewNominatimClient(cfg)

	var store repository.AlertStore
	switch {
	case cfg.AlertsTable != "":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			log.Printf("warning: failed to load AWS config: %v", err)
			break
		}
		store, err = repository.NewDynamoDBStore(dynamodb.NewFromConfig(awsCfg), cfg.AlertsTable)
		if err != nil {
			log.Printf("warning: failed to initialize DynamoDB alert store: %v", err)
		} else {
			log.Printf("DynamoDB alert store initialized (table=%s)", cfg.AlertsTable)
		}
	case cfg.FirebaseDatabaseURL != "":
		restStore, err := repository.NewRESTStore(cfg.FirebaseDatabaseURL)
		if err != nil {
			log.Printf("warning: failed to initialize REST alert store: %v", err)
		} else {
			store = restStore
			log.Println("REST alert store initialized")
		}
	default:
		log.Println("alert store not configured, dispatched alerts will not be persisted")
	}

	var sms dispatchService.SMSSender
	if cfg.SMSEnabled() {
		sms = dispatchService.NewTwilioClient(cfg)
		log.Println("Twilio SMS gateway initialized")
	} else {
		log.Println("Twilio credentials not configured, dispatch will skip SMS notification")
	}

	return dispatchService.NewService(geocoder, store, sms)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("SmartBharat backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
