package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/go-qna-api/internal/config"
	"github.com/go-qna-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-qna-api/internal/infrastructure/jwt"
	s3infra "github.com/go-qna-api/internal/infrastructure/s3"
	"github.com/go-qna-api/internal/infrastructure/smtp"
	"github.com/go-qna-api/internal/infrastructure/sns"
	transporthttp "github.com/go-qna-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for attachments.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer for validation codes.
	mailer := smtp.NewMailer(cfg)

	// SNS publisher for answer notifications (optional — graceful fallback).
	var publisher sns.Publisher
	if cfg.SNSTopicARN != "" {
		if p, err := sns.NewPublisher(cfg); err == nil {
			publisher = p
		} else {
			log.Printf("WARN: SNS publisher not available: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		UserRepo:        dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		RefreshTokens:   dynamo.NewRefreshTokenRepo(dynamoClient, cfg.DynamoTables.RefreshTokens),
		EmailValidation: dynamo.NewEmailValidationRepo(dynamoClient, cfg.DynamoTables.EmailValidations),
		RateLimitRepo:   dynamo.NewRateLimitRepo(dynamoClient, cfg.DynamoTables.RateLimits),
		QuestionRepo:    dynamo.NewQuestionRepo(dynamoClient, cfg.DynamoTables.Questions),
		AnswerRepo:      dynamo.NewAnswerRepo(dynamoClient, cfg.DynamoTables.Answers),
		CommentRepo:     dynamo.NewCommentRepo(dynamoClient, cfg.DynamoTables.Comments),
		AttachmentRepo:  dynamo.NewAttachmentRepo(dynamoClient, cfg.DynamoTables.Attachments),
		S3Store:         s3Store,
		Mailer:          mailer,
		Publisher:       publisher,
		JWTProvider:     jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
