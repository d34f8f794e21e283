package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/go-qna-api/internal/application/account"
	"github.com/go-qna-api/internal/application/answer"
	"github.com/go-qna-api/internal/application/attachment"
	"github.com/go-qna-api/internal/application/comment"
	"github.com/go-qna-api/internal/application/question"
	"github.com/go-qna-api/internal/application/session"
	"github.com/go-qna-api/internal/config"
	"github.com/go-qna-api/internal/domain"
	"github.com/go-qna-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-qna-api/internal/infrastructure/jwt"
	s3infra "github.com/go-qna-api/internal/infrastructure/s3"
	"github.com/go-qna-api/internal/infrastructure/smtp"
	"github.com/go-qna-api/internal/infrastructure/sns"
	"github.com/go-qna-api/internal/pkg/clock"
	"github.com/go-qna-api/internal/pkg/code"
	"github.com/go-qna-api/internal/pkg/password"
	"github.com/go-qna-api/internal/ratelimit"
	"github.com/go-qna-api/internal/transport/http/handler"
	appmiddleware "github.com/go-qna-api/internal/transport/http/middleware"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo        *dynamo.UserRepo
	RefreshTokens   *dynamo.RefreshTokenRepo
	EmailValidation *dynamo.EmailValidationRepo
	RateLimitRepo   *dynamo.RateLimitRepo
	QuestionRepo    *dynamo.QuestionRepo
	AnswerRepo      *dynamo.AnswerRepo
	CommentRepo     *dynamo.CommentRepo
	AttachmentRepo  *dynamo.AttachmentRepo
	S3Store         *s3infra.Store
	Mailer          smtp.Mailer
	Publisher       sns.Publisher // nil disables answer notifications
	JWTProvider     *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — a per-IP shield on sensitive public
	// endpoints, in front of the per-subject budgets the services enforce.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	wallClock := clock.Real()
	hasher := password.NewBcrypt()
	limiter := ratelimit.New(deps.RateLimitRepo, wallClock, cfg.RateLimits)

	sessionSvc := session.NewService(session.ServiceDeps{
		UserRepo:   deps.UserRepo,
		TokenRepo:  deps.RefreshTokens,
		Signer:     deps.JWTProvider,
		Limiter:    limiter,
		Hasher:     hasher,
		Clock:      wallClock,
		RefreshTTL: cfg.RefreshTokenExpiry,
	})
	accountSvc := account.NewService(account.ServiceDeps{
		UserRepo:       deps.UserRepo,
		ValidationRepo: deps.EmailValidation,
		TokenRepo:      deps.RefreshTokens,
		Limiter:        limiter,
		Mailer:         deps.Mailer,
		Hasher:         hasher,
		Codes:          code.Numeric{},
		Clock:          wallClock,
		CodeTTL:        cfg.EmailCodeExpiry,
	})
	questionSvc := question.NewService(deps.QuestionRepo)
	answerSvc := answer.NewService(deps.AnswerRepo, deps.QuestionRepo, deps.Publisher)
	commentSvc := comment.NewService(deps.CommentRepo, deps.QuestionRepo, deps.AnswerRepo)
	attachmentSvc := attachment.NewService(deps.AttachmentRepo, deps.S3Store)

	healthH := handler.NewHealthHandler(cfg.AppEnv)
	sessionH := handler.NewSessionHandler(sessionSvc)
	accountH := handler.NewAccountHandler(accountSvc)
	questionH := handler.NewQuestionHandler(questionSvc)
	answerH := handler.NewAnswerHandler(answerSvc)
	commentH := handler.NewCommentHandler(commentSvc)
	attachmentH := handler.NewAttachmentHandler(attachmentSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Check)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/users", accountH.Register)
		r.With(sensitiveRL.Limit).Post("/email-validations", accountH.RequestEmailValidation)
		r.With(sensitiveRL.Limit).Post("/email-validations/verify", accountH.VerifyEmailValidation)

		r.Get("/questions", questionH.List)
		r.Get("/questions/{id}", questionH.Get)
		r.Get("/questions/{id}/answers", answerH.ListByQuestion)
		r.Get("/questions/{id}/comments", commentH.ListByParent)
		r.Get("/answers/{id}/comments", commentH.ListByParent)
		r.Get("/attachments/{id}", attachmentH.Download)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/sessions/logout", sessionH.Logout)

			r.Get("/users/{id}", accountH.Get)
			r.Put("/users/{id}", accountH.Update)
			r.Post("/users/change-password", accountH.ChangePassword)

			r.Post("/questions", questionH.Create)
			r.Put("/questions/{id}", questionH.Update)
			r.Delete("/questions/{id}", questionH.Delete)

			r.Post("/questions/{id}/answers", answerH.Create)
			r.Put("/answers/{id}", answerH.Update)
			r.Post("/answers/{id}/accept", answerH.Accept)
			r.Delete("/answers/{id}", answerH.Delete)

			r.Post("/comments", commentH.Create)
			r.Delete("/comments/{id}", commentH.Delete)

			r.Post("/attachments", attachmentH.Upload)
			r.Delete("/attachments/{id}", attachmentH.Delete)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/users", accountH.List)
				r.Delete("/users/{id}", accountH.Delete)
			})
		})
	})

	return r
}
