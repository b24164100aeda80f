package setup

import (
	"context"

	"github.com/maycoffee/maycoffee-api/internal/config"
	"github.com/maycoffee/maycoffee-api/internal/handler"
	"github.com/maycoffee/maycoffee-api/internal/mailer"
	"github.com/maycoffee/maycoffee-api/internal/middleware"
	"github.com/maycoffee/maycoffee-api/internal/service"
	"github.com/maycoffee/maycoffee-api/internal/storage/pg"
	"github.com/maycoffee/maycoffee-api/internal/token"
)

// Dependencies holds everything main needs to run and shut down the app.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	MailQueue      *mailer.Queue
	Handler        *handler.Handler
	AuthMiddleware *middleware.Auth
}

func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var sender mailer.Sender
	if cfg.MailConfigured() {
		sender = mailer.NewSMTPSender(cfg.MailConfig())
	} else {
		// no provider set up; deliveries go to the log instead
		sender = &mailer.LogSender{}
	}
	queue := mailer.NewQueue(cfg.Public.MailQueueSize)
	mail := mailer.New(sender, queue, cfg.Public.FrontendURL, cfg.Public.MailBatchSize)

	codec := token.New(cfg.JwtKey(), cfg.JwtTTL())

	audit := service.NewAudit(storage)
	auth := service.NewAuth(storage, mail, cfg)
	admin := service.NewAdmin(storage, mail, audit)
	feedback := service.NewFeedback(storage, mail, audit, cfg.Public.FeedbackDaily)
	events := service.NewEvent(storage, mail, audit)

	h := handler.New(auth, admin, feedback, events, codec, cfg, storage)
	authMw := middleware.NewAuth(codec, storage, cfg.Public.CookieName)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		MailQueue:      queue,
		Handler:        h,
		AuthMiddleware: authMw,
	}, nil
}
