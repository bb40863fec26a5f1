package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/config"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/auth"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/database"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/http/handlers"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/http/middleware"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/integration/cdn"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/integration/sms"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/mail"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/queue"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/store"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/infra/worker"
	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("❌ migrate: %v", err)
	}

	pipeline, err := store.Open(ctx, cfg, db)
	if err != nil {
		log.Fatalf("❌ lead store: %v", err)
	}
	defer pipeline.Close(context.Background())

	// 1. Repositories
	users := database.NewUserRepository(db)
	otps := database.NewOTPRepository(db)
	tokens := database.NewTokenRepository(db)
	subscribers := database.NewSubscriberRepository(db)

	// 2. Notifications: queue when AMQP is configured, direct SMTP otherwise
	var notifier usecase.Notifier
	var mailSender *mail.EmailSender
	if cfg.MailConfigured() {
		mailSender = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From)
		notifier = middleware.MeterNotifier(mailSender)
	}

	var rabbitConn *amqp091.Connection
	if cfg.AMQPURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Fatalf("❌ rabbitmq: %v", err)
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn
		notifier = middleware.MeterNotifier(queue.NewProducer(rabbitMQ.Ch))

		if mailSender != nil {
			consumerCh, err := rabbitMQ.Conn.Channel()
			if err != nil {
				log.Fatalf("❌ rabbitmq consumer channel: %v", err)
			}
			w := queue.NewWorker(consumerCh, middleware.MeterNotifier(mailSender))
			go func() {
				if err := w.Start(ctx, queue.QueueName); err != nil {
					log.Printf("❌ notification worker: %v", err)
				}
			}()
		} else {
			log.Println("⚠️ MAIL_HOST not set: notifications will wait in the queue")
		}
	}
	if notifier == nil {
		log.Println("⚠️ no mail transport configured: notifications are dropped")
	}

	// 3. Providers
	var smsVerifier usecase.SMSVerifier
	if cfg.SMSConfigured() {
		smsVerifier = sms.NewClient(cfg.SMS.BaseURL, cfg.SMS.CustomerID, cfg.SMS.APIKey, cfg.SMS.CountryCode, tokens)
	}
	var uploadSigner usecase.UploadSigner
	if cfg.CDNConfigured() {
		uploadSigner = cdn.NewSigner(cfg.CDN.CloudName, cfg.CDN.APIKey, cfg.CDN.APISecret)
	}

	hasher := auth.NewBcryptHasher()
	sessions := auth.NewJWTIssuer(cfg.JWTSecret, cfg.SessionTTL)
	loginURL := strings.TrimRight(cfg.AppBaseURL, "/") + "/login"

	// 4. Use cases
	limiter := usecase.NewLeadRateLimiter(pipeline.RateLimits, nil)
	submitLead := usecase.NewSubmitLeadUseCase(
		pipeline.Leads, pipeline.Activities, users, limiter, hasher, notifier, nil,
		cfg.AdminEmail, loginURL,
	)
	leadPipeline := usecase.NewLeadPipeline(pipeline.Leads, pipeline.Activities, users, notifier, nil)
	sweeper := usecase.NewStaleSweeper(pipeline.Leads, pipeline.Activities, nil)
	authService := usecase.NewAuthService(users, hasher, sessions, nil)
	members := usecase.NewMemberService(users, hasher, notifier, nil, cfg.OnboardingTTL, cfg.AppBaseURL)
	otpService := usecase.NewOTPService(smsVerifier, auth.NewTOTPCodes("TravelCRM"), otps, notifier, nil)
	newsletter := usecase.NewNewsletterService(subscribers, notifier, nil)
	uploads := usecase.NewUploadService(uploadSigner, nil)

	if cfg.StaleSweepInterval > 0 {
		w := worker.NewStaleSweepWorker(sweeper, cfg.StaleSweepInterval)
		w.OnSweep = func(r *usecase.SweepResult) { middleware.RecordLeadsStaled(r.Staled) }
		go w.Start(ctx)
	}

	// 5. Handlers
	router := &handlers.Router{
		Leads:       handlers.NewLeadHandler(submitLead, leadPipeline),
		Auth:        handlers.NewAuthHandler(authService),
		Members:     handlers.NewMemberHandler(members),
		OTP:         handlers.NewOTPHandler(otpService),
		Newsletter:  handlers.NewNewsletterHandler(newsletter),
		Uploads:     handlers.NewUploadHandler(uploads),
		Cron:        handlers.NewCronHandler(sweeper, cfg.CronSecret),
		Health:      handlers.NewHealthHandler(db, pipeline.Mongo, rabbitConn),
		Tokens:      sessions,
		Accounts:    authService,
		CORSOrigins: cfg.CORSOrigins,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🔥 Travel CRM API listening on %s (lead store: %s)", srv.Addr, cfg.LeadStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("⚠️ shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ shutdown: %v", err)
	}
}
