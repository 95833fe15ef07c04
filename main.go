package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"empowerment/bank"
	"empowerment/config"
	"empowerment/database"
	"empowerment/logger"
	"empowerment/notify"
	applicantRoutes "empowerment/routers/applicantRoutes"
	authRoutes "empowerment/routers/authRoutes"
	bankRoutes "empowerment/routers/bankRoutes"
	businessRoutes "empowerment/routers/businessRoutes"
	dashboardRoutes "empowerment/routers/dashboardRoutes"
	loanRoutes "empowerment/routers/loanRoutes"
	notificationRoutes "empowerment/routers/notificationRoutes"
	staffRoutes "empowerment/routers/staffRoutes"
	userRoutes "empowerment/routers/userRoutes"
	"empowerment/scheduler"
	"empowerment/services"
	"empowerment/tokens"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	database.ConnectDb()
	database.ConnectBankDb()
	db := database.Database.Db

	if err := services.SeedLoanTypes(db); err != nil {
		log.Fatal("seeding loan types", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := notify.NewDispatcher(db, newMailer(cfg, log), log, cfg.OutboxQueueSize, cfg.OutboxMaxAttempts)
	dispatcher.Start(ctx, cfg.OutboxWorkers)

	blacklist, purge := newBlacklist(ctx, cfg, db)

	services.App = &services.Services{
		DB:        db,
		Ledger:    newLedger(cfg),
		Outbox:    dispatcher,
		Tokens:    blacklist,
		Log:       log,
		SaltRound: cfg.SaltRound,
	}

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		created, err := services.App.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			log.Fatal("creating admin account", zap.Error(err))
		}
		if created {
			log.Info("admin account created", zap.String("username", cfg.AdminUsername))
		}
	}

	jobs := []scheduler.Job{
		{Name: "outbox-sweep", Run: dispatcher.SweepPending},
		{Name: "assign-unassigned", Run: services.App.SweepUnassigned},
		{Name: "pending-bank-checks", Run: services.App.SweepPendingBankChecks},
	}
	if purge != nil {
		jobs = append(jobs, scheduler.Job{Name: "token-purge", Run: purge})
	}
	cronRunner, err := scheduler.Start(ctx, cfg.OutboxSweepSpec, jobs...)
	if err != nil {
		log.Fatal("starting scheduler", zap.Error(err))
	}

	app := newApp(cfg)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		<-cronRunner.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server shutdown", zap.Error(err))
		}
	}()

	log.Info("server is running", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
	dispatcher.Wait()
}

// newApp builds the HTTP surface. Callers set services.App and the database
// handles first.
func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 6 * 1024 * 1024,
		// c.IP() reads X-Forwarded-For only when the peer is a listed proxy.
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          cfg.TrustedProxies,
		EnableIPValidation:      true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization,X-Api-Key",
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Passport photos
	app.Static("/uploads", cfg.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	applicantRoutes.SetupApplicantRoutes(app)
	businessRoutes.SetupBusinessRoutes(app)
	staffRoutes.SetupStaffRoutes(app)
	loanRoutes.SetupLoanRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	bankRoutes.SetupBankRoutes(app)
	dashboardRoutes.SetupDashboardRoutes(app)
	return app
}

func newLedger(cfg *config.Config) bank.Ledger {
	if cfg.BankAPIURL != "" {
		return bank.NewRemoteLedger(cfg.BankAPIURL, cfg.BankAPIKey, cfg.BankAPITimeout, cfg.BankAPIRetries)
	}
	return bank.NewStore(database.Database.BankDb)
}

// newBlacklist prefers Redis. The database fallback needs a purge job, which
// is returned alongside it.
func newBlacklist(ctx context.Context, cfg *config.Config, db *gorm.DB) (tokens.Blacklist, func(context.Context) (int, error)) {
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Log.Fatal("redis unreachable", zap.Error(err))
		}
		return tokens.NewRedisBlacklist(client), nil
	}

	dbList := tokens.NewDBBlacklist(db)
	return dbList, func(ctx context.Context) (int, error) {
		n, err := dbList.Purge(ctx)
		return int(n), err
	}
}

func newMailer(cfg *config.Config, log *zap.Logger) notify.Mailer {
	switch cfg.MailDriver {
	case "sendgrid":
		return notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailSenderName, cfg.EmailSender)
	case "smtp":
		return &notify.SMTPMailer{
			Host:       cfg.SMTPHost,
			Port:       cfg.SMTPPort,
			From:       cfg.EmailSender,
			SenderName: cfg.EmailSenderName,
			Password:   cfg.SMTPPassword,
		}
	default:
		return &notify.LogMailer{Log: log}
	}
}
