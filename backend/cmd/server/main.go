package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pca-portal/backend/config"
	"pca-portal/backend/internal/api/handler"
	"pca-portal/backend/internal/api/router"
	"pca-portal/backend/internal/api/session"
	"pca-portal/backend/internal/repository"
	"pca-portal/backend/internal/service"
	"pca-portal/backend/pkg/database"
	"pca-portal/backend/pkg/jwt"
	applogger "pca-portal/backend/pkg/logger"
	"pca-portal/backend/pkg/mail"
	"pca-portal/backend/pkg/redis"
	"pca-portal/backend/pkg/timedtoken"
)

func main() {
	// 1. configuration
	cfg, err := config.Load(os.Getenv("PCA_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao iniciar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("iniciando portal PCA",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("falha ao conectar no banco de dados", zap.Error(err))
	}

	// 3.1 migrations
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("falha ao obter sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("falha ao aplicar migrações", zap.Error(err))
	}

	// 4. Redis is optional: without it logout is cookie-only and nothing is throttled
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis indisponível, revogação de sessões e limite de tentativas desativados", zap.Error(err))
			rdb = nil
		}
	}

	// 5. Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, service.Deps{
		JWT:      jwt.NewManager(&cfg.Auth),
		Signer:   timedtoken.NewSigner(cfg.Auth.SecretKey),
		Sessions: rdb,
		Mailer:   mail.NewSender(&cfg.Mail, logger),
	}, logger)

	// 5.1 seed the default department and the admin account
	result, err := svc.Bootstrap.Bootstrap(context.Background())
	if err != nil {
		logger.Fatal("falha ao preparar dados iniciais", zap.Error(err))
	}
	if result.GeneratedPassword != "" {
		logger.Warn("conta admin criada com senha gerada; altere-a no primeiro acesso",
			zap.String("password", result.GeneratedPassword))
	}

	cookie := session.NewCookie(&cfg.Auth.Cookie)
	h := handler.NewHandler(svc, cookie)

	// 6. routes
	engine := router.Setup(cfg, h, svc.Auth, cookie, rdb, logger)

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("servidor HTTP iniciado", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("falha no servidor HTTP", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("sinal recebido, encerrando", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("falha ao encerrar servidor", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("falha ao fechar banco de dados", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		logger.Error("falha ao fechar Redis", zap.Error(err))
	}

	logger.Info("servidor encerrado")
}
