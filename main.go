package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IkhsanDimas/nega-chatbot/config"
	"github.com/IkhsanDimas/nega-chatbot/controllers"
	"github.com/IkhsanDimas/nega-chatbot/realtime"
	"github.com/IkhsanDimas/nega-chatbot/routes"
	"github.com/IkhsanDimas/nega-chatbot/services/llm"
	"github.com/IkhsanDimas/nega-chatbot/services/mailer"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql"
	"github.com/IkhsanDimas/nega-chatbot/sources/psql/dao"
	"github.com/IkhsanDimas/nega-chatbot/sources/storage"
	"github.com/IkhsanDimas/nega-chatbot/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	convDAO := dao.NewConversationDAO(db.DB)
	msgDAO := dao.NewMessageDAO(db.DB)
	groupDAO := dao.NewGroupDAO(db.DB)
	profileDAO := dao.NewProfileDAO(db.DB)
	otpDAO := dao.NewOTPDAO(db.DB)

	// redis is optional; without it the change feed stays process-local
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logging.ErrorLogger.Error("redis connection error", zap.Error(err))
			os.Exit(1)
		}
	}
	hub := realtime.NewHub(rdb)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		logging.ErrorLogger.Error("minio connection error", zap.Error(err))
		os.Exit(1)
	}

	gateway := llm.NewGeminiClient(cfg)
	otpMailer := mailer.NewResendMailer(cfg)

	authCtrl := controllers.NewAuthController(otpDAO, profileDAO, otpMailer, cfg)
	profileCtrl := controllers.NewProfileController(profileDAO)
	chatCtrl := controllers.NewChatController(convDAO, msgDAO, profileDAO, gateway, cfg.AppOrigin)
	groupsCtrl := controllers.NewGroupsController(groupDAO, hub)
	filesCtrl := controllers.NewFilesController(minioClient)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/users", routes.UserRoutes(profileCtrl, cfg))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))
	r.Mount("/shared", routes.SharedRoutes(chatCtrl))
	r.Mount("/groups", routes.GroupRoutes(groupsCtrl, hub, cfg))
	r.Mount("/files", routes.FileRoutes(filesCtrl, cfg))
	r.Mount("/functions", routes.FunctionRoutes(gateway))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
