package main

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/Totarae/FaleProxy/internal/config"
	"github.com/Totarae/FaleProxy/internal/fetcher"
	grpcv1 "github.com/Totarae/FaleProxy/internal/grpc/v1"
	"github.com/Totarae/FaleProxy/internal/handlers"
	"github.com/Totarae/FaleProxy/internal/logger"
	"github.com/Totarae/FaleProxy/internal/rewriter"
	"github.com/Totarae/FaleProxy/internal/router"
	"github.com/Totarae/FaleProxy/internal/service"
	"github.com/Totarae/FaleProxy/web"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Инициализация конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		zap.NewExample().Fatal("Ошибка конфигурации", zap.Error(err))
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("Ошибка инициализации логгера", zap.Error(err))
	}
	defer log.Sync()

	svc := newProxyService(cfg, log)
	handler := handlers.NewHandler(svc, log)

	r := router.NewRouter(handler, log, staticFiles(cfg), cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("Faleproxy server running", zap.String("address", cfg.ServerAddress))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка при запуске сервера", zap.Error(err))
		}
	}()

	var gs *grpc.Server
	if cfg.GRPCAddress != "" {
		gs = startGRPC(cfg.GRPCAddress, svc, log)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("Остановка сервера")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if gs != nil {
		gs.GracefulStop()
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Сервер остановлен принудительно", zap.Error(err))
	}
}

func newProxyService(cfg *config.Config, log *zap.Logger) *service.ProxyService {
	f := fetcher.New(fetcher.Options{
		Timeout:      cfg.FetchTimeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
		UserAgent:    cfg.UserAgent,
	}, log)

	rw := rewriter.New(
		rewriter.NewReplacer(cfg.SourceTerm, cfg.TargetTerm),
		rewriter.Policy{
			Meta:      cfg.RewriteMeta,
			DataAttrs: cfg.RewriteDataAttrs,
			Comments:  cfg.RewriteComments,
			Scripts:   cfg.RewriteScripts,
		},
	)

	return service.NewProxyService(f, rw, log)
}

func staticFiles(cfg *config.Config) fs.FS {
	if cfg.StaticDir != "" {
		return os.DirFS(cfg.StaticDir)
	}
	return web.Static()
}

func startGRPC(addr string, svc handlers.Processor, log *zap.Logger) *grpc.Server {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal("Ошибка при запуске gRPC", zap.Error(err))
	}

	gs := grpcv1.NewServer(grpcv1.NewGRPCServer(svc, log))
	go func() {
		log.Info("gRPC server running", zap.String("address", addr))
		if err := gs.Serve(lis); err != nil {
			log.Error("gRPC server stopped", zap.Error(err))
		}
	}()
	return gs
}
