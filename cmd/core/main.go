package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"

	grpc_adapter "github.com/JoeShih716/go-remittance/internal/app/core/adapter/in/grpc"
	http_adapter "github.com/JoeShih716/go-remittance/internal/app/core/adapter/in/http"
	memory_adapter "github.com/JoeShih716/go-remittance/internal/app/core/adapter/out/memory"
	mysql_adapter "github.com/JoeShih716/go-remittance/internal/app/core/adapter/out/mysql"
	rabbitmq_adapter "github.com/JoeShih716/go-remittance/internal/app/core/adapter/out/rabbitmq"
	"github.com/JoeShih716/go-remittance/internal/app/core/domain"
	"github.com/JoeShih716/go-remittance/internal/app/core/usecase"
	"github.com/JoeShih716/go-remittance/internal/config"
	"github.com/JoeShih716/go-remittance/pkg/logger"
	"github.com/JoeShih716/go-remittance/pkg/metrics"
	"github.com/JoeShih716/go-remittance/pkg/mysql"
	"github.com/JoeShih716/go-remittance/pkg/wal"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: $CONFIG_PATH or config/config.yaml)")
	flag.Parse()

	// 1. 載入設定
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Fatal("server exited with error", zap.Error(err))
	}
	logg.Info("server exited")
}

func run(ctx context.Context, cfg *config.Config, logg *zap.Logger) error {
	// 2. 初始化儲存 (memory + WAL 或 MySQL)
	repo, closeRepo, err := newRepository(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer closeRepo()

	// 3. 帳本事件發佈 (Optional)
	if cfg.RabbitMQ.Enabled {
		publisher, err := rabbitmq_adapter.NewPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		defer publisher.Close()
		repo = rabbitmq_adapter.NewPublishingRepository(repo, publisher, logg)
		logg.Info("publishing ledger entries", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}

	// 4. 初始化 UseCase
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	services := usecase.NewServices(repo, domain.NewPercentFeePolicy(cfg.Fee.Percent), usecase.SystemClock(loc))

	var collector *metrics.Collector
	if cfg.Server.Metrics {
		collector = metrics.NewCollector()
	}

	// 5. 初始化 Driving Adapters
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           http_adapter.NewHandler(services, collector, logg).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(grpc_adapter.UnaryInterceptor(collector, logg)),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second, // 配合 client 端每 10 秒一次的 Ping
			PermitWithoutStream: true,
		}),
	)
	grpc_adapter.RegisterRemittanceServer(grpcServer, grpc_adapter.NewGrpcServer(services))
	reflection.Register(grpcServer) // 方便以 grpcurl 等工具測試

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return err
	}

	// 6. 啟動並等待結束訊號 (Graceful Shutdown)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info("starting http server", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logg.Info("starting grpc server", zap.String("addr", cfg.Server.GRPCAddr))
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newRepository 依設定建立儲存，回傳的 close 在程式結束時呼叫
func newRepository(ctx context.Context, cfg *config.Config, logg *zap.Logger) (usecase.Repository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMySQL:
		dbClient, err := mysql.NewClient(cfg.MySQL, logg)
		if err != nil {
			return nil, nil, err
		}
		repo := mysql_adapter.NewRepository(dbClient)
		if err := repo.Migrate(ctx); err != nil {
			dbClient.Close()
			return nil, nil, err
		}
		return repo, func() { _ = dbClient.Close() }, nil

	default:
		var walFile *wal.WAL
		if cfg.Storage.WALPath != "" {
			var err error
			walFile, err = wal.NewWAL(cfg.Storage.WALPath)
			if err != nil {
				return nil, nil, err
			}
		}
		store, err := memory_adapter.NewStore(walFile)
		if err != nil {
			if walFile != nil {
				walFile.Close()
			}
			return nil, nil, err
		}
		logg.Info("using memory store", zap.String("wal", cfg.Storage.WALPath))
		return store, func() {
			if walFile != nil {
				_ = walFile.Close()
			}
		}, nil
	}
}
