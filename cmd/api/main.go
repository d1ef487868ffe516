package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	httpadp "coinlend-backend/internal/adapter/http"
	"coinlend-backend/internal/adapter/repository/gormrepo"
	"coinlend-backend/internal/config"
	"coinlend-backend/internal/domain/credit"
	"coinlend-backend/internal/infrastructure/cache"
	infradb "coinlend-backend/internal/infrastructure/db"
	"coinlend-backend/internal/infrastructure/notify"
	"coinlend-backend/internal/infrastructure/objectstore"
	"coinlend-backend/internal/logging"
	"coinlend-backend/internal/telemetry"
	accountuc "coinlend-backend/internal/usecase/account"
	"coinlend-backend/internal/usecase/applications"
	"coinlend-backend/internal/usecase/approval"
	credituc "coinlend-backend/internal/usecase/credit"
	loanuc "coinlend-backend/internal/usecase/loan"
	"coinlend-backend/internal/usecase/overdue"
	repaymentuc "coinlend-backend/internal/usecase/repayment"
)

func main() {
	if err := run(); err != nil {
		log.WithError(err).Fatal("coinlend-backend exited")
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logCloser, err := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer logCloser.Close()

	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("telemetry shutdown")
		}
	}()

	gdb, err := infradb.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return err
	}
	if err := infradb.Migrate(gdb); err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	store, closeStore, err := receiptStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore.Close()

	pub, closePub, err := publisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePub.Close()

	var (
		loans        = gormrepo.NewLoanRepository(gdb)
		repayments   = gormrepo.NewRepaymentRepository(gdb)
		profiles     = gormrepo.NewProfileRepository(gdb)
		assets       = gormrepo.NewAssetRepository(gdb)
		transactions = gormrepo.NewTransactionRepository(gdb)
		kyc          = gormrepo.NewKYCRepository(gdb)
		tx           = gormrepo.NewGormUoW(gdb)
	)

	scores := credituc.NewUsecase(tx, cache.NewAttemptWindow(rdb, credit.VelocityWindow), pub)
	accounts := accountuc.NewUsecase(profiles, assets, tx, scores)
	sweeper := overdue.NewSweeper(loans, scores, policy.Loan.Schedule, pub, cfg.OverdueSweepInterval)

	handlers := httpadp.Handlers{
		Health: httpadp.NewHandler(cfg.ServiceName,
			httpadp.Probe{Name: "db", Ping: sqlDB.PingContext},
			httpadp.Probe{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		),
		Loans:     httpadp.NewLoanHandler(loanuc.NewUsecase(loans, repayments, profiles, policy.Loan)),
		Approvals: httpadp.NewApprovalHandler(approval.NewUsecase(tx, policy.Loan, pub)),
		Repayments: httpadp.NewRepaymentHandler(
			repaymentuc.NewUsecase(loans, repayments, tx, store, repaymentuc.Options{
				Validator: policy.Validator(),
				Schedule:  policy.Loan.Schedule,
				Publisher: pub,
			}),
			int64(policy.MaxReceiptBytes),
		),
		Accounts: httpadp.NewAccountHandler(accounts, scores),
		Admin:    httpadp.NewAdminHandler(applications.NewUsecase(loans, repayments, kyc, transactions), sweeper),
	}

	e := httpadp.NewRouter(handlers, httpadp.RouterConfig{
		ServiceName:    cfg.ServiceName,
		JWTSecret:      cfg.JWTSecret,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
		// multipart overhead on top of the receipt cap
		BodyLimit: fmt.Sprintf("%dK", policy.MaxReceiptBytes/1024+64),
	})

	sweeper.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// receiptStore uses GCS when a bucket is configured and keeps receipts in
// memory otherwise.
func receiptStore(ctx context.Context, cfg *config.Config) (repaymentuc.ReceiptStore, io.Closer, error) {
	if cfg.ReceiptBucket == "" {
		log.Warn("RECEIPT_BUCKET not set, receipts kept in memory")
		return objectstore.NewMemory(), nopCloser{}, nil
	}
	g, err := objectstore.NewGCS(ctx, cfg.ReceiptBucket)
	if err != nil {
		return nil, nil, fmt.Errorf("gcs: %w", err)
	}
	return g, g, nil
}

func publisher(ctx context.Context, cfg *config.Config) (notify.Publisher, io.Closer, error) {
	if cfg.PubSubProjectID == "" {
		return notify.Nop{}, nopCloser{}, nil
	}
	p, err := notify.NewPubSub(ctx, cfg.PubSubProjectID, cfg.PubSubTopic)
	if err != nil {
		return nil, nil, fmt.Errorf("pubsub: %w", err)
	}
	return p, p, nil
}
