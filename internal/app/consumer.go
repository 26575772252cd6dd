package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shahadat-technovicinity/school-management-system/internal/bootstrap"
	"github.com/shahadat-technovicinity/school-management-system/internal/employee"
	"github.com/shahadat-technovicinity/school-management-system/internal/events"
	"github.com/shahadat-technovicinity/school-management-system/internal/messaging/kafka/consumer"
	"github.com/shahadat-technovicinity/school-management-system/internal/salary"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/connection"
)

const salaryPaymentGroup = "school-salary-payslip"

// RunConsumer generates payslips for paid salaries until SIGINT/SIGTERM.
func RunConsumer(cfg Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, 5)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	payslips, err := newPayslipStore(cfg)
	if err != nil {
		return err
	}

	// The consumer never hits the options cache, so the directory runs without Redis.
	salaryService := salary.NewService(
		sqlDB,
		salary.NewRepository(gormDB),
		employee.NewService(employee.NewRepository(gormDB), nil),
		salary.Options{
			Audit:    bootstrap.NewStdoutAuditLogger(),
			Payslips: payslips,
		},
		logger,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka},
		Topic:          events.SalaryPaymentTopic,
		GroupID:        salaryPaymentGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeSalaryPayments(ctx, reader, salaryService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
