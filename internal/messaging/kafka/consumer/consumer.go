package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/shahadat-technovicinity/school-management-system/internal/events"
	"github.com/shahadat-technovicinity/school-management-system/internal/salary"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/apperror"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/contextutil"
)

// MessageReader is the part of *kafkago.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type PayslipGenerator interface {
	GeneratePayslip(ctx context.Context, schoolID, id string) (salary.SalaryResponse, error)
}

// retryDelay is the first pause before a transient payslip failure is retried.
// It doubles up to maxRetryDelay.
var (
	retryDelay    = time.Second
	maxRetryDelay = 30 * time.Second
)

// ConsumeSalaryPayments renders a payslip for every salary_paid event.
// Failures that retrying cannot fix are committed and skipped. Transient
// failures are retried in place, so the group offset never moves past an
// event whose payslip was not written. Shutdown mid-retry leaves it
// uncommitted for the next member of the group.
func ConsumeSalaryPayments(
	ctx context.Context,
	reader MessageReader,
	generator PayslipGenerator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.salary_payment")
	log.Info("salary payment consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("salary payment consumer stopped")
				return
			}
			log.Error("fetch salary payment message failed", zap.Error(err))
			continue
		}

		if !handleSalaryPayment(ctx, msg, generator, log) {
			log.Info("salary payment consumer stopped", zap.Int64("uncommitted_offset", msg.Offset))
			return
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit salary payment message failed", zap.Error(err))
		}
	}
}

// handleSalaryPayment reports whether msg is done with and can be committed.
// It returns false only when ctx ends while a transient failure is retried.
func handleSalaryPayment(ctx context.Context, msg kafkago.Message, generator PayslipGenerator, log *zap.Logger) bool {
	var event events.SalaryPaidEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode salary payment event failed", zap.Error(err))
		return true
	}
	if event.EventType != events.SalaryPaidType {
		log.Debug("ignoring salary event", zap.String("event_type", event.EventType))
		return true
	}

	if event.RequestID != "" {
		ctx = contextutil.WithRequestID(ctx, event.RequestID)
	}

	fields := []zap.Field{
		zap.String("request_id", event.RequestID),
		zap.String("salary_id", event.SalaryID),
		zap.String("school_id", event.SchoolID),
	}

	delay := retryDelay
	for {
		_, err := generator.GeneratePayslip(ctx, event.SchoolID, event.SalaryID)
		if err == nil {
			log.Info("payslip generated from salary_paid event", fields...)
			return true
		}
		if isPermanent(err) {
			log.Warn("payslip skipped", append(fields, zap.Error(err))...)
			return true
		}
		log.Error("generate payslip failed, retrying",
			append(fields, zap.Error(err), zap.Duration("retry_in", delay))...)

		if !sleep(ctx, delay) {
			return false
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

// sleep waits for d and reports false if ctx ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func isPermanent(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.HTTPStatus < http.StatusInternalServerError
}
