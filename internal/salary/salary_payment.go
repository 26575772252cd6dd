package salary

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shahadat-technovicinity/school-management-system/internal/bootstrap"
	"github.com/shahadat-technovicinity/school-management-system/internal/events"
	"github.com/shahadat-technovicinity/school-management-system/internal/messaging/kafka"
	salaryerrors "github.com/shahadat-technovicinity/school-management-system/internal/salary/errors"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/contextutil"
)

const (
	ActionPay    = "pay"
	ActionCancel = "cancel"

	noteTimeLayout = "2006-01-02 15:04"
	paymentNoteTag = "Payment Note"
	cancelNoteTag  = "Cancellation Note"
)

// appendNote adds a tagged line to the comment log. Existing text is kept.
func appendNote(existing, tag, text string, at time.Time) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return existing
	}
	note := fmt.Sprintf("[%s %s] %s", tag, at.Format(noteTimeLayout), text)
	if strings.TrimSpace(existing) == "" {
		return note
	}
	return existing + "\n" + note
}

func (s *service) ProcessPayment(
	ctx context.Context,
	schoolID, actorID, id string,
	req PaymentRequest,
) (SalaryResponse, error) {
	switch req.Action {
	case ActionPay:
		return s.Pay(ctx, schoolID, actorID, id, req)
	case ActionCancel:
		return s.Cancel(ctx, schoolID, actorID, id, req)
	default:
		return SalaryResponse{}, salaryerrors.ErrInvalidPaymentAction
	}
}

func (s *service) Pay(
	ctx context.Context,
	schoolID, actorID, id string,
	req PaymentRequest,
) (SalaryResponse, error) {
	log := s.log(ctx).With(zap.String("salary_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryID
	}
	paidBy, err := optionalUUID(actorID)
	if err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidActorID
	}
	if req.PaymentMethod != "" && !slices.Contains(PaymentMethods, req.PaymentMethod) {
		return SalaryResponse{}, salaryerrors.ErrInvalidPaymentMethod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("pay salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByIDForUpdate(ctx, schoolID, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	switch rec.PaymentStatus {
	case StatusPaid:
		return SalaryResponse{}, salaryerrors.ErrAlreadyPaid
	case StatusCancelled:
		return SalaryResponse{}, salaryerrors.ErrAlreadyCancelled
	}

	now := s.now()
	comments := appendNote(rec.Comments, paymentNoteTag, req.Comments, now)
	change := StatusChange{
		Status:        StatusPaid,
		At:            now,
		PaidAt:        &now,
		PaidBy:        paidBy,
		PaymentMethod: req.PaymentMethod,
		Comments:      &comments,
	}

	ok, err := qtx.TransitionStatus(ctx, schoolID, id, []string{StatusPending, StatusProcessing}, change)
	if err != nil {
		log.Error("pay salary update failed", zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if !ok {
		log.Warn("pay salary lost race")
		return SalaryResponse{}, salaryerrors.ErrConcurrentUpdate
	}

	rec.PaymentStatus = StatusPaid
	rec.PaidAt = &now
	rec.PaidBy = paidBy
	rec.Comments = comments
	rec.UpdatedAt = now
	if req.PaymentMethod != "" {
		rec.PaymentMethod = req.PaymentMethod
	}

	if err := s.queuePaidEvents(ctx, tx, actorID, false, *rec); err != nil {
		log.Error("pay salary outbox failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("pay salary commit failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "SALARY_PAID",
		Actor:   actorID,
		Message: "salary marked as paid",
		Meta: map[string]any{
			"salary_id":      id,
			"employee_id":    rec.EmployeeID.String(),
			"month":          rec.Period.Format(periodLayout),
			"net_salary":     money(ComputeTotals(*rec).NetSalary),
			"payment_method": rec.PaymentMethod,
		},
	})
	log.Info("pay salary success")

	return s.reload(ctx, schoolID, rec)
}

func (s *service) Cancel(
	ctx context.Context,
	schoolID, actorID, id string,
	req PaymentRequest,
) (SalaryResponse, error) {
	log := s.log(ctx).With(zap.String("salary_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return SalaryResponse{}, salaryerrors.ErrInvalidSalaryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("cancel salary begin tx failed", zap.Error(err))
		return SalaryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByIDForUpdate(ctx, schoolID, id)
	if err != nil {
		return SalaryResponse{}, mapRepositoryError(err)
	}

	switch rec.PaymentStatus {
	case StatusPaid:
		return SalaryResponse{}, salaryerrors.ErrCannotCancelPaid
	case StatusCancelled:
		return SalaryResponse{}, salaryerrors.ErrAlreadyCancelled
	}

	now := s.now()
	comments := appendNote(rec.Comments, cancelNoteTag, req.Comments, now)
	change := StatusChange{
		Status:   StatusCancelled,
		At:       now,
		Comments: &comments,
	}

	ok, err := qtx.TransitionStatus(ctx, schoolID, id, []string{StatusPending, StatusProcessing}, change)
	if err != nil {
		log.Error("cancel salary update failed", zap.Error(err))
		return SalaryResponse{}, mapRepositoryError(err)
	}
	if !ok {
		log.Warn("cancel salary lost race")
		return SalaryResponse{}, salaryerrors.ErrConcurrentUpdate
	}

	if err := tx.Commit(); err != nil {
		log.Error("cancel salary commit failed", zap.Error(err))
		return SalaryResponse{}, err
	}

	rec.PaymentStatus = StatusCancelled
	rec.Comments = comments
	rec.UpdatedAt = now

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "SALARY_CANCELLED",
		Actor:   actorID,
		Message: "salary payment cancelled",
		Meta: map[string]any{
			"salary_id":   id,
			"employee_id": rec.EmployeeID.String(),
			"month":       rec.Period.Format(periodLayout),
		},
	})
	log.Info("cancel salary success")

	return s.reload(ctx, schoolID, rec)
}

// dedupeIDs keeps the first occurrence of each id and reports the ones that
// are not uuids.
func dedupeIDs(ids []string) (unique []string, malformed []string) {
	seen := make(map[string]struct{}, len(ids))
	for _, raw := range ids {
		parsed, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			malformed = append(malformed, raw)
			continue
		}
		id := parsed.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, malformed
}

func (s *service) BulkPay(
	ctx context.Context,
	schoolID, actorID string,
	req BulkPaymentRequest,
) (BulkPaymentResponse, error) {
	log := s.log(ctx)

	ids, malformed := dedupeIDs(req.SalaryIDs)
	if len(malformed) > 0 {
		return BulkPaymentResponse{}, salaryerrors.ErrInvalidBulkIDs.WithDetails(map[string]any{
			"invalid_ids": malformed,
		})
	}
	if len(ids) == 0 {
		return BulkPaymentResponse{}, salaryerrors.ErrInvalidBulkIDs
	}
	paidBy, err := optionalUUID(actorID)
	if err != nil {
		return BulkPaymentResponse{}, salaryerrors.ErrInvalidActorID
	}
	if req.PaymentMethod != "" && !slices.Contains(PaymentMethods, req.PaymentMethod) {
		return BulkPaymentResponse{}, salaryerrors.ErrInvalidPaymentMethod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("bulk pay begin tx failed", zap.Error(err))
		return BulkPaymentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	statuses, err := qtx.LockStatuses(ctx, schoolID, ids)
	if err != nil {
		log.Error("bulk pay lock failed", zap.Error(err))
		return BulkPaymentResponse{}, mapRepositoryError(err)
	}

	var missing, alreadyPaid []string
	for _, id := range ids {
		status, ok := statuses[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case status == StatusPaid:
			alreadyPaid = append(alreadyPaid, id)
		}
	}
	if len(missing) > 0 {
		return BulkPaymentResponse{}, salaryerrors.ErrSalariesNotFound.WithDetails(map[string]any{
			"missing_ids": missing,
		})
	}
	if len(alreadyPaid) > 0 {
		return BulkPaymentResponse{}, salaryerrors.ErrSalariesAlreadyPaid.WithDetails(map[string]any{
			"paid_ids": alreadyPaid,
		})
	}

	now := s.now()
	processed, err := qtx.BulkMarkPaid(ctx, schoolID, ids, StatusChange{
		Status:        StatusPaid,
		At:            now,
		PaidAt:        &now,
		PaidBy:        paidBy,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		log.Error("bulk pay update failed", zap.Error(err))
		return BulkPaymentResponse{}, mapRepositoryError(err)
	}

	if len(processed) > 0 && s.outbox != nil {
		paid, _, err := qtx.List(ctx, schoolID, ListFilter{IDs: processed})
		if err != nil {
			log.Error("bulk pay reload failed", zap.Error(err))
			return BulkPaymentResponse{}, mapRepositoryError(err)
		}
		if err := s.queuePaidEvents(ctx, tx, actorID, true, paid...); err != nil {
			log.Error("bulk pay outbox failed", zap.Error(err))
			return BulkPaymentResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("bulk pay commit failed", zap.Error(err))
		return BulkPaymentResponse{}, err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "SALARY_BULK_PAID",
		Actor:   actorID,
		Message: "salaries marked as paid in bulk",
		Meta: map[string]any{
			"requested": len(ids),
			"processed": len(processed),
			"ids":       processed,
		},
	})
	log.Info("bulk pay success",
		zap.Int("requested", len(ids)),
		zap.Int("processed", len(processed)),
	)

	return BulkPaymentResponse{
		Processed:      len(processed),
		TotalRequested: len(ids),
		ProcessedIDs:   processed,
	}, nil
}

func (s *service) queuePaidEvents(
	ctx context.Context,
	tx *sql.Tx,
	actorID string,
	bulk bool,
	records ...SalaryRecord,
) error {
	if s.outbox == nil {
		return nil
	}

	outbox := s.outbox.WithTx(tx)
	requestID := contextutil.GetRequestID(ctx)
	for _, rec := range records {
		payload := events.SalaryPaidEvent{
			EventType:     events.SalaryPaidType,
			RequestID:     requestID,
			SalaryID:      rec.ID.String(),
			SchoolID:      rec.SchoolID.String(),
			EmployeeID:    rec.EmployeeID.String(),
			Month:         rec.Period.Format(periodDateLayout),
			NetSalary:     money(ComputeTotals(rec).NetSalary),
			PaymentMethod: rec.PaymentMethod,
			PaidBy:        actorID,
			Bulk:          bulk,
			OccurredAt:    s.now(),
		}

		event, err := kafka.NewOutboxEvent(
			"salary",
			rec.ID.String(),
			events.SalaryPaidType,
			events.SalaryPaymentTopic,
			requestID,
			payload,
		)
		if err != nil {
			return err
		}
		if err := outbox.Create(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
