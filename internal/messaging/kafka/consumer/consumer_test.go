package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/shahadat-technovicinity/school-management-system/internal/events"
	"github.com/shahadat-technovicinity/school-management-system/internal/salary"
	salaryerrors "github.com/shahadat-technovicinity/school-management-system/internal/salary/errors"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/contextutil"
)

// fakeGenerator fails the first failures calls with err, or every call when
// failures is zero. onFail runs after each failed call.
type fakeGenerator struct {
	calls    []string
	rids     []string
	err      error
	failures int
	onFail   func()
}

func (f *fakeGenerator) GeneratePayslip(ctx context.Context, schoolID, id string) (salary.SalaryResponse, error) {
	f.calls = append(f.calls, schoolID+"/"+id)
	f.rids = append(f.rids, contextutil.GetRequestID(ctx))
	if f.err != nil && (f.failures == 0 || len(f.calls) <= f.failures) {
		if f.onFail != nil {
			f.onFail()
		}
		return salary.SalaryResponse{}, f.err
	}
	return salary.SalaryResponse{ID: id}, nil
}

// fakeReader serves msgs then cancels the consumer context.
type fakeReader struct {
	msgs      []kafkago.Message
	committed []kafkago.Message
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := f.msgs[0]
	f.msgs = f.msgs[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func paidMessage(t *testing.T, offset int64, salaryID string) kafkago.Message {
	t.Helper()
	raw, err := json.Marshal(events.SalaryPaidEvent{
		EventType: events.SalaryPaidType,
		RequestID: "req-1",
		SalaryID:  salaryID,
		SchoolID:  "school-1",
	})
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: raw}
}

func TestConsumeSalaryPayments(t *testing.T) {
	defer func(d, m time.Duration) { retryDelay, maxRetryDelay = d, m }(retryDelay, maxRetryDelay)
	retryDelay, maxRetryDelay = time.Millisecond, 2*time.Millisecond

	t.Run("generates and commits", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{
			msgs:   []kafkago.Message{paidMessage(t, 1, "sal-1"), paidMessage(t, 2, "sal-2")},
			cancel: cancel,
		}
		gen := &fakeGenerator{}

		ConsumeSalaryPayments(ctx, reader, gen, zap.NewNop())

		assert.Equal(t, []string{"school-1/sal-1", "school-1/sal-2"}, gen.calls)
		assert.Equal(t, []string{"req-1", "req-1"}, gen.rids)
		assert.Len(t, reader.committed, 2)
	})

	t.Run("transient failure is retried before later events commit", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{
			msgs:   []kafkago.Message{paidMessage(t, 1, "sal-1"), paidMessage(t, 2, "sal-2")},
			cancel: cancel,
		}
		gen := &fakeGenerator{err: errors.New("disk full"), failures: 2}

		ConsumeSalaryPayments(ctx, reader, gen, zap.NewNop())

		assert.Equal(t, []string{"school-1/sal-1", "school-1/sal-1", "school-1/sal-1", "school-1/sal-2"}, gen.calls)
		if assert.Len(t, reader.committed, 2) {
			assert.Equal(t, int64(1), reader.committed[0].Offset)
			assert.Equal(t, int64(2), reader.committed[1].Offset)
		}
	})

	t.Run("shutdown during retry leaves the event uncommitted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{
			msgs:   []kafkago.Message{paidMessage(t, 1, "sal-1"), paidMessage(t, 2, "sal-2")},
			cancel: cancel,
		}
		gen := &fakeGenerator{err: errors.New("disk full"), onFail: cancel}

		ConsumeSalaryPayments(ctx, reader, gen, zap.NewNop())

		assert.Equal(t, []string{"school-1/sal-1"}, gen.calls)
		assert.Empty(t, reader.committed)
	})

	t.Run("unpaid salary is skipped", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &fakeReader{msgs: []kafkago.Message{paidMessage(t, 1, "sal-1")}, cancel: cancel}

		ConsumeSalaryPayments(ctx, reader, &fakeGenerator{err: salaryerrors.ErrPayslipUnpaid}, zap.NewNop())

		assert.Len(t, reader.committed, 1)
	})

	t.Run("garbage and foreign events are committed", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		other, _ := json.Marshal(events.SalaryPaidEvent{EventType: "salary_cancelled"})
		reader := &fakeReader{
			msgs: []kafkago.Message{
				{Offset: 1, Value: []byte("{not json")},
				{Offset: 2, Value: other},
			},
			cancel: cancel,
		}
		gen := &fakeGenerator{}

		ConsumeSalaryPayments(ctx, reader, gen, zap.NewNop())

		assert.Empty(t, gen.calls)
		assert.Len(t, reader.committed, 2)
	})
}
