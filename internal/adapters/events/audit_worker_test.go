package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketloop/auth-service/internal/ports"
)

type fakeOutbox struct {
	pending      []ports.AuditRecord
	published    []uuid.UUID
	failed       []uuid.UUID
	deadLettered []uuid.UUID
	lastClaim    string
}

func (f *fakeOutbox) Enqueue(_ context.Context, _ ports.AuditEvent) error { return nil }

func (f *fakeOutbox) ClaimUnpublished(_ context.Context, limit int, claimToken string, _ time.Time) ([]ports.AuditRecord, error) {
	f.lastClaim = claimToken
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, outboxID uuid.UUID, claimToken string, _ time.Time) error {
	if claimToken != f.lastClaim {
		return errors.New("claim token mismatch")
	}
	f.published = append(f.published, outboxID)
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, outboxID uuid.UUID, claimToken, _ string, _ time.Time) error {
	if claimToken != f.lastClaim {
		return errors.New("claim token mismatch")
	}
	f.failed = append(f.failed, outboxID)
	return nil
}

func (f *fakeOutbox) MarkDeadLettered(_ context.Context, outboxID uuid.UUID, claimToken, _ string, _ time.Time) error {
	if claimToken != f.lastClaim {
		return errors.New("claim token mismatch")
	}
	f.deadLettered = append(f.deadLettered, outboxID)
	return nil
}

type fakePublisher struct {
	err       error
	delivered []ports.AuditRecord
}

func (f *fakePublisher) Publish(_ context.Context, record ports.AuditRecord) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, record)
	return nil
}

func testRecord(retries int) ports.AuditRecord {
	return ports.AuditRecord{
		OutboxID:   uuid.New(),
		EventType:  "auth.login.succeeded",
		Details:    []byte(`{}`),
		RetryCount: retries,
		CreatedAt:  time.Now().UTC(),
	}
}

func testWorkerLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessOnceMarksPublished(t *testing.T) {
	outbox := &fakeOutbox{pending: []ports.AuditRecord{testRecord(0), testRecord(0)}}
	pub := &fakePublisher{}
	w := NewAuditWorker(testWorkerLogger(), outbox, pub, time.Second, 10, time.Minute, 5)

	require.NoError(t, w.processOnce(context.Background()))

	assert.Len(t, pub.delivered, 2)
	assert.Len(t, outbox.published, 2)
	assert.Empty(t, outbox.failed)
	assert.Empty(t, outbox.deadLettered)
}

func TestProcessOncePublishFailureSchedulesRetry(t *testing.T) {
	rec := testRecord(0)
	outbox := &fakeOutbox{pending: []ports.AuditRecord{rec}}
	pub := &fakePublisher{err: errors.New("sink down")}
	w := NewAuditWorker(testWorkerLogger(), outbox, pub, time.Second, 10, time.Minute, 5)

	require.NoError(t, w.processOnce(context.Background()))

	assert.Equal(t, []uuid.UUID{rec.OutboxID}, outbox.failed)
	assert.Empty(t, outbox.published)
	assert.Empty(t, outbox.deadLettered)
}

func TestProcessOnceDeadLettersAtRetryThreshold(t *testing.T) {
	rec := testRecord(4)
	outbox := &fakeOutbox{pending: []ports.AuditRecord{rec}}
	pub := &fakePublisher{err: errors.New("sink down")}
	w := NewAuditWorker(testWorkerLogger(), outbox, pub, time.Second, 10, time.Minute, 5)

	require.NoError(t, w.processOnce(context.Background()))

	assert.Equal(t, []uuid.UUID{rec.OutboxID}, outbox.deadLettered)
	assert.Empty(t, outbox.published)
}

func TestProcessOnceSkipsExhaustedRecords(t *testing.T) {
	rec := testRecord(5)
	outbox := &fakeOutbox{pending: []ports.AuditRecord{rec}}
	pub := &fakePublisher{}
	w := NewAuditWorker(testWorkerLogger(), outbox, pub, time.Second, 10, time.Minute, 5)

	require.NoError(t, w.processOnce(context.Background()))

	assert.Empty(t, pub.delivered)
	assert.Equal(t, []uuid.UUID{rec.OutboxID}, outbox.deadLettered)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	outbox := &fakeOutbox{}
	w := NewAuditWorker(testWorkerLogger(), outbox, &fakePublisher{}, 5*time.Millisecond, 10, time.Minute, 5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
