package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsboard/model"
)

type stubLoader struct {
	subs []model.TaskSubscription
	err  error
}

func (s *stubLoader) ListSubscriptionsByTask(context.Context, string) ([]model.TaskSubscription, error) {
	return s.subs, s.err
}

type recordingMailer struct {
	mu     sync.Mutex
	sent   []string
	failTo string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if to == m.failTo {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, to)
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifierFanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := &stubLoader{subs: []model.TaskSubscription{
		{TaskID: "a", UserID: "uid-1", Email: "one@example.com"},
		{TaskID: "a", UserID: "uid-2", Email: "two@example.com"},
	}}
	mailer := &recordingMailer{}

	n := New(loader, mailer, testLogger())
	n.Start(ctx)

	before := model.BuildTask{TaskID: "a", Status: model.TaskStatusPending}
	after := model.BuildTask{TaskID: "a", Status: model.TaskStatusCompleted}
	require.NoError(t, n.TaskUpdated(ctx, before, after))

	assert.Eventually(t, func() bool {
		return len(mailer.recipients()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"one@example.com", "two@example.com"}, mailer.recipients())
	assert.Empty(t, n.DeadLetters())
}

func TestNotifierSkipsQuietChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := &stubLoader{err: errors.New("should not be called")}
	n := New(loader, &recordingMailer{}, testLogger())
	n.Start(ctx)

	task := model.BuildTask{TaskID: "a", Status: model.TaskStatusPending}
	moved := task
	moved.Order = 5

	assert.NoError(t, n.TaskUpdated(ctx, task, moved))
}

func TestNotifierDeadLettersFailedSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := &stubLoader{subs: []model.TaskSubscription{
		{TaskID: "a", UserID: "uid-1", Email: "good@example.com"},
		{TaskID: "a", UserID: "uid-2", Email: "bad@example.com"},
		{TaskID: "a", UserID: "uid-3", Email: "also-good@example.com"},
	}}
	mailer := &recordingMailer{failTo: "bad@example.com"}

	n := New(loader, mailer, testLogger())
	n.Start(ctx)

	before := model.BuildTask{TaskID: "a", Status: model.TaskStatusPending}
	after := model.BuildTask{TaskID: "a", Status: model.TaskStatusBlocked}
	require.NoError(t, n.TaskUpdated(ctx, before, after))

	assert.Eventually(t, func() bool {
		return len(mailer.recipients()) == 2 && len(n.DeadLetters()) == 1
	}, time.Second, 10*time.Millisecond)

	letters := n.DeadLetters()
	require.Len(t, letters, 1)
	assert.Equal(t, "a", letters[0].TaskID)
	assert.Equal(t, "bad@example.com", letters[0].Email)
	assert.Contains(t, letters[0].Reason, "connection refused")
	assert.False(t, letters[0].FailedAt.IsZero())
}

func TestNotifierDeadLetterCap(t *testing.T) {
	n := New(&stubLoader{}, &recordingMailer{}, testLogger())
	for i := 0; i < deadLetterCap+25; i++ {
		n.addDeadLetter(DeadLetter{Email: "x@example.com", FailedAt: time.Now()})
	}
	assert.Len(t, n.DeadLetters(), deadLetterCap)
}

func TestNotifierLoaderError(t *testing.T) {
	loader := &stubLoader{err: errors.New("store unavailable")}
	n := New(loader, &recordingMailer{}, testLogger())

	before := model.BuildTask{TaskID: "a", Status: model.TaskStatusPending}
	after := model.BuildTask{TaskID: "a", Status: model.TaskStatusCompleted}
	err := n.TaskUpdated(context.Background(), before, after)
	assert.EqualError(t, err, "store unavailable")
}
