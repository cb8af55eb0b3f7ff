// Package notifier watches the build_tasks change feed and emails task
// subscribers when something meaningful changed.
package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"opsboard/model"
)

const (
	numWorkers    = 4
	queueSize     = 256
	deadLetterCap = 200
)

type Mailer interface {
	Send(to, subject, body string) error
}

type SubscriptionLoader interface {
	ListSubscriptionsByTask(ctx context.Context, taskID string) ([]model.TaskSubscription, error)
}

// DeadLetter records a notification that could not be delivered, kept for
// operator inspection. Nothing retries these.
type DeadLetter struct {
	TaskID   string    `json:"taskId"`
	Email    string    `json:"email"`
	Subject  string    `json:"subject"`
	Reason   string    `json:"reason"`
	FailedAt time.Time `json:"failedAt"`
}

type job struct {
	taskID  string
	email   string
	subject string
	body    string
}

// Notifier fans out task update emails through a bounded worker pool.
// Delivery is best-effort and at least once; a failed send is logged and
// dead-lettered without blocking the rest of the batch.
type Notifier struct {
	loader SubscriptionLoader
	mailer Mailer
	log    *slog.Logger

	jobs chan job
	wg   sync.WaitGroup

	mu          sync.Mutex
	deadLetters []DeadLetter
}

func New(loader SubscriptionLoader, mailer Mailer, log *slog.Logger) *Notifier {
	return &Notifier{
		loader: loader,
		mailer: mailer,
		log:    log,
		jobs:   make(chan job, queueSize),
	}
}

// Start launches the worker pool. Workers drain the queue until ctx is
// cancelled.
func (n *Notifier) Start(ctx context.Context) {
	for i := 0; i < numWorkers; i++ {
		n.wg.Add(1)
		go n.worker(ctx)
	}
}

func (n *Notifier) worker(ctx context.Context) {
	defer n.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-n.jobs:
			if err := n.mailer.Send(j.email, j.subject, j.body); err != nil {
				n.log.Error("failed to send task notification", "task", j.taskID, "to", j.email, "error", err)
				n.addDeadLetter(DeadLetter{
					TaskID:   j.taskID,
					Email:    j.email,
					Subject:  j.subject,
					Reason:   err.Error(),
					FailedAt: time.Now(),
				})
				continue
			}
			n.log.Info("task notification sent", "task", j.taskID, "to", j.email)
		}
	}
}

// TaskUpdated diffs the two versions and, when the change is meaningful,
// queues one email per subscription record of the task.
func (n *Notifier) TaskUpdated(ctx context.Context, before, after model.BuildTask) error {
	if !MeaningfulChange(before, after) {
		return nil
	}

	subs, err := n.loader.ListSubscriptionsByTask(ctx, after.TaskID)
	if err != nil {
		return err
	}

	subject, body := renderTaskUpdate(after)
	for _, sub := range subs {
		j := job{taskID: after.TaskID, email: sub.Email, subject: subject, body: body}
		select {
		case n.jobs <- j:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (n *Notifier) addDeadLetter(dl DeadLetter) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.deadLetters) >= deadLetterCap {
		n.deadLetters = n.deadLetters[1:]
	}
	n.deadLetters = append(n.deadLetters, dl)
}

func (n *Notifier) DeadLetters() []DeadLetter {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]DeadLetter, len(n.deadLetters))
	copy(out, n.deadLetters)
	return out
}
