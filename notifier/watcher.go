package notifier

import (
	"context"
	"log/slog"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"opsboard/model"
)

// TaskWatcher owns the snapshot listener on build_tasks. Every snapshot is
// republished to the list feed, and per-document modifications are handed
// to the notifier with the previous version for diffing.
type TaskWatcher struct {
	client   *firestore.Client
	notifier *Notifier
	feed     *Feed[model.BuildTask]
	log      *slog.Logger
}

func NewTaskWatcher(client *firestore.Client, n *Notifier, feed *Feed[model.BuildTask], log *slog.Logger) *TaskWatcher {
	return &TaskWatcher{client: client, notifier: n, feed: feed, log: log}
}

func (w *TaskWatcher) Run(ctx context.Context) {
	prev := make(map[string]model.BuildTask)

	snaps := w.client.Collection("build_tasks").Snapshots(ctx)
	defer snaps.Stop()

	for {
		snap, err := snaps.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled {
				return
			}
			w.log.Error("task snapshot listener stopped", "error", err)
			return
		}

		for _, change := range snap.Changes {
			id := change.Doc.Ref.ID

			var task model.BuildTask
			if change.Kind != firestore.DocumentRemoved {
				if err := change.Doc.DataTo(&task); err != nil {
					w.log.Error("failed to parse task change", "task", id, "error", err)
					continue
				}
				task.TaskID = id
			}

			switch change.Kind {
			case firestore.DocumentAdded:
				prev[id] = task
			case firestore.DocumentModified:
				before, known := prev[id]
				prev[id] = task
				if !known {
					continue
				}
				if err := w.notifier.TaskUpdated(ctx, before, task); err != nil {
					w.log.Error("failed to dispatch task notification", "task", id, "error", err)
				}
			case firestore.DocumentRemoved:
				delete(prev, id)
			}
		}

		tasks := make([]model.BuildTask, 0, len(prev))
		for _, task := range prev {
			tasks = append(tasks, task)
		}
		sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })
		w.feed.Publish(tasks)
	}
}

// BillingWatcher republishes billing_entries snapshots to its feed. No
// notification side effect is attached to billing changes.
type BillingWatcher struct {
	client *firestore.Client
	feed   *Feed[model.BillingEntry]
	log    *slog.Logger
}

func NewBillingWatcher(client *firestore.Client, feed *Feed[model.BillingEntry], log *slog.Logger) *BillingWatcher {
	return &BillingWatcher{client: client, feed: feed, log: log}
}

func (w *BillingWatcher) Run(ctx context.Context) {
	snaps := w.client.Collection("billing_entries").Snapshots(ctx)
	defer snaps.Stop()

	for {
		snap, err := snaps.Next()
		if err != nil {
			if status.Code(err) == codes.Canceled {
				return
			}
			w.log.Error("billing snapshot listener stopped", "error", err)
			return
		}

		var entries []model.BillingEntry
		docs := snap.Documents
		for {
			doc, err := docs.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				w.log.Error("failed to read billing snapshot", "error", err)
				break
			}
			var entry model.BillingEntry
			if err := doc.DataTo(&entry); err != nil {
				w.log.Error("failed to parse billing entry", "entry", doc.Ref.ID, "error", err)
				continue
			}
			entry.EntryID = doc.Ref.ID
			entries = append(entries, entry)
		}
		w.feed.Publish(entries)
	}
}
