package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"opsboard/model"
)

const (
	TasksCollection         = "build_tasks"
	SubscriptionsCollection = "task_subscriptions"
)

// TaskRepository is the build_tasks / task_subscriptions data access layer.
// Every method writes at most one document; multi-document invariants are
// the services' responsibility.
type TaskRepository struct {
	client *firestore.Client
}

func NewTaskRepository(client *firestore.Client) *TaskRepository {
	return &TaskRepository{client: client}
}

func (r *TaskRepository) ListTasks(ctx context.Context) ([]model.BuildTask, error) {
	iter := r.client.Collection(TasksCollection).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var tasks []model.BuildTask
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list tasks: %w", model.ErrStore, err)
		}

		var task model.BuildTask
		if err := doc.DataTo(&task); err != nil {
			return nil, fmt.Errorf("%w: parse task %s: %w", model.ErrStore, doc.Ref.ID, err)
		}
		task.TaskID = doc.Ref.ID
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, taskID string) (*model.BuildTask, error) {
	doc, err := r.client.Collection(TasksCollection).Doc(taskID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("%w: get task %s: %w", model.ErrStore, taskID, err)
	}

	var task model.BuildTask
	if err := doc.DataTo(&task); err != nil {
		return nil, fmt.Errorf("%w: parse task %s: %w", model.ErrStore, taskID, err)
	}
	task.TaskID = doc.Ref.ID
	return &task, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, task model.BuildTask) (string, error) {
	ref := r.client.Collection(TasksCollection).NewDoc()
	if _, err := ref.Set(ctx, task); err != nil {
		return "", fmt.Errorf("%w: create task: %w", model.ErrStore, err)
	}
	return ref.ID, nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, taskID string) error {
	if _, err := r.client.Collection(TasksCollection).Doc(taskID).Delete(ctx); err != nil {
		return fmt.Errorf("%w: delete task %s: %w", model.ErrStore, taskID, err)
	}
	return nil
}

func (r *TaskRepository) UpdateStatus(ctx context.Context, taskID, taskStatus string) error {
	_, err := r.client.Collection(TasksCollection).Doc(taskID).Update(ctx, []firestore.Update{
		{Path: "status", Value: taskStatus},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: update task %s status: %w", model.ErrStore, taskID, err)
	}
	return nil
}

// SetOrder writes exactly one task's order field. Shifting displaced tasks
// is the caller's job, one SetOrder per displaced task.
func (r *TaskRepository) SetOrder(ctx context.Context, taskID string, order int) error {
	_, err := r.client.Collection(TasksCollection).Doc(taskID).Update(ctx, []firestore.Update{
		{Path: "order", Value: order},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: set task %s order: %w", model.ErrStore, taskID, err)
	}
	return nil
}

// SetSubTasks rewrites the whole sub-task list. Last write wins; there is no
// per-subtask versioning.
func (r *TaskRepository) SetSubTasks(ctx context.Context, taskID string, subTasks []model.SubTask) error {
	_, err := r.client.Collection(TasksCollection).Doc(taskID).Update(ctx, []firestore.Update{
		{Path: "subTasks", Value: subTasks},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: set task %s subtasks: %w", model.ErrStore, taskID, err)
	}
	return nil
}

func (r *TaskRepository) AddSubscriber(ctx context.Context, taskID, userID string) error {
	_, err := r.client.Collection(TasksCollection).Doc(taskID).Update(ctx, []firestore.Update{
		{Path: "subscribers", Value: firestore.ArrayUnion(userID)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: add subscriber to task %s: %w", model.ErrStore, taskID, err)
	}
	return nil
}

func (r *TaskRepository) RemoveSubscriber(ctx context.Context, taskID, userID string) error {
	_, err := r.client.Collection(TasksCollection).Doc(taskID).Update(ctx, []firestore.Update{
		{Path: "subscribers", Value: firestore.ArrayRemove(userID)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return model.ErrNotFound
		}
		return fmt.Errorf("%w: remove subscriber from task %s: %w", model.ErrStore, taskID, err)
	}
	return nil
}

func (r *TaskRepository) CreateSubscription(ctx context.Context, sub model.TaskSubscription) (string, error) {
	ref := r.client.Collection(SubscriptionsCollection).NewDoc()
	if _, err := ref.Set(ctx, sub); err != nil {
		return "", fmt.Errorf("%w: create subscription: %w", model.ErrStore, err)
	}
	return ref.ID, nil
}

func (r *TaskRepository) ListAllSubscriptions(ctx context.Context) ([]model.TaskSubscription, error) {
	return r.subscriptionQuery(ctx, r.client.Collection(SubscriptionsCollection).Query)
}

func (r *TaskRepository) ListSubscriptionsByTask(ctx context.Context, taskID string) ([]model.TaskSubscription, error) {
	q := r.client.Collection(SubscriptionsCollection).Where("taskId", "==", taskID)
	return r.subscriptionQuery(ctx, q)
}

func (r *TaskRepository) DeleteSubscription(ctx context.Context, docID string) error {
	if _, err := r.client.Collection(SubscriptionsCollection).Doc(docID).Delete(ctx); err != nil {
		return fmt.Errorf("%w: delete subscription %s: %w", model.ErrStore, docID, err)
	}
	return nil
}

func (r *TaskRepository) subscriptionQuery(ctx context.Context, q firestore.Query) ([]model.TaskSubscription, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var subs []model.TaskSubscription
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: list subscriptions: %w", model.ErrStore, err)
		}

		var sub model.TaskSubscription
		if err := doc.DataTo(&sub); err != nil {
			return nil, fmt.Errorf("%w: parse subscription %s: %w", model.ErrStore, doc.Ref.ID, err)
		}
		sub.DocID = doc.Ref.ID
		subs = append(subs, sub)
	}
	return subs, nil
}
