package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"opsboard/model"
)

// TaskStore is what the task service needs from the repository. Each call
// touches a single document; the service sequences multi-document work.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]model.BuildTask, error)
	GetTask(ctx context.Context, taskID string) (*model.BuildTask, error)
	CreateTask(ctx context.Context, task model.BuildTask) (string, error)
	DeleteTask(ctx context.Context, taskID string) error
	UpdateStatus(ctx context.Context, taskID, status string) error
	SetOrder(ctx context.Context, taskID string, order int) error
	SetSubTasks(ctx context.Context, taskID string, subTasks []model.SubTask) error
	AddSubscriber(ctx context.Context, taskID, userID string) error
	RemoveSubscriber(ctx context.Context, taskID, userID string) error
	CreateSubscription(ctx context.Context, sub model.TaskSubscription) (string, error)
	ListAllSubscriptions(ctx context.Context) ([]model.TaskSubscription, error)
	DeleteSubscription(ctx context.Context, docID string) error
}

type TaskService struct {
	store TaskStore
}

func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// List returns all tasks sorted by their order field.
func (s *TaskService) List(ctx context.Context) ([]model.BuildTask, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })
	return tasks, nil
}

// Add creates a task at the end of the board: its order is strictly greater
// than every order present at call time.
func (s *TaskService) Add(ctx context.Context, title, description, priority, createdBy string) (string, error) {
	if !model.ValidTaskPriority(priority) {
		return "", &model.ValidationError{Message: fmt.Sprintf("invalid priority %q", priority)}
	}

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return "", err
	}

	now := time.Now()
	task := model.BuildTask{
		Title:       title,
		Description: description,
		Status:      model.TaskStatusPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
		SubTasks:    []model.SubTask{},
		Order:       nextOrder(tasks),
		Subscribers: []string{},
	}
	return s.store.CreateTask(ctx, task)
}

// Delete removes the task document only. Subscription records for the task
// are left behind, matching the behavior of the dashboard this replaced.
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	return s.store.DeleteTask(ctx, taskID)
}

func (s *TaskService) UpdateStatus(ctx context.Context, taskID, status string) error {
	if !model.ValidTaskStatus(status) {
		return &model.ValidationError{Message: fmt.Sprintf("invalid status %q", status)}
	}
	return s.store.UpdateStatus(ctx, taskID, status)
}

// Move places a task at newOrder, shifting every task whose order lies in
// the direction-dependent half-open range by one first. The shifts are
// sequential single-document writes; a failure mid-sequence leaves orders
// inconsistent until the next successful move.
func (s *TaskService) Move(ctx context.Context, taskID string, newOrder int) error {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return err
	}

	shifts, err := planShifts(tasks, taskID, newOrder)
	if err != nil {
		return err
	}

	for _, shift := range shifts {
		if err := s.store.SetOrder(ctx, shift.taskID, shift.order); err != nil {
			return err
		}
	}
	return s.store.SetOrder(ctx, taskID, newOrder)
}

func (s *TaskService) AddSubTask(ctx context.Context, taskID, title string) error {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	now := time.Now()
	subTasks := append(task.SubTasks, model.SubTask{
		SubTaskID: uuid.New().String(),
		Title:     title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return s.store.SetSubTasks(ctx, taskID, subTasks)
}

func (s *TaskService) ToggleSubTask(ctx context.Context, taskID, subTaskID string) error {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	subTasks, found := toggleSubTask(task.SubTasks, subTaskID)
	if !found {
		return model.ErrNotFound
	}
	return s.store.SetSubTasks(ctx, taskID, subTasks)
}

func (s *TaskService) DeleteSubTask(ctx context.Context, taskID, subTaskID string) error {
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}

	subTasks, found := removeSubTask(task.SubTasks, subTaskID)
	if !found {
		return model.ErrNotFound
	}
	return s.store.SetSubTasks(ctx, taskID, subTasks)
}

// Subscribe dual-writes: the uid joins the task's subscriber array and a
// matching subscription record is created. No transaction wraps the pair.
func (s *TaskService) Subscribe(ctx context.Context, taskID, userID, email string) error {
	if err := s.store.AddSubscriber(ctx, taskID, userID); err != nil {
		return err
	}
	_, err := s.store.CreateSubscription(ctx, model.TaskSubscription{
		TaskID:    taskID,
		UserID:    userID,
		Email:     email,
		CreatedAt: time.Now(),
	})
	return err
}

// Unsubscribe removes the uid from the subscriber array, then scans the
// whole subscription collection and deletes every (taskID, userID) match.
func (s *TaskService) Unsubscribe(ctx context.Context, taskID, userID string) error {
	if err := s.store.RemoveSubscriber(ctx, taskID, userID); err != nil {
		return err
	}

	subs, err := s.store.ListAllSubscriptions(ctx)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.TaskID == taskID && sub.UserID == userID {
			if err := s.store.DeleteSubscription(ctx, sub.DocID); err != nil {
				return err
			}
		}
	}
	return nil
}
