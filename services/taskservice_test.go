package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"opsboard/model"
)

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) ListTasks(ctx context.Context) ([]model.BuildTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BuildTask), args.Error(1)
}

func (m *MockTaskStore) GetTask(ctx context.Context, taskID string) (*model.BuildTask, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BuildTask), args.Error(1)
}

func (m *MockTaskStore) CreateTask(ctx context.Context, task model.BuildTask) (string, error) {
	args := m.Called(ctx, task)
	return args.String(0), args.Error(1)
}

func (m *MockTaskStore) DeleteTask(ctx context.Context, taskID string) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockTaskStore) UpdateStatus(ctx context.Context, taskID, status string) error {
	args := m.Called(ctx, taskID, status)
	return args.Error(0)
}

func (m *MockTaskStore) SetOrder(ctx context.Context, taskID string, order int) error {
	args := m.Called(ctx, taskID, order)
	return args.Error(0)
}

func (m *MockTaskStore) SetSubTasks(ctx context.Context, taskID string, subTasks []model.SubTask) error {
	args := m.Called(ctx, taskID, subTasks)
	return args.Error(0)
}

func (m *MockTaskStore) AddSubscriber(ctx context.Context, taskID, userID string) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func (m *MockTaskStore) RemoveSubscriber(ctx context.Context, taskID, userID string) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}

func (m *MockTaskStore) CreateSubscription(ctx context.Context, sub model.TaskSubscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}

func (m *MockTaskStore) ListAllSubscriptions(ctx context.Context) ([]model.TaskSubscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaskSubscription), args.Error(1)
}

func (m *MockTaskStore) DeleteSubscription(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

func TestTaskServiceListSorted(t *testing.T) {
	store := new(MockTaskStore)
	store.On("ListTasks", mock.Anything).Return([]model.BuildTask{
		{TaskID: "b", Order: 2},
		{TaskID: "c", Order: 3},
		{TaskID: "a", Order: 1},
	}, nil)

	tasks, err := NewTaskService(store).List(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "a", tasks[0].TaskID)
	assert.Equal(t, "b", tasks[1].TaskID)
	assert.Equal(t, "c", tasks[2].TaskID)
}

func TestTaskServiceAdd(t *testing.T) {
	store := new(MockTaskStore)
	store.On("ListTasks", mock.Anything).Return([]model.BuildTask{
		{TaskID: "a", Order: 4},
		{TaskID: "b", Order: 7},
	}, nil)
	store.On("CreateTask", mock.Anything, mock.MatchedBy(func(task model.BuildTask) bool {
		return task.Order == 8 &&
			task.Status == model.TaskStatusPending &&
			task.Title == "deploy agent" &&
			task.CreatedBy == "uid-1" &&
			len(task.SubTasks) == 0 &&
			len(task.Subscribers) == 0
	})).Return("new-id", nil)

	id, err := NewTaskService(store).Add(context.Background(), "deploy agent", "roll out v2", model.TaskPriorityHigh, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)
	store.AssertExpectations(t)
}

func TestTaskServiceAddInvalidPriority(t *testing.T) {
	store := new(MockTaskStore)

	_, err := NewTaskService(store).Add(context.Background(), "t", "", "urgent", "uid-1")
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	store.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
}

func TestTaskServiceUpdateStatusInvalid(t *testing.T) {
	store := new(MockTaskStore)

	err := NewTaskService(store).UpdateStatus(context.Background(), "a", "done")
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskServiceMove(t *testing.T) {
	store := new(MockTaskStore)
	store.On("ListTasks", mock.Anything).Return([]model.BuildTask{
		{TaskID: "a", Order: 1},
		{TaskID: "b", Order: 2},
		{TaskID: "c", Order: 3},
		{TaskID: "d", Order: 4},
	}, nil)
	store.On("SetOrder", mock.Anything, "a", 2).Return(nil)
	store.On("SetOrder", mock.Anything, "b", 3).Return(nil)
	store.On("SetOrder", mock.Anything, "c", 1).Return(nil)

	err := NewTaskService(store).Move(context.Background(), "c", 1)
	require.NoError(t, err)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "SetOrder", mock.Anything, "d", mock.Anything)
}

func TestTaskServiceMoveUnknownTask(t *testing.T) {
	store := new(MockTaskStore)
	store.On("ListTasks", mock.Anything).Return([]model.BuildTask{{TaskID: "a", Order: 1}}, nil)

	err := NewTaskService(store).Move(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, model.ErrNotFound)
	store.AssertNotCalled(t, "SetOrder", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskServiceAddSubTask(t *testing.T) {
	store := new(MockTaskStore)
	store.On("GetTask", mock.Anything, "a").Return(&model.BuildTask{
		TaskID:   "a",
		SubTasks: []model.SubTask{{SubTaskID: "s1", Title: "existing"}},
	}, nil)
	store.On("SetSubTasks", mock.Anything, "a", mock.MatchedBy(func(subTasks []model.SubTask) bool {
		return len(subTasks) == 2 &&
			subTasks[1].Title == "write runbook" &&
			subTasks[1].SubTaskID != "" &&
			!subTasks[1].Completed
	})).Return(nil)

	err := NewTaskService(store).AddSubTask(context.Background(), "a", "write runbook")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTaskServiceToggleSubTaskMissing(t *testing.T) {
	store := new(MockTaskStore)
	store.On("GetTask", mock.Anything, "a").Return(&model.BuildTask{TaskID: "a"}, nil)

	err := NewTaskService(store).ToggleSubTask(context.Background(), "a", "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
	store.AssertNotCalled(t, "SetSubTasks", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskServiceSubscribe(t *testing.T) {
	store := new(MockTaskStore)
	store.On("AddSubscriber", mock.Anything, "a", "uid-1").Return(nil)
	store.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(sub model.TaskSubscription) bool {
		return sub.TaskID == "a" && sub.UserID == "uid-1" && sub.Email == "dev@example.com"
	})).Return("sub-1", nil)

	err := NewTaskService(store).Subscribe(context.Background(), "a", "uid-1", "dev@example.com")
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestTaskServiceSubscribeArrayWriteFails(t *testing.T) {
	store := new(MockTaskStore)
	store.On("AddSubscriber", mock.Anything, "a", "uid-1").Return(errors.New("unavailable"))

	err := NewTaskService(store).Subscribe(context.Background(), "a", "uid-1", "dev@example.com")
	require.Error(t, err)
	store.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
}

func TestTaskServiceUnsubscribe(t *testing.T) {
	store := new(MockTaskStore)
	store.On("RemoveSubscriber", mock.Anything, "a", "uid-1").Return(nil)
	store.On("ListAllSubscriptions", mock.Anything).Return([]model.TaskSubscription{
		{DocID: "sub-1", TaskID: "a", UserID: "uid-1"},
		{DocID: "sub-2", TaskID: "a", UserID: "uid-2"},
		{DocID: "sub-3", TaskID: "b", UserID: "uid-1"},
		{DocID: "sub-4", TaskID: "a", UserID: "uid-1"},
	}, nil)
	store.On("DeleteSubscription", mock.Anything, "sub-1").Return(nil)
	store.On("DeleteSubscription", mock.Anything, "sub-4").Return(nil)

	err := NewTaskService(store).Unsubscribe(context.Background(), "a", "uid-1")
	require.NoError(t, err)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "DeleteSubscription", mock.Anything, "sub-2")
	store.AssertNotCalled(t, "DeleteSubscription", mock.Anything, "sub-3")
}

func TestTaskServiceDeleteKeepsSubscriptions(t *testing.T) {
	store := new(MockTaskStore)
	store.On("DeleteTask", mock.Anything, "a").Return(nil)

	err := NewTaskService(store).Delete(context.Background(), "a")
	require.NoError(t, err)
	store.AssertNotCalled(t, "ListAllSubscriptions", mock.Anything)
	store.AssertNotCalled(t, "DeleteSubscription", mock.Anything, mock.Anything)
}
