package model

import (
	"time"
)

// Task status values shown on the build status board.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusBlocked    = "blocked"
)

const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

type SubTask struct {
	SubTaskID string    `firestore:"id" json:"id"`
	Title     string    `firestore:"title" json:"title"`
	Completed bool      `firestore:"completed" json:"completed"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// BuildTask is a document in the build_tasks collection. Order is the sort
// key for the board; values need not be contiguous or unique.
type BuildTask struct {
	TaskID      string    `firestore:"-" json:"id"`
	Title       string    `firestore:"title" json:"title"`
	Description string    `firestore:"description" json:"description"`
	Status      string    `firestore:"status" json:"status"`
	Priority    string    `firestore:"priority" json:"priority"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
	CreatedBy   string    `firestore:"createdBy" json:"createdBy"`
	SubTasks    []SubTask `firestore:"subTasks" json:"subTasks"`
	Order       int       `firestore:"order" json:"order"`
	Subscribers []string  `firestore:"subscribers" json:"subscribers"`
}

// TaskSubscription mirrors membership already present in
// BuildTask.Subscribers; the two are kept in sync by dual writes.
type TaskSubscription struct {
	DocID     string    `firestore:"-" json:"-"`
	TaskID    string    `firestore:"taskId" json:"taskId"`
	UserID    string    `firestore:"userId" json:"userId"`
	Email     string    `firestore:"email" json:"email"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return true
	}
	return false
}

func ValidTaskPriority(priority string) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}
