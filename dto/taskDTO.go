package dto

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Priority    string `json:"priority" binding:"required"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type MoveTaskRequest struct {
	NewOrder int `json:"newOrder" binding:"min=0"`
}

type CreateSubTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type SubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}
