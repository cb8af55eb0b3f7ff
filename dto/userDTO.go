package dto

type CreateUserRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
}

type DeleteUserRequest struct {
	// The settings UI requires retyping the target email before a delete.
	ConfirmEmail string `json:"confirmEmail" binding:"required,email"`
}
