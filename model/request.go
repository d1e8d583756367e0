// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=3"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=3"`
}

// CreateProjectRequest defines the payload for creating a project.
type CreateProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// AddUsersRequest defines the payload for adding collaborators to a project.
type AddUsersRequest struct {
	ProjectID int   `json:"projectId" validate:"required"`
	Users     []int `json:"users" validate:"required,min=1,dive,required"`
}

// UpdateFileTreeRequest defines the payload for replacing a project's
// file-tree snapshot.
type UpdateFileTreeRequest struct {
	ProjectID int      `json:"projectId" validate:"required"`
	FileTree  FileTree `json:"fileTree" validate:"required"`
}
