package types

type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"omitempty,oneof=react-app component fullstack"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description"`
	Type        *string `json:"type" validate:"omitempty,oneof=react-app component fullstack"`
	Status      *string `json:"status" validate:"omitempty,oneof=active archived"`
}

type CreateFileRequest struct {
	Path     string `json:"path" validate:"required"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

type UpdateFileRequest struct {
	Path    string `json:"path" validate:"required"`
	Content string `json:"content"`
}

type DeleteFileRequest struct {
	Path string `json:"path" validate:"required"`
}

type SetActiveFileRequest struct {
	Path string `json:"path" validate:"required"`
}

type GenerateRequest struct {
	ProjectID string `json:"project_id" validate:"required,uuid4"`
	Prompt    string `json:"prompt" validate:"required"`
	Type      string `json:"type" validate:"omitempty,oneof=react-app component fullstack"`
}
