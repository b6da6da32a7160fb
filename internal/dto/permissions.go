package dto

import "github.com/yukikurage/kanban-api/internal/permissions"

// BoardPermissionsDTO is the caller's permissions on a board
type BoardPermissionsDTO struct {
	CanViewBoard   bool `json:"canViewBoard"`
	CanEditBoard   bool `json:"canEditBoard"`
	CanDeleteBoard bool `json:"canDeleteBoard"`
}

// ProjectPermissionsDTO is the caller's permissions on a project
type ProjectPermissionsDTO struct {
	CanViewProject   bool `json:"canViewProject"`
	CanEditProject   bool `json:"canEditProject"`
	CanDeleteProject bool `json:"canDeleteProject"`
}

// TaskPermissionsDTO is the caller's permissions on a task
type TaskPermissionsDTO struct {
	CanViewTask   bool `json:"canViewTask"`
	CanEditTask   bool `json:"canEditTask"`
	CanDeleteTask bool `json:"canDeleteTask"`
}

func ToBoardPermissionsDTO(p permissions.Permissions) BoardPermissionsDTO {
	return BoardPermissionsDTO{CanViewBoard: p.CanView, CanEditBoard: p.CanEdit, CanDeleteBoard: p.CanDelete}
}

func ToProjectPermissionsDTO(p permissions.Permissions) ProjectPermissionsDTO {
	return ProjectPermissionsDTO{CanViewProject: p.CanView, CanEditProject: p.CanEdit, CanDeleteProject: p.CanDelete}
}

func ToTaskPermissionsDTO(p permissions.Permissions) TaskPermissionsDTO {
	return TaskPermissionsDTO{CanViewTask: p.CanView, CanEditTask: p.CanEdit, CanDeleteTask: p.CanDelete}
}
