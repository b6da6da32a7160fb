package dto

import (
	"time"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/utils"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	BoardID     string    `json:"board_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       *UserDTO  `json:"owner,omitempty"`
}

// ProjectDetailDTO represents a project with its members and the caller's permissions
type ProjectDetailDTO struct {
	ProjectDTO
	MemberIDs   []string              `json:"member_ids"`
	Permissions ProjectPermissionsDTO `json:"permissions"`
}

// ProjectMemberDTO represents a member of a project
type ProjectMemberDTO struct {
	User     UserDTO   `json:"user"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProjectListResponse represents a paginated list of projects
type ProjectListResponse struct {
	Projects   []ProjectDTO             `json:"projects"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		BoardID:     project.BoardID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Owner:       toUserDTOPtr(&project.Owner),
	}
}

// ToProjectDetailDTO converts a project and the caller's permissions to ProjectDetailDTO
func ToProjectDetailDTO(project models.Project, perms ProjectPermissionsDTO) ProjectDetailDTO {
	memberIDs := make([]string, len(project.Members))
	for i, m := range project.Members {
		memberIDs[i] = m.UserID
	}

	return ProjectDetailDTO{
		ProjectDTO:  ToProjectDTO(project),
		MemberIDs:   memberIDs,
		Permissions: perms,
	}
}

// ToProjectMemberDTO converts a member to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:     ToUserDTO(member.User),
		JoinedAt: member.JoinedAt,
	}
}

// ToProjectListResponse converts a page of projects to ProjectListResponse
func ToProjectListResponse(projects []models.Project, pagination utils.PaginationResponse) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		items[i] = ToProjectDTO(project)
	}
	return ProjectListResponse{
		Projects:   items,
		Pagination: pagination,
	}
}
