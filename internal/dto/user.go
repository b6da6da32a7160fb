package dto

import "github.com/yukikurage/kanban-api/internal/models"

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}

// toUserDTOPtr returns nil unless the relation was preloaded
func toUserDTOPtr(user *models.User) *UserDTO {
	if user == nil || user.ID == "" {
		return nil
	}
	dto := ToUserDTO(*user)
	return &dto
}

// TokenResponse carries a bearer token for API clients
type TokenResponse struct {
	Token     string  `json:"token"`
	TokenType string  `json:"token_type"`
	ExpiresAt string  `json:"expires_at"`
	User      UserDTO `json:"user"`
}
