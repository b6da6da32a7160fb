package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"gorm.io/gorm"
)

// AddMemberInput identifies the user to add, by ID or by email.
type AddMemberInput struct {
	UserID string
	Email  string
}

// lookupUser resolves an AddMemberInput to an existing user.
func lookupUser(ctx context.Context, users repository.UserRepository, input AddMemberInput) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case strings.TrimSpace(input.UserID) != "":
		user, err = users.FindByID(ctx, strings.TrimSpace(input.UserID))
	case strings.TrimSpace(input.Email) != "":
		user, err = users.FindByEmail(ctx, normalizeEmail(input.Email))
	default:
		return nil, ErrMemberRequired
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
