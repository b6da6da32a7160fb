package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"github.com/yukikurage/kanban-api/internal/middleware"
	"github.com/yukikurage/kanban-api/internal/permissions"
	"github.com/yukikurage/kanban-api/internal/services"
)

// respondError maps service errors to API errors. Anything unrecognized is
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, validationErr.Message, gin.H{"field": validationErr.Field})
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, "You do not have permission to perform this action")
	case errors.Is(err, permissions.ErrNotFound):
		apierrors.NotFound(c, capitalize(err.Error()))
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAlreadyBoardMember),
		errors.Is(err, services.ErrAlreadyProjectMember):
		apierrors.Conflict(c, capitalize(err.Error()))
	case errors.Is(err, services.ErrCannotRemoveOwner),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, capitalize(err.Error()))
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured")
	default:
		userID, _ := middleware.GetUserID(c)
		log.WithError(err).WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"user_id": userID,
		}).Error("unexpected error")
		apierrors.InternalError(c)
	}
}

// requireUser returns the authenticated user ID or answers 401.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return userID, ok
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// patchBody holds a PATCH request body so handlers can tell an omitted field
// from an explicit null.
type patchBody map[string]json.RawMessage

func bindPatch(c *gin.Context) (patchBody, bool) {
	var body patchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return nil, false
	}
	return body, true
}

func (p patchBody) has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p patchBody) isNull(key string) bool {
	raw, ok := p[key]
	return ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// stringField returns nil when the field is omitted or null.
func (p patchBody) stringField(key string) (*string, error) {
	if !p.has(key) || p.isNull(key) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(p[key], &s); err != nil {
		return nil, fmt.Errorf("%s must be a string", key)
	}
	return &s, nil
}

// clearableField is stringField with an explicit null read as "".
func (p patchBody) clearableField(key string) (*string, error) {
	if p.isNull(key) {
		empty := ""
		return &empty, nil
	}
	return p.stringField(key)
}

func (p patchBody) timeField(key string) (*time.Time, error) {
	if !p.has(key) || p.isNull(key) {
		return nil, nil
	}
	var t time.Time
	if err := json.Unmarshal(p[key], &t); err != nil {
		return nil, fmt.Errorf("%s must be an RFC 3339 timestamp", key)
	}
	return &t, nil
}
