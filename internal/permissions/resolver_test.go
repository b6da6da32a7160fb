package permissions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	resolver *Resolver
	owner    *models.User
	member   *models.User
	stranger *models.User
	board    *models.Board
	project  *models.Project
	task     *models.Task
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))

	f := &fixture{db: db}
	f.owner = createUser(t, db, "owner")
	f.member = createUser(t, db, "member")
	f.stranger = createUser(t, db, "stranger")

	f.board = &models.Board{Title: "Board", OwnerID: f.owner.ID, InviteCode: models.NewID()}
	require.NoError(t, db.Create(f.board).Error)
	require.NoError(t, db.Create(&models.BoardMember{BoardID: f.board.ID, UserID: f.member.ID, JoinedAt: time.Now()}).Error)

	f.project = &models.Project{Title: "Project", OwnerID: f.owner.ID, BoardID: f.board.ID}
	require.NoError(t, db.Create(f.project).Error)

	f.task = &models.Task{
		Title:          "Task",
		Status:         models.TaskStatusTodo,
		BoardID:        f.board.ID,
		ProjectID:      f.project.ID,
		CreatorID:      f.member.ID,
		LastModifierID: f.member.ID,
	}
	require.NoError(t, db.Create(f.task).Error)

	f.resolver = NewResolver(
		repository.NewBoardRepository(db),
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
	)
	return f
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{Email: name + "@example.com", Name: name, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestResolver_Board(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	access, err := f.resolver.Board(ctx, f.member.ID, f.board.ID)
	require.NoError(t, err)
	assert.Equal(t, f.board.ID, access.Board.ID)
	assert.Equal(t, Permissions{CanView: true}, access.Permissions)

	access, err = f.resolver.Board(ctx, f.stranger.ID, f.board.ID)
	require.NoError(t, err)
	assert.False(t, access.Permissions.CanView)

	_, err = f.resolver.Board(ctx, f.owner.ID, models.NewID())
	assert.ErrorIs(t, err, ErrBoardNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolver_Project(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	access, err := f.resolver.Project(ctx, f.owner.ID, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, f.board.ID, access.Board.ID)
	assert.True(t, access.Permissions.CanDelete)

	access, err = f.resolver.Project(ctx, f.member.ID, f.project.ID)
	require.NoError(t, err)
	assert.Equal(t, Permissions{CanView: true}, access.Permissions)

	_, err = f.resolver.Project(ctx, f.owner.ID, models.NewID())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestResolver_ProjectWithMissingBoard(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Where("id = ?", f.board.ID).Delete(&models.Board{}).Error)

	_, err := f.resolver.Project(ctx, f.owner.ID, f.project.ID)
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestResolver_Task(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	access, err := f.resolver.Task(ctx, f.member.ID, f.task.ID)
	require.NoError(t, err)
	assert.Equal(t, f.member.ID, access.Task.Creator.ID)
	assert.Equal(t, Permissions{CanView: true, CanEdit: true, CanDelete: true}, access.Permissions)

	access, err = f.resolver.Task(ctx, f.stranger.ID, f.task.ID)
	require.NoError(t, err)
	assert.Equal(t, Permissions{}, access.Permissions)

	_, err = f.resolver.Task(ctx, f.owner.ID, models.NewID())
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestResolver_TaskWithMissingProject(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.db.Where("id = ?", f.project.ID).Delete(&models.Project{}).Error)

	_, err := f.resolver.Task(ctx, f.member.ID, f.task.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
