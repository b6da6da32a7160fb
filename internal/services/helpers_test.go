package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/permissions"
	"github.com/yukikurage/kanban-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	users    repository.UserRepository
	boards   repository.BoardRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	resolver *permissions.Resolver

	auth       *AuthService
	boardSvc   *BoardService
	projectSvc *ProjectService
	taskSvc    *TaskService
}

func newTestEnv(t *testing.T, generator TaskGenerator) *testEnv {
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

	env := &testEnv{
		db:       db,
		users:    repository.NewUserRepository(db),
		boards:   repository.NewBoardRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
	}
	env.resolver = permissions.NewResolver(env.boards, env.projects, env.tasks)
	env.auth = NewAuthService(env.users)
	env.boardSvc = NewBoardService(env.boards, env.users, env.resolver)
	env.projectSvc = NewProjectService(env.projects, env.users, env.resolver)
	env.taskSvc = NewTaskService(env.tasks, env.projects, env.users, env.resolver, generator)
	return env
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()

	user := &models.User{Email: name + "@example.com", Name: name, PasswordHash: "hashed"}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) board(t *testing.T, title string, owner *models.User) *models.Board {
	t.Helper()

	board, err := e.boardSvc.CreateBoard(context.Background(), CreateBoardInput{Title: title, OwnerID: owner.ID})
	require.NoError(t, err)
	return board
}

func (e *testEnv) project(t *testing.T, title string, board *models.Board, owner *models.User) *models.Project {
	t.Helper()

	project, err := e.projectSvc.CreateProject(context.Background(), CreateProjectInput{
		Title:   title,
		BoardID: board.ID,
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	return project
}

func (e *testEnv) task(t *testing.T, title string, project *models.Project, creator *models.User) *models.Task {
	t.Helper()

	task, err := e.taskSvc.CreateTask(context.Background(), CreateTaskInput{
		Title:     title,
		BoardID:   project.BoardID,
		ProjectID: project.ID,
		CreatorID: creator.ID,
	})
	require.NoError(t, err)
	return task
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
