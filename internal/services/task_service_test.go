package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/kanban-api/internal/constants"
	"github.com/yukikurage/kanban-api/internal/models"
	"github.com/yukikurage/kanban-api/internal/permissions"
)

type stubGenerator struct {
	tasks        []GeneratedTask
	err          error
	projectTitle string
}

func (g *stubGenerator) GenerateTasksFromText(ctx context.Context, projectTitle, text string) ([]GeneratedTask, error) {
	g.projectTitle = projectTitle
	return g.tasks, g.err
}

// TaskServiceTestSuite exercises TaskService against an in-memory store
type TaskServiceTestSuite struct {
	suite.Suite
	env       *testEnv
	generator *stubGenerator
	ctx       context.Context

	owner    *models.User
	member   *models.User
	stranger *models.User
	board    *models.Board
	project  *models.Project
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.generator = &stubGenerator{}
	suite.env = newTestEnv(suite.T(), suite.generator)
	suite.ctx = context.Background()

	suite.owner = suite.env.user(suite.T(), "alice")
	suite.member = suite.env.user(suite.T(), "bob")
	suite.stranger = suite.env.user(suite.T(), "carol")
	suite.board = suite.env.board(suite.T(), "Team", suite.owner)
	suite.project = suite.env.project(suite.T(), "Sprint 1", suite.board, suite.owner)

	_, err := suite.env.boardSvc.AddMember(suite.ctx, suite.owner.ID, suite.board.ID, AddMemberInput{UserID: suite.member.ID})
	suite.Require().NoError(err)
}

func (suite *TaskServiceTestSuite) TestCreateAndMarkDone() {
	task := suite.env.task(suite.T(), "Fix bug", suite.project, suite.owner)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(suite.owner.ID, task.CreatorID)
	suite.Equal(suite.owner.ID, task.LastModifierID)

	done := models.TaskStatusDone
	updated, err := suite.env.taskSvc.UpdateTask(suite.ctx, suite.owner.ID, task.ID, UpdateTaskInput{Status: &done})
	suite.Require().NoError(err)

	suite.Equal(models.TaskStatusDone, updated.Status)
	suite.Equal(suite.owner.ID, updated.CreatorID)
	suite.Equal(suite.owner.ID, updated.LastModifierID)
	suite.Equal("alice", updated.LastModifier.Name)
}

func (suite *TaskServiceTestSuite) TestLastModifierTracksLatestEditor() {
	task := suite.env.task(suite.T(), "Fix bug", suite.project, suite.member)

	title := "Fix the bug"
	updated, err := suite.env.taskSvc.UpdateTask(suite.ctx, suite.owner.ID, task.ID, UpdateTaskInput{Title: &title})
	suite.Require().NoError(err)

	suite.Equal(suite.member.ID, updated.CreatorID)
	suite.Equal(suite.owner.ID, updated.LastModifierID)

	inProgress := models.TaskStatusInProgress
	updated, err = suite.env.taskSvc.UpdateTask(suite.ctx, suite.member.ID, task.ID, UpdateTaskInput{Status: &inProgress})
	suite.Require().NoError(err)
	suite.Equal(suite.member.ID, updated.LastModifierID)
	suite.Equal(suite.member.ID, updated.CreatorID)
}

func (suite *TaskServiceTestSuite) TestCreateValidation() {
	tests := []struct {
		name  string
		input CreateTaskInput
		want  error
	}{
		{"missing title", CreateTaskInput{BoardID: suite.board.ID, ProjectID: suite.project.ID}, ErrTitleRequired},
		{"missing project", CreateTaskInput{Title: "T", BoardID: suite.board.ID}, ErrProjectIDRequired},
		{"missing board", CreateTaskInput{Title: "T", ProjectID: suite.project.ID}, ErrBoardIDRequired},
		{"board mismatch", CreateTaskInput{Title: "T", BoardID: "other", ProjectID: suite.project.ID}, ErrBoardMismatch},
		{"invalid status", CreateTaskInput{Title: "T", Status: "BLOCKED", BoardID: suite.board.ID, ProjectID: suite.project.ID}, ErrInvalidStatus},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			tt.input.CreatorID = suite.owner.ID
			_, err := suite.env.taskSvc.CreateTask(suite.ctx, tt.input)
			suite.ErrorIs(err, tt.want)
		})
	}

	suite.Zero(suite.env.count(suite.T(), &models.Task{}))
}

func (suite *TaskServiceTestSuite) TestCreateRequiresProjectView() {
	_, err := suite.env.taskSvc.CreateTask(suite.ctx, CreateTaskInput{
		Title:     "Sneaky",
		BoardID:   suite.board.ID,
		ProjectID: suite.project.ID,
		CreatorID: suite.stranger.ID,
	})
	suite.ErrorIs(err, permissions.ErrProjectNotFound)
}

func (suite *TaskServiceTestSuite) TestAssignee() {
	_, err := suite.env.taskSvc.CreateTask(suite.ctx, CreateTaskInput{
		Title:      "Review",
		BoardID:    suite.board.ID,
		ProjectID:  suite.project.ID,
		AssigneeID: &suite.stranger.ID,
		CreatorID:  suite.owner.ID,
	})
	suite.ErrorIs(err, ErrInvalidAssignee)

	task, err := suite.env.taskSvc.CreateTask(suite.ctx, CreateTaskInput{
		Title:      "Review",
		BoardID:    suite.board.ID,
		ProjectID:  suite.project.ID,
		AssigneeID: &suite.member.ID,
		CreatorID:  suite.owner.ID,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.Assignee)
	suite.Equal("bob", task.Assignee.Name)

	// the assignee edits but cannot delete
	perms, err := suite.env.taskSvc.Permissions(suite.ctx, suite.member.ID, task.ID)
	suite.Require().NoError(err)
	suite.Equal(permissions.Permissions{CanView: true, CanEdit: true}, perms)

	err = suite.env.taskSvc.DeleteTask(suite.ctx, suite.member.ID, task.ID)
	suite.ErrorIs(err, ErrPermissionDenied)

	updated, err := suite.env.taskSvc.UpdateTask(suite.ctx, suite.owner.ID, task.ID, UpdateTaskInput{ClearAssignee: true})
	suite.Require().NoError(err)
	suite.Nil(updated.AssigneeID)
	suite.Nil(updated.Assignee)

	// a plain board member can view but not edit
	title := "Hijack"
	_, err = suite.env.taskSvc.UpdateTask(suite.ctx, suite.member.ID, task.ID, UpdateTaskInput{Title: &title})
	suite.ErrorIs(err, ErrPermissionDenied)
}

func (suite *TaskServiceTestSuite) TestDueDate() {
	due := time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)
	task, err := suite.env.taskSvc.CreateTask(suite.ctx, CreateTaskInput{
		Title:     "Ship",
		DueDate:   &due,
		BoardID:   suite.board.ID,
		ProjectID: suite.project.ID,
		CreatorID: suite.owner.ID,
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.DueDate)
	suite.True(due.Equal(*task.DueDate))

	updated, err := suite.env.taskSvc.UpdateTask(suite.ctx, suite.owner.ID, task.ID, UpdateTaskInput{ClearDueDate: true})
	suite.Require().NoError(err)
	suite.Nil(updated.DueDate)
}

func (suite *TaskServiceTestSuite) TestDeleteRules() {
	task := suite.env.task(suite.T(), "Cleanup", suite.project, suite.member)

	err := suite.env.taskSvc.DeleteTask(suite.ctx, suite.stranger.ID, task.ID)
	suite.ErrorIs(err, permissions.ErrTaskNotFound)

	suite.Require().NoError(suite.env.taskSvc.DeleteTask(suite.ctx, suite.member.ID, task.ID))

	_, err = suite.env.taskSvc.GetTask(suite.ctx, suite.member.ID, task.ID)
	suite.ErrorIs(err, permissions.ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestListTasks() {
	other := suite.env.board(suite.T(), "Private", suite.stranger)
	otherProject := suite.env.project(suite.T(), "Hidden", other, suite.stranger)

	fix := suite.env.task(suite.T(), "Fix login", suite.project, suite.owner)
	suite.env.task(suite.T(), "Write docs", suite.project, suite.member)
	suite.env.task(suite.T(), "Secret", otherProject, suite.stranger)

	tasks, total, err := suite.env.taskSvc.ListTasks(suite.ctx, ListTasksInput{UserID: suite.member.ID, Page: 1, PageSize: 20})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(tasks, 2)

	tasks, total, err = suite.env.taskSvc.ListTasks(suite.ctx, ListTasksInput{UserID: suite.member.ID, Search: "LOGIN"})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(fix.ID, tasks[0].ID)

	done := models.TaskStatusDone
	_, err = suite.env.taskSvc.UpdateTask(suite.ctx, suite.owner.ID, fix.ID, UpdateTaskInput{Status: &done})
	suite.Require().NoError(err)

	tasks, _, err = suite.env.taskSvc.ListTasks(suite.ctx, ListTasksInput{UserID: suite.owner.ID, ProjectID: suite.project.ID, Status: &done})
	suite.Require().NoError(err)
	suite.Len(tasks, 1)

	_, _, err = suite.env.taskSvc.ListTasks(suite.ctx, ListTasksInput{UserID: suite.member.ID, ProjectID: otherProject.ID})
	suite.ErrorIs(err, permissions.ErrProjectNotFound)

	invalid := models.TaskStatus("BLOCKED")
	_, _, err = suite.env.taskSvc.ListTasks(suite.ctx, ListTasksInput{UserID: suite.member.ID, Status: &invalid})
	suite.ErrorIs(err, ErrInvalidStatus)
}

func (suite *TaskServiceTestSuite) TestListAssignedToMeAndDueToday() {
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	suite.env.taskSvc.now = func() time.Time { return now }

	today := now.Add(3 * time.Hour)
	tomorrow := now.Add(24 * time.Hour)
	for _, in := range []CreateTaskInput{
		{Title: "Today", DueDate: &today, AssigneeID: &suite.member.ID},
		{Title: "Tomorrow", DueDate: &tomorrow, AssigneeID: &suite.member.ID},
		{Title: "Unassigned", DueDate: &today},
	} {
		in.BoardID = suite.board.ID
		in.ProjectID = suite.project.ID
		in.CreatorID = suite.owner.ID
		_, err := suite.env.taskSvc.CreateTask(suite.ctx, in)
		suite.Require().NoError(err)
	}

	tasks, total, err := suite.env.taskSvc.ListTasks(suite.ctx, ListTasksInput{UserID: suite.member.ID, AssignedToMe: true, SortByDueDate: true})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Equal("Today", tasks[0].Title)

	tasks, _, err = suite.env.taskSvc.ListTasks(suite.ctx, ListTasksInput{UserID: suite.member.ID, AssignedToMe: true, DueToday: true})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("Today", tasks[0].Title)
}

func (suite *TaskServiceTestSuite) TestPermissionsForStranger() {
	task := suite.env.task(suite.T(), "Fix bug", suite.project, suite.owner)

	perms, err := suite.env.taskSvc.Permissions(suite.ctx, suite.stranger.ID, task.ID)
	suite.Require().NoError(err)
	suite.Equal(permissions.Permissions{}, perms)

	_, err = suite.env.taskSvc.Permissions(suite.ctx, suite.stranger.ID, "missing")
	suite.ErrorIs(err, permissions.ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestPermissionsWithMissingProject() {
	task := suite.env.task(suite.T(), "Fix bug", suite.project, suite.owner)
	suite.Require().NoError(suite.env.projectSvc.DeleteProject(suite.ctx, suite.owner.ID, suite.project.ID))

	perms, err := suite.env.taskSvc.Permissions(suite.ctx, suite.owner.ID, task.ID)
	suite.ErrorIs(err, permissions.ErrTaskNotFound)
	suite.Equal(permissions.Permissions{}, perms)

	_, err = suite.env.taskSvc.GetTask(suite.ctx, suite.owner.ID, task.ID)
	suite.ErrorIs(err, permissions.ErrTaskNotFound)
}

func (suite *TaskServiceTestSuite) TestUpdateWithoutChangesKeepsLastModifier() {
	task, err := suite.env.taskSvc.CreateTask(suite.ctx, CreateTaskInput{
		Title:      "Fix bug",
		BoardID:    suite.board.ID,
		ProjectID:  suite.project.ID,
		AssigneeID: &suite.member.ID,
		CreatorID:  suite.owner.ID,
	})
	suite.Require().NoError(err)

	updated, err := suite.env.taskSvc.UpdateTask(suite.ctx, suite.member.ID, task.ID, UpdateTaskInput{})
	suite.Require().NoError(err)
	suite.Equal(suite.owner.ID, updated.LastModifierID)

	// resending the current values is not a change either
	title := "Fix bug"
	updated, err = suite.env.taskSvc.UpdateTask(suite.ctx, suite.member.ID, task.ID, UpdateTaskInput{Title: &title, AssigneeID: &suite.member.ID})
	suite.Require().NoError(err)
	suite.Equal(suite.owner.ID, updated.LastModifierID)

	reloaded, err := suite.env.taskSvc.GetTask(suite.ctx, suite.owner.ID, task.ID)
	suite.Require().NoError(err)
	suite.Equal(suite.owner.ID, reloaded.Task.LastModifierID)

	// a real change records the assignee
	done := models.TaskStatusDone
	updated, err = suite.env.taskSvc.UpdateTask(suite.ctx, suite.member.ID, task.ID, UpdateTaskInput{Status: &done})
	suite.Require().NoError(err)
	suite.Equal(suite.member.ID, updated.LastModifierID)
}

func (suite *TaskServiceTestSuite) TestGenerateTasks() {
	past := time.Now().Add(-72 * time.Hour)
	future := time.Now().Add(72 * time.Hour)
	suite.generator.tasks = []GeneratedTask{
		{Title: "  Write tests  ", DueDate: &future},
		{Title: "Old", DueDate: &past},
		{Title: "   "},
	}

	drafts, err := suite.env.taskSvc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes", ProjectID: suite.project.ID, UserID: suite.member.ID})
	suite.Require().NoError(err)
	suite.Require().Len(drafts, 2)
	suite.Equal("Write tests", drafts[0].Title)
	suite.NotNil(drafts[0].DueDate)
	suite.Nil(drafts[1].DueDate)
	suite.Equal("Sprint 1", suite.generator.projectTitle)

	// drafts are never stored
	suite.Zero(suite.env.count(suite.T(), &models.Task{}))

	_, err = suite.env.taskSvc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes", ProjectID: suite.project.ID, UserID: suite.stranger.ID})
	suite.ErrorIs(err, permissions.ErrProjectNotFound)

	_, err = suite.env.taskSvc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: " ", ProjectID: suite.project.ID, UserID: suite.member.ID})
	suite.ErrorIs(err, ErrTextRequired)

	many := make([]GeneratedTask, constants.MaxAIGeneratedTasks+5)
	for i := range many {
		many[i] = GeneratedTask{Title: "Task"}
	}
	suite.generator.tasks = many
	drafts, err = suite.env.taskSvc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes", ProjectID: suite.project.ID, UserID: suite.member.ID})
	suite.Require().NoError(err)
	suite.Len(drafts, constants.MaxAIGeneratedTasks)

	suite.generator.tasks = nil
	_, err = suite.env.taskSvc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes", ProjectID: suite.project.ID, UserID: suite.member.ID})
	suite.ErrorIs(err, ErrAINoTasksGenerated)

	suite.generator.err = errors.New("upstream down")
	_, err = suite.env.taskSvc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes", ProjectID: suite.project.ID, UserID: suite.member.ID})
	suite.Error(err)
}

func (suite *TaskServiceTestSuite) TestGenerateTasksNotConfigured() {
	svc := NewTaskService(suite.env.tasks, suite.env.projects, suite.env.users, suite.env.resolver, nil)

	_, err := svc.GenerateTasks(suite.ctx, GenerateTasksInput{Text: "notes", ProjectID: suite.project.ID, UserID: suite.owner.ID})
	suite.ErrorIs(err, ErrAIServiceNotConfigured)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
