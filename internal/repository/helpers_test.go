package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/kanban-api/internal/database"
	"github.com/yukikurage/kanban-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{Email: name + "@example.com", Name: name, PasswordHash: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createBoard(t *testing.T, db *gorm.DB, title, ownerID string) *models.Board {
	t.Helper()

	board := &models.Board{Title: title, OwnerID: ownerID, InviteCode: models.NewID()}
	require.NoError(t, db.Create(board).Error)
	return board
}
