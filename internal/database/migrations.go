package database

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// secondaryIndexes lists lookup indexes beyond those declared on the models.
var secondaryIndexes = []struct {
	table   string
	name    string
	columns string
}{
	{"tasks", "idx_tasks_project_status", "project_id, status"},
	{"tasks", "idx_tasks_due_date", "due_date"},
	{"tasks", "idx_tasks_created_at", "created_at"},
	{"projects", "idx_projects_board_created", "board_id, created_at"},
}

// AddIndexes adds the secondary indexes that are missing.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range secondaryIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			log.WithField("index", idx.name).Debug("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(log.Fields{"index": idx.name, "table": idx.table}).Info("created index")
	}

	return nil
}

// MigrateDatabase runs schema migration followed by index creation.
func MigrateDatabase(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return err
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
