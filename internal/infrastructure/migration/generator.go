package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/carelog-health/carelog/internal/shared/logger"
)

// Generator creates new migration files in the scripts directory. Files are
// numbered sequentially so the embedded FS applies them in order.
type Generator struct {
	scriptsPath string
	logger      logger.Interface
}

// NewGenerator creates a new migration generator
func NewGenerator(scriptsPath string) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      logger.NewLogger().With("component", "migration.generator"),
	}
}

// CreateMigration creates a new goose migration file with the next sequence number
func (g *Generator) CreateMigration(name string) error {
	g.logger.Infow("creating new migration", "name", name)

	if err := os.MkdirAll(g.scriptsPath, 0755); err != nil {
		return fmt.Errorf("failed to create scripts directory: %w", err)
	}

	next, err := g.nextSequence()
	if err != nil {
		return fmt.Errorf("failed to determine next sequence number: %w", err)
	}

	fileName := fmt.Sprintf("%05d_%s.sql", next, name)
	filePath := filepath.Join(g.scriptsPath, fileName)

	content := g.migrationTemplate(name)
	if err := g.writeFile(filePath, content); err != nil {
		return fmt.Errorf("failed to create migration file: %w", err)
	}

	g.logger.Infow("migration file created successfully", "file", filePath)

	return nil
}

// nextSequence scans existing scripts for the highest numeric prefix
func (g *Generator) nextSequence() (int, error) {
	entries, err := os.ReadDir(g.scriptsPath)
	if err != nil {
		return 0, err
	}

	max := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		prefix, _, found := strings.Cut(entry.Name(), "_")
		if !found {
			continue
		}
		n, err := strconv.Atoi(prefix)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return max + 1, nil
}

// writeFile writes content to a file
func (g *Generator) writeFile(filePath, content string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(content)
	return err
}

// migrationTemplate generates a goose migration skeleton
func (g *Generator) migrationTemplate(name string) string {
	return fmt.Sprintf(`-- Migration: %s
-- Created: %s

-- +goose Up
-- Add your SQL statements here
-- Example:
-- CREATE TABLE example_table (
--     id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
--     name VARCHAR(255) NOT NULL,
--     created_at DATETIME(3) NULL,
--     updated_at DATETIME(3) NULL
-- );

-- +goose Down
-- Add your rollback SQL statements here
-- Example:
-- DROP TABLE IF EXISTS example_table;
`, name, time.Now().Format("2006-01-02 15:04:05"))
}
