package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"
)

//go:embed schema/*.sql
var embedSchema embed.FS

// ApplySchema runs every embedded schema file, in file name order, through c.
// The DDL sticks to types and syntax shared by MySQL, PostgreSQL and SQLite.
func ApplySchema(ctx context.Context, c *Client, l *zap.Logger) error {
	sqlFiles, err := getSchemaSQLFiles()
	if err != nil {
		return err
	}

	l.Info("found schema files", zap.Strings("files", sqlFiles))

	for _, filename := range sqlFiles {
		content, err := embedSchema.ReadFile("schema/" + filename)
		if err != nil {
			return fmt.Errorf("failed to read schema file %s: %w", filename, err)
		}

		for _, stmt := range splitStatements(string(content)) {
			if _, err := c.Execute(ctx, stmt, nil, Silent()); err != nil {
				return fmt.Errorf("failed to execute schema %s: %w", filename, err)
			}
		}

		l.Info("schema file executed", zap.String("file", filename))
	}

	return nil
}

// getSchemaSQLFiles returns sorted list of SQL files from embedded schema
func getSchemaSQLFiles() ([]string, error) {
	fsys, err := fs.Sub(embedSchema, "schema")
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var sqlFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}

	sort.Strings(sqlFiles)
	return sqlFiles, nil
}

// MySQL runs one statement per call unless multiStatements is set on the DSN.
func splitStatements(content string) []string {
	var out []string
	for _, stmt := range strings.Split(content, ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
