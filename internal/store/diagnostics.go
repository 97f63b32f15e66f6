package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Diagnostic represents a single consistency check finding.
type Diagnostic struct {
	Level           string `json:"level"` // "warning" or "error"
	Code            string `json:"code"`
	Message         string `json:"message"`
	SuggestedAction string `json:"suggested_action,omitempty"`
}

// RunDiagnostics performs consistency checks and returns findings.
// A healthy store yields an empty slice. It only reads, so it can inspect a
// database opened with OpenWithoutMigrations.
func RunDiagnostics(ctx context.Context, db *sql.DB) ([]Diagnostic, error) {
	diags := []Diagnostic{}

	integrity, err := checkIntegrity(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("integrity check: %w", err)
	}
	diags = append(diags, integrity...)

	schema, err := checkSchemaVersion(db)
	if err != nil {
		return nil, fmt.Errorf("schema version check: %w", err)
	}
	diags = append(diags, schema...)

	hasTasks, err := tableExists(db, "tasks")
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	if !hasTasks {
		return diags, nil
	}

	blank, err := findBlankNames(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("blank name check: %w", err)
	}
	diags = append(diags, blank...)

	return diags, nil
}

func checkIntegrity(ctx context.Context, db *sql.DB) ([]Diagnostic, error) {
	var result string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check`).Scan(&result); err != nil {
		return nil, err
	}
	if result == "ok" {
		return nil, nil
	}
	return []Diagnostic{{
		Level:           "error",
		Code:            "INTEGRITY",
		Message:         "quick_check reported: " + result,
		SuggestedAction: "restore the database file from a backup",
	}}, nil
}

func checkSchemaVersion(db *sql.DB) ([]Diagnostic, error) {
	current, latest, err := SchemaVersion(db)
	if err != nil {
		return nil, err
	}
	if current >= latest {
		return nil, nil
	}
	return []Diagnostic{{
		Level:           "error",
		Code:            "SCHEMA_OUTDATED",
		Message:         fmt.Sprintf("schema version %d is behind %d", current, latest),
		SuggestedAction: "run any tick task command to apply pending migrations",
	}}, nil
}

// findBlankNames flags active rows with an empty name. New tasks cannot have
// one; they come from tables created before tick managed the file.
func findBlankNames(ctx context.Context, db *sql.DB) ([]Diagnostic, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id
		FROM tasks
		WHERE deleted_at IS NULL AND trim(name) = ''
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var diags []Diagnostic
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		diags = append(diags, Diagnostic{
			Level:           "warning",
			Code:            "BLANK_NAME",
			Message:         fmt.Sprintf("task %d has an empty name", id),
			SuggestedAction: fmt.Sprintf("tick delete %d", id),
		})
	}
	return diags, rows.Err()
}
