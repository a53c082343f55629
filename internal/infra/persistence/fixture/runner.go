// Package fixture executes SQL setup scripts against the database.
//
// A script is split into batches on lines that hold nothing but GO (any case). Every batch
// runs once, in order; the first failure stops the script and is reported as a
// *DataSetupError naming it.
package fixture

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"personjson/internal/errors"
	"personjson/internal/util"

	"gorm.io/gorm"
)

// SchemaScript is the name of the persons schema script inside Schema.
const SchemaScript = "persons.sql"

// Schema holds the embedded schema scripts.
//
//go:embed persons.sql
var Schema embed.FS

// DataSetupError reports a script that could not be read or executed.
type DataSetupError struct {
	Script string
	Err    error
}

func (e *DataSetupError) Error() string {
	return "error executing '" + e.Script + "'"
}

func (e *DataSetupError) Unwrap() error {
	return e.Err
}

// Runner executes setup scripts through GORM.
type Runner struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(db *gorm.DB, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{db: db, logger: logger}
}

// ExecuteFiles runs scripts read from the file system, in order.
func (r *Runner) ExecuteFiles(ctx context.Context, files ...string) error {
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return &DataSetupError{Script: file, Err: errors.Wrap(err, "missing file")}
		}

		if err := r.execute(ctx, file, content); err != nil {
			return err
		}
	}

	return nil
}

// ExecuteFS runs scripts read from fsys, in order.
func (r *Runner) ExecuteFS(ctx context.Context, fsys fs.FS, files ...string) error {
	for _, file := range files {
		content, err := fs.ReadFile(fsys, file)
		if err != nil {
			return &DataSetupError{Script: file, Err: errors.Wrap(err, "missing file")}
		}

		if err := r.execute(ctx, file, content); err != nil {
			return err
		}
	}

	return nil
}

// ApplySchema creates the persons table when it does not exist yet.
func (r *Runner) ApplySchema(ctx context.Context) error {
	return r.ExecuteFS(ctx, Schema, SchemaScript)
}

func (r *Runner) execute(ctx context.Context, script string, content []byte) error {
	batches := SplitBatches(string(content))

	r.logger.InfoContext(ctx, "Executing SQL script",
		slog.String("script", script),
		slog.String("checksum", util.Checksum(content)),
		slog.String("size", util.FormatBytes(int64(len(content)))),
		slog.Int("batches", len(batches)),
	)

	for i, batch := range batches {
		if err := r.db.WithContext(ctx).Exec(batch).Error; err != nil {
			r.logger.ErrorContext(ctx, "SQL script failed",
				slog.String("script", script),
				slog.Int("batch", i+1),
				slog.String("error", err.Error()),
			)

			return &DataSetupError{Script: script, Err: err}
		}
	}

	return nil
}

// SplitBatches splits a script on separator lines consisting solely of GO, ignoring case and
// surrounding whitespace. Blank batches are dropped.
func SplitBatches(script string) []string {
	var (
		batches []string
		current strings.Builder
	)

	flush := func() {
		if batch := strings.TrimSpace(current.String()); batch != "" {
			batches = append(batches, batch)
		}
		current.Reset()
	}

	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.EqualFold(strings.TrimSpace(line), "GO") {
			flush()
			continue
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	flush()

	return batches
}
