package report

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/tinytelemetry/slowlog/internal/duckdb"
	"github.com/tinytelemetry/slowlog/internal/sqlite"
)

// FileFormat is a report file encoding.
type FileFormat int

const (
	FileXLSX FileFormat = iota
	FileDuckDB
	FileYAML
	FileSQLite
)

// FileFormatFor picks the encoding from the output extension. Unknown
// extensions get a workbook.
func FileFormatFor(path string) FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".duckdb", ".db":
		return FileDuckDB
	case ".yaml", ".yml":
		return FileYAML
	case ".sqlite", ".sqlite3":
		return FileSQLite
	default:
		return FileXLSX
	}
}

// WriteFile writes r to path in the encoding chosen by its extension.
// The report is built under a temporary name in the destination directory
// and renamed into place, so path never holds a partial report.
func WriteFile(ctx context.Context, r *Report, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "Failed to create %s", dir)
	}

	tmpDir, err := os.MkdirTemp(dir, ".slowlog-*")
	if err != nil {
		return errors.Wrap(err, "Failed to create temporary directory")
	}
	defer os.RemoveAll(tmpDir)

	tmp := filepath.Join(tmpDir, filepath.Base(path))
	switch FileFormatFor(path) {
	case FileDuckDB:
		err = writeDuckDB(ctx, r, tmp)
	case FileSQLite:
		err = writeSQLite(ctx, r, tmp)
	case FileYAML:
		err = writeStream(tmp, r, WriteYAML)
	default:
		err = writeStream(tmp, r, WriteXLSX)
	}
	if err != nil {
		return errors.Wrapf(err, "Failed to write report %s", path)
	}

	return errors.Wrapf(os.Rename(tmp, path), "Failed to move report into %s", path)
}

func writeStream(path string, r *Report, encode func(w io.Writer, r *Report) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeDuckDB(ctx context.Context, r *Report, path string) error {
	store, err := duckdb.NewStore(path)
	if err != nil {
		return err
	}
	if err := store.WriteReport(ctx, r); err != nil {
		store.Close()
		return err
	}
	return store.Close()
}

func writeSQLite(ctx context.Context, r *Report, path string) error {
	store, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	if err := store.WriteReport(ctx, r); err != nil {
		store.Close()
		return err
	}
	return store.Close()
}
