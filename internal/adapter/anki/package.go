// Package anki writes problems as an Anki package (.apkg): a zip holding a
// schema v11 collection database and an empty media map.
package anki

import (
	"archive/zip"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"leetcode-anki/internal/domain/errs"
	"leetcode-anki/internal/domain/model"
	"leetcode-anki/internal/domain/ports"
)

const (
	collectionEntry = "collection.anki2"
	mediaEntry      = "media"
)

// PackageWriter writes a deck package to a fixed path, replacing the previous one atomically.
type PackageWriter struct {
	path   string
	logger ports.Logger
	now    func() time.Time
}

var _ ports.DeckWriter = (*PackageWriter)(nil)

func NewPackageWriter(path string, logger ports.Logger) *PackageWriter {
	return &PackageWriter{path: path, logger: logger, now: time.Now}
}

func (w *PackageWriter) Write(ctx context.Context, deckName string, problems []model.Problem) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "leetcode-anki-*")
	if err != nil {
		return fmt.Errorf("create work dir: %w: %w", errs.ErrSerialization, err)
	}
	defer os.RemoveAll(workDir)

	dbPath := filepath.Join(workDir, collectionEntry)
	if err := w.writeCollection(ctx, dbPath, deckName, problems); err != nil {
		return fmt.Errorf("write collection: %w: %w", errs.ErrSerialization, err)
	}
	if err := w.writeArchive(dbPath); err != nil {
		return fmt.Errorf("write package %s: %w: %w", w.path, errs.ErrSerialization, err)
	}

	if w.logger != nil {
		w.logger.Debug(ctx, "deck written", "path", w.path, "deck", deckName, "notes", len(problems))
	}
	return nil
}

func (w *PackageWriter) writeCollection(ctx context.Context, dbPath, deckName string, problems []model.Problem) (err error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	now := w.now()
	modSeconds := now.Unix()
	modMillis := now.UnixMilli()

	conf, models, decks, dconf, err := collectionJSON(deckName, modSeconds)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertCollection,
		modSeconds, modMillis, modMillis, schemaVersion, conf, models, decks, dconf); err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}

	for i, problem := range problems {
		n := newNote(i, problem)
		if _, err = tx.ExecContext(ctx, insertNote,
			n.ID, n.GUID, noteModelID, modSeconds, n.joinedTags(), n.joinedFields(), n.sortField(), n.checksum()); err != nil {
			return fmt.Errorf("insert note %s: %w", problem.Detail.Slug, err)
		}
		if _, err = tx.ExecContext(ctx, insertCard,
			n.CardID, n.ID, deckID, modSeconds, i+1); err != nil {
			return fmt.Errorf("insert card %s: %w", problem.Detail.Slug, err)
		}
	}
	return tx.Commit()
}

func (w *PackageWriter) writeArchive(dbPath string) (err error) {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*.apkg")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	if err = addFile(zw, collectionEntry, dbPath); err != nil {
		return err
	}
	media, err := zw.Create(mediaEntry)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(media, "{}"); err != nil {
		return err
	}
	if err = zw.Close(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), w.path)
}

func addFile(zw *zip.Writer, name, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, src)
	return err
}
