package snapshot

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"trackstrip/internal/media"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current snapshot layout. Snapshots written with any
// other version are treated as corrupt and must be rescanned.
const schemaVersion = 1

const lockRetryDelay = 50 * time.Millisecond

// ErrNoSnapshot indicates no snapshot file exists at the store path.
var ErrNoSnapshot = errors.New("no inventory snapshot")

// Snapshot is one persisted inventory scan.
type Snapshot struct {
	ScanID  string
	Root    string
	Created time.Time
	Files   []media.MediaFile
}

// Store reads and replaces the snapshot file at a fixed path.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore returns a store for the snapshot at path. Nothing is touched on disk
// until Save or Load is called.
func NewStore(path string) *Store {
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a snapshot file is present.
func (s *Store) Exists() (bool, error) {
	info, err := os.Stat(s.path)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat snapshot: %w", err)
}

// Save replaces the snapshot with snap. The previous snapshot stays in place
// until the new one has been fully written and committed.
func (s *Store) Save(ctx context.Context, snap Snapshot) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure snapshot directory: %w", err)
	}
	if err := lockContext(ctx, s.lock.TryLockContext); err != nil {
		return fmt.Errorf("acquire snapshot lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := writeDatabase(ctx, tmpPath, snap); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load reads the snapshot back. A missing file yields ErrNoSnapshot; anything
// unreadable or inconsistent yields an error wrapping media.ErrCacheCorrupt.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	exists, err := s.Exists()
	if err != nil {
		return Snapshot{}, err
	}
	if !exists {
		return Snapshot{}, fmt.Errorf("%w at %s", ErrNoSnapshot, s.path)
	}
	if err := lockContext(ctx, s.lock.TryRLockContext); err != nil {
		return Snapshot{}, fmt.Errorf("acquire snapshot lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	db, err := openDatabase(s.path)
	if err != nil {
		return Snapshot{}, corrupt(s.path, err)
	}
	defer db.Close()

	snap, err := readSnapshot(ctx, db)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Snapshot{}, ctxErr
		}
		return Snapshot{}, corrupt(s.path, err)
	}
	return snap, nil
}

func lockContext(ctx context.Context, try func(context.Context, time.Duration) (bool, error)) error {
	ok, err := try(ctx, lockRetryDelay)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("lock not acquired")
	}
	return nil
}

func corrupt(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", media.ErrCacheCorrupt, path, err)
}

func openDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

func writeDatabase(ctx context.Context, path string, snap Snapshot) error {
	db, err := openDatabase(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	created := snap.Created
	if created.IsZero() {
		created = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO scan (scan_id, root_path, created_at, file_count) VALUES (?, ?, ?, ?)",
		snap.ScanID, snap.Root, created.UTC().Format(time.RFC3339Nano), len(snap.Files),
	); err != nil {
		return fmt.Errorf("record scan: %w", err)
	}

	for pos, file := range snap.Files {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO media_files (position, path, container) VALUES (?, ?, ?)",
			pos, file.Path, file.Info.Container.String(),
		); err != nil {
			return fmt.Errorf("record media file %s: %w", file.Path, err)
		}
		streams := file.Info.Streams()
		for _, kind := range []media.StreamKind{media.KindAudio, media.KindVideo, media.KindSubtitle} {
			for streamPos, record := range streams.Kind(kind) {
				tags, err := encodeTags(record.Tags)
				if err != nil {
					return fmt.Errorf("encode tags for %s: %w", file.Path, err)
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO streams (file_position, kind, position, stream_index, codec_name, tags_json)
					 VALUES (?, ?, ?, ?, ?, ?)`,
					pos, string(kind), streamPos, record.StreamIndex, record.CodecName, tags,
				); err != nil {
					return fmt.Errorf("record %s stream %d of %s: %w", kind, streamPos, file.Path, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func encodeTags(tags map[string]string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func readSnapshot(ctx context.Context, db *sql.DB) (Snapshot, error) {
	if err := checkVersion(ctx, db); err != nil {
		return Snapshot{}, err
	}

	var (
		snap      Snapshot
		created   string
		fileCount int
	)
	if err := db.QueryRowContext(ctx,
		"SELECT scan_id, root_path, created_at, file_count FROM scan",
	).Scan(&snap.ScanID, &snap.Root, &created, &fileCount); err != nil {
		return Snapshot{}, fmt.Errorf("read scan: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parse scan timestamp: %w", err)
	}
	snap.Created = ts

	files, err := readFiles(ctx, db)
	if err != nil {
		return Snapshot{}, err
	}
	if len(files) != fileCount {
		return Snapshot{}, fmt.Errorf("scan records %d files, found %d", fileCount, len(files))
	}
	if err := attachStreams(ctx, db, files); err != nil {
		return Snapshot{}, err
	}

	snap.Files = make([]media.MediaFile, 0, len(files))
	for _, f := range files {
		info, err := media.NewMediaFileInfo(f.container, f.streams)
		if err != nil {
			return Snapshot{}, fmt.Errorf("media file %s: %w", f.path, err)
		}
		snap.Files = append(snap.Files, media.MediaFile{Path: f.path, Info: info})
	}
	return snap, nil
}

func checkVersion(ctx context.Context, db *sql.DB) error {
	var tableExists int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists); err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return errors.New("schema_version table missing")
	}
	var version int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("snapshot has schema version %d, expected %d", version, schemaVersion)
	}
	return nil
}

type fileRow struct {
	path      string
	container media.Container
	streams   media.Streams
}

func readFiles(ctx context.Context, db *sql.DB) ([]fileRow, error) {
	rows, err := db.QueryContext(ctx, "SELECT position, path, container FROM media_files ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query media files: %w", err)
	}
	defer rows.Close()

	var files []fileRow
	for rows.Next() {
		var (
			pos       int
			path      string
			container string
		)
		if err := rows.Scan(&pos, &path, &container); err != nil {
			return nil, fmt.Errorf("scan media file: %w", err)
		}
		if pos != len(files) {
			return nil, fmt.Errorf("media file position %d out of sequence", pos)
		}
		parsed, err := media.ParseContainer(container)
		if err != nil {
			return nil, fmt.Errorf("media file %s: %w", path, err)
		}
		files = append(files, fileRow{path: path, container: parsed})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate media files: %w", err)
	}
	return files, nil
}

func attachStreams(ctx context.Context, db *sql.DB, files []fileRow) error {
	rows, err := db.QueryContext(ctx,
		`SELECT file_position, kind, position, stream_index, codec_name, tags_json
		 FROM streams ORDER BY file_position, kind, position`)
	if err != nil {
		return fmt.Errorf("query streams: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			filePos     int
			kind        string
			pos         int
			streamIndex int
			codec       string
			tagsJSON    sql.NullString
		)
		if err := rows.Scan(&filePos, &kind, &pos, &streamIndex, &codec, &tagsJSON); err != nil {
			return fmt.Errorf("scan stream: %w", err)
		}
		if filePos < 0 || filePos >= len(files) {
			return fmt.Errorf("stream references missing file position %d", filePos)
		}
		var tags map[string]string
		if tagsJSON.Valid && strings.TrimSpace(tagsJSON.String) != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &tags); err != nil {
				return fmt.Errorf("decode stream tags: %w", err)
			}
		}
		target, err := streamSlot(&files[filePos].streams, media.StreamKind(kind))
		if err != nil {
			return err
		}
		if pos != len(*target) {
			return fmt.Errorf("%s stream position %d out of sequence for %s", kind, pos, files[filePos].path)
		}
		*target = append(*target, media.NewStreamRecord(pos, streamIndex, codec, tags))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate streams: %w", err)
	}
	return nil
}

func streamSlot(streams *media.Streams, kind media.StreamKind) (*[]media.StreamRecord, error) {
	switch kind {
	case media.KindAudio:
		return &streams.Audio, nil
	case media.KindVideo:
		return &streams.Video, nil
	case media.KindSubtitle:
		return &streams.Subtitle, nil
	default:
		return nil, fmt.Errorf("unknown stream kind %q", kind)
	}
}
