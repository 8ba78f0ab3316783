// Package backup archives the data directory (ledger, claim log, config)
// into timestamped zip files and restores from them.
package backup

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// Archives live in their own folder under the backup destination.
	Subdir = "Freeclaim Backups"

	archivePrefix = "FreeclaimBackup_"
	stampLayout   = "20060102_150405"
	archiveSuffix = ".zip"
)

var ErrNoArchives = errors.New("no backup archives found")

// Create zips everything under dataDir into a new timestamped archive
// below destDir and returns the archive path.
func Create(dataDir, destDir string) (string, error) {
	outDir := filepath.Join(destDir, Subdir)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := archivePrefix + time.Now().Format(stampLayout) + archiveSuffix
	outPath := filepath.Join(outDir, name)

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	err = filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dataDir, path)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		_ = zw.Close()
		return "", fmt.Errorf("archive data dir: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}
	return outPath, nil
}

// Latest returns the creation time of the newest archive under destDir,
// read from the file name stamp. ErrNoArchives when none exist.
func Latest(destDir string) (time.Time, error) {
	entries, err := os.ReadDir(filepath.Join(destDir, Subdir))
	if errors.Is(err, os.ErrNotExist) {
		return time.Time{}, ErrNoArchives
	}
	if err != nil {
		return time.Time{}, err
	}

	var stamps []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, archiveSuffix) {
			continue
		}
		stamps = append(stamps, strings.TrimSuffix(strings.TrimPrefix(name, archivePrefix), archiveSuffix))
	}
	if len(stamps) == 0 {
		return time.Time{}, ErrNoArchives
	}

	sort.Sort(sort.Reverse(sort.StringSlice(stamps)))
	t, err := time.ParseInLocation(stampLayout, stamps[0], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse archive stamp %q: %w", stamps[0], err)
	}
	return t, nil
}

// Restore unpacks an archive over dataDir, overwriting the current ledger,
// claim log and config.
func Restore(zipPath, dataDir string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	for _, zf := range zr.File {
		if err := extractOne(zf, dataDir); err != nil {
			return err
		}
	}
	return nil
}

func extractOne(zf *zip.File, dataDir string) error {
	// Reject entries that would escape the data dir.
	dest := filepath.Join(dataDir, filepath.FromSlash(zf.Name))
	if !strings.HasPrefix(dest, filepath.Clean(dataDir)+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry escapes data dir: %s", zf.Name)
	}

	if zf.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	src, err := zf.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
