package stylepack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/styleimport/internal/model"
)

// filePerm is used when the master file does not exist yet.
const filePerm = 0o644

// Encode renders styles as a JSON array indented by indent spaces. Every
// element starts on its own line, even with an indent of 0. HTML characters
// are left as-is and no trailing newline is written.
func Encode(styles []*model.Style, indent int) ([]byte, error) {
	if styles == nil {
		styles = []*model.Style{}
	}
	var compact bytes.Buffer
	enc := json.NewEncoder(&compact)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(styles); err != nil {
		return nil, fmt.Errorf("encode styles: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimRight(compact.Bytes(), "\n"), "", strings.Repeat(" ", indent)); err != nil {
		return nil, fmt.Errorf("indent styles: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes styles to path atomically: temp file, fsync, rename. The
// existing file's permissions are kept.
func Save(path string, styles []*model.Style, indent int) error {
	data, err := Encode(styles, indent)
	if err != nil {
		return err
	}

	perm := os.FileMode(filePerm)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".style-pack-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	success = true
	return nil
}
