package icons

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/satkunas/sticker-factory/backend-go/internal/typeid"
)

// ErrNotFound is returned when an icon id matches neither a builtin nor
// an uploaded file.
var ErrNotFound = errors.New("icon not found")

// Library resolves icon ids to embeddable vector markup. Ids are looked
// up in the builtin set first, then in the upload directory. Uploaded
// markup is sanitized on the way in, so reads serve it verbatim.
type Library struct {
	dir       string
	sanitizer *Sanitizer
}

// NewLibrary creates a library storing uploaded icons under dir.
func NewLibrary(dir string, sanitizer *Sanitizer) *Library {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create icon dir", "error", err, "dir", dir)
	}
	return &Library{dir: dir, sanitizer: sanitizer}
}

// IconMarkup implements the renderer's icon loader. Uploaded ids carry
// the icon typeid prefix; anything else that is not builtin cannot name
// a stored file, which keeps lookups from ever leaving the icon dir.
func (l *Library) IconMarkup(id string) (string, error) {
	if markup, ok := builtin[id]; ok {
		return markup, nil
	}
	if err := typeid.Validate(id, typeid.PrefixIcon); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, err := os.ReadFile(filepath.Join(l.dir, id+".svg"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("read icon %s: %w", id, err)
	}
	return string(data), nil
}

// Store sanitizes and persists uploaded icon markup, returning the new
// icon id.
func (l *Library) Store(markup string) (string, error) {
	clean := l.sanitizer.SanitizeMarkup(markup)
	if !strings.Contains(clean, "<svg") {
		return "", fmt.Errorf("markup has no svg root element")
	}

	id := typeid.NewIconID()
	path := filepath.Join(l.dir, id+".svg")
	if err := os.WriteFile(path, []byte(clean), 0644); err != nil {
		return "", fmt.Errorf("write icon %s: %w", id, err)
	}
	return id, nil
}

// Delete removes an uploaded icon. Builtins cannot be deleted.
func (l *Library) Delete(id string) error {
	if _, ok := builtin[id]; ok {
		return fmt.Errorf("builtin icon %s cannot be deleted", id)
	}
	if err := typeid.Validate(id, typeid.PrefixIcon); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := os.Remove(filepath.Join(l.dir, id+".svg")); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("delete icon %s: %w", id, err)
	}
	return nil
}

// List returns the builtin names followed by every uploaded icon id.
func (l *Library) List() []string {
	ids := BuiltinNames()

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		slog.Error("list icon dir", "error", err, "dir", l.dir)
		return ids
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".svg") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".svg"))
	}
	return ids
}
