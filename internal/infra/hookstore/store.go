// Package hookstore manages PocketBase hook scripts as plain text files in a
// pb_hooks directory. Files are opaque here; the backend's scripting engine
// executes them.
package hookstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"pbmcp/internal/domain"
)

type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore creates a store rooted at dir. An empty dir resolves to
// <cwd>/pb_hooks.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		dir = filepath.Join(wd, domain.HooksDirName)
	}
	return &Store{
		dir:    dir,
		logger: logger.Named("hooks"),
	}
}

// Dir returns the default hooks directory.
func (s *Store) Dir() string {
	return s.dir
}

// resolve picks the per-call directory override when given.
func (s *Store) resolve(override string) string {
	if override != "" {
		return override
	}
	return s.dir
}

func validateFilename(op, filename string) error {
	if strings.TrimSpace(filename) == "" {
		return domain.E(domain.CodeInvalidArgument, op, "filename is required", nil)
	}
	if filepath.Base(filename) != filename {
		return domain.E(domain.CodeInvalidArgument, op, "filename must not contain path separators", nil)
	}
	if !strings.HasSuffix(filename, domain.HookFileSuffix) {
		return domain.E(domain.CodeInvalidArgument, op,
			fmt.Sprintf("hook filename must end with %s", domain.HookFileSuffix), nil)
	}
	return nil
}

// List returns the hook filenames in the directory, sorted. A missing
// directory lists as empty rather than failing.
func (s *Store) List(dirOverride string) ([]string, error) {
	const op = "list_hooks"
	dir := s.resolve(dirOverride)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, domain.E(domain.CodeInternal, op, "", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), domain.HookFileSuffix) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Read(filename, dirOverride string) (string, error) {
	const op = "read_hook"
	if err := validateFilename(op, filename); err != nil {
		return "", err
	}
	path := filepath.Join(s.resolve(dirOverride), filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.E(domain.CodeNotFound, op,
				fmt.Sprintf("hook file %q not found", filename), err)
		}
		return "", domain.E(domain.CodeInternal, op, "", err)
	}
	return string(data), nil
}

// Write creates or overwrites a hook file, creating the directory on demand.
func (s *Store) Write(filename, content, dirOverride string) (string, error) {
	const op = "create_hook"
	if err := validateFilename(op, filename); err != nil {
		return "", err
	}
	dir := s.resolve(dirOverride)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", domain.E(domain.CodeInternal, op, "", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", domain.E(domain.CodeInternal, op, "", err)
	}
	s.logger.Info("hook file written", zap.String("path", path), zap.Int("bytes", len(content)))
	return path, nil
}

func (s *Store) Delete(filename, dirOverride string) error {
	const op = "delete_hook"
	if err := validateFilename(op, filename); err != nil {
		return err
	}
	path := filepath.Join(s.resolve(dirOverride), filename)

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.E(domain.CodeNotFound, op,
				fmt.Sprintf("hook file %q not found", filename), err)
		}
		return domain.E(domain.CodeInternal, op, "", err)
	}
	s.logger.Info("hook file deleted", zap.String("path", path))
	return nil
}
