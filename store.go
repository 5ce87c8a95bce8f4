package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	stateDirName       = ".git-p4son"
	changelistsDirName = "changelists"
	lastSyncedName     = "last-synced"
)

// reservedNames are reference keywords an alias must never shadow.
var reservedNames = []string{"latest", "last-synced"}

// store persists aliases and the last-synced changelist under the
// tool-private directory at the workspace root. Each record is one file
// holding the changelist number, written atomically. A single invocation
// is assumed to be the only writer; there is no file locking.
type store struct {
	root string
}

func newStore(workspace string) *store {
	return &store{root: workspace}
}

type aliasEntry struct {
	name       string
	changelist int
}

func (s *store) changelistsDir() string {
	return filepath.Join(s.root, stateDirName, changelistsDirName)
}

func (s *store) aliasPath(name string) string {
	return filepath.Join(s.changelistsDir(), name)
}

// setAlias creates or, with force, overwrites an alias record.
func (s *store) setAlias(name string, changelist int, force bool) error {
	if err := validateAliasName(name); err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(s.aliasPath(name)); err == nil {
			return &aliasExistsError{name: name}
		}
	}
	return writeRecord(s.aliasPath(name), changelist)
}

func (s *store) alias(name string) (int, error) {
	cl, err := readRecord(s.aliasPath(name))
	if os.IsNotExist(err) {
		return 0, &notFoundError{name: name}
	}
	return cl, err
}

// aliases lists all records sorted by name, so repeated calls see the
// same order.
func (s *store) aliases() ([]aliasEntry, error) {
	entries, err := os.ReadDir(s.changelistsDir())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing aliases: %w", err)
	}
	var aliases []aliasEntry
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		cl, err := readRecord(s.aliasPath(e.Name()))
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, aliasEntry{name: e.Name(), changelist: cl})
	}
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].name < aliases[j].name })
	return aliases, nil
}

func (s *store) deleteAlias(name string) error {
	err := os.Remove(s.aliasPath(name))
	if os.IsNotExist(err) {
		return &notFoundError{name: name}
	}
	return err
}

// lastSynced returns the recorded changelist and whether one is set.
func (s *store) lastSynced() (int, bool, error) {
	cl, err := readRecord(filepath.Join(s.root, stateDirName, lastSyncedName))
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return cl, true, nil
}

// setLastSynced overwrites the record unconditionally. Called only after
// a sync has fully succeeded.
func (s *store) setLastSynced(changelist int) error {
	return writeRecord(filepath.Join(s.root, stateDirName, lastSyncedName), changelist)
}

func validateAliasName(name string) error {
	if name == "" {
		return &invalidNameError{name: name, reason: "name is empty"}
	}
	for _, reserved := range reservedNames {
		if strings.EqualFold(name, reserved) {
			return &invalidNameError{name: name, reason: fmt.Sprintf("%q is a reserved keyword", reserved)}
		}
	}
	if _, err := strconv.Atoi(name); err == nil {
		return &invalidNameError{name: name, reason: "purely numeric names are ambiguous with changelist numbers"}
	}
	if strings.ContainsAny(name, "/\\") || name != filepath.Base(name) {
		return &invalidNameError{name: name, reason: "name must not contain path separators"}
	}
	return nil
}

// writeRecord writes the number as a whole file: temp file in the same
// directory, then rename, so a crash never leaves a partial record.
func writeRecord(path string, changelist int) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := fmt.Fprintf(tmp, "%d\n", changelist); err != nil {
		tmp.Close()
		return fmt.Errorf("writing record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

func readRecord(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	cl, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("corrupt record %s: %w", path, err)
	}
	return cl, nil
}
