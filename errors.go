package main

import (
	"errors"
	"fmt"
	"strings"
)

// errNoSyncedState is returned when "last-synced" is used before any
// sync has been recorded.
var errNoSyncedState = errors.New(`no previous sync recorded, cannot use "last-synced"`)

// invalidNameError rejects alias names that would be ambiguous at
// resolution time.
type invalidNameError struct {
	name   string
	reason string
}

func (e *invalidNameError) Error() string {
	return fmt.Sprintf("invalid alias name %q: %s", e.name, e.reason)
}

type aliasExistsError struct {
	name string
}

func (e *aliasExistsError) Error() string {
	return fmt.Sprintf("alias %q already exists (use -f/--force to overwrite)", e.name)
}

// notFoundError reports an absent alias record.
type notFoundError struct {
	name string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("no alias named %q", e.name)
}

// unknownAliasError reports a reference token that matched no keyword,
// number, or stored alias.
type unknownAliasError struct {
	token string
}

func (e *unknownAliasError) Error() string {
	return fmt.Sprintf("unknown changelist alias %q", e.token)
}

// backendQueryError wraps a failure to query perforce for changelist
// information.
type backendQueryError struct {
	err error
}

func (e *backendQueryError) Error() string {
	return fmt.Sprintf("querying perforce: %v", e.err)
}

func (e *backendQueryError) Unwrap() error {
	return e.err
}

// unexpectedWritableFilesError blocks a sync when files were made
// writable outside p4's control. Overridable with force.
type unexpectedWritableFilesError struct {
	files []string
}

func (e *unexpectedWritableFilesError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d writable file(s) not opened for edit (use -f/--force to clobber):", len(e.files))
	for _, f := range e.files {
		fmt.Fprintf(&b, "\n  %s", f)
	}
	return b.String()
}

// staleTargetError blocks a sync backward past the last recorded sync.
// Overridable with force.
type staleTargetError struct {
	target     int
	lastSynced int
}

func (e *staleTargetError) Error() string {
	return fmt.Sprintf("cannot sync to CL %d (currently at CL %d) without -f/--force", e.target, e.lastSynced)
}

// runError reports a failed external command, with enough context to
// tell which planned step broke.
type runError struct {
	cmd      string
	exitCode int
	stderr   string
	err      error
}

func (e *runError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.cmd, e.exitCode)
	if s := strings.TrimSpace(e.stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *runError) Unwrap() error {
	return e.err
}
