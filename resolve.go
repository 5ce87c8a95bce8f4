package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// latestQuery returns the newest submitted changelist affecting the
// workspace's client view.
type latestQuery func() (int, error)

// resolveChangelist turns a user reference token into a concrete
// changelist number. Keywords win over alias names so an alias can never
// shadow them, and digits always mean a literal number, which is why
// purely numeric alias names are rejected at creation time. Literal
// numbers are not checked against the backend here; the command that
// uses them validates existence with its own round-trip.
func resolveChangelist(token string, st *store, latest latestQuery) (int, error) {
	switch strings.ToLower(token) {
	case "last-synced":
		cl, ok, err := st.lastSynced()
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, errNoSyncedState
		}
		return cl, nil
	case "latest":
		cl, err := latest()
		if err != nil {
			return 0, &backendQueryError{err: err}
		}
		return cl, nil
	}

	if cl, err := strconv.Atoi(token); err == nil {
		if cl <= 0 {
			return 0, fmt.Errorf("invalid changelist number: %s", token)
		}
		return cl, nil
	}

	cl, err := st.alias(token)
	var nf *notFoundError
	if errors.As(err, &nf) {
		return 0, &unknownAliasError{token: token}
	}
	return cl, err
}
