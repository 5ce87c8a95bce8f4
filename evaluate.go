package main

// workspaceState classifies the files that stand between the workspace
// and a sync. modified holds files changed through a tracked edit (git
// dirty or opened in p4); writable holds files made writable outside
// both tools' control and not otherwise modified.
type workspaceState struct {
	modified []string
	writable []string
}

func (w workspaceState) clean() bool {
	return len(w.modified) == 0
}

// syncPlan describes an approved sync: the target changelist, the files
// the backend must clobber first, and that the last-synced record is to
// be updated once every command has succeeded.
type syncPlan struct {
	target  int
	clobber []string
	record  bool
}

// evaluateSync decides whether a sync to target may proceed. Pure
// function over its inputs: no filesystem or network access.
func evaluateSync(target int, force bool, lastSynced int, haveLast bool, ws workspaceState) (*syncPlan, error) {
	if len(ws.writable) > 0 && !force {
		return nil, &unexpectedWritableFilesError{files: ws.writable}
	}
	if haveLast && target < lastSynced && !force {
		return nil, &staleTargetError{target: target, lastSynced: lastSynced}
	}
	plan := &syncPlan{target: target, record: true}
	if force {
		plan.clobber = append(plan.clobber, ws.writable...)
	}
	return plan, nil
}
