package main

import (
	"fmt"
	"time"
)

// runSync coordinates a sync: resolve the reference, evaluate safety,
// plan the backend commands, execute them, and only then record the
// synced changelist. A failure at any step leaves the persisted state
// untouched; in dry-run mode every external command is rendered instead
// of executed and nothing is recorded.
func runSync(log *logger, r *runner, st *store, token string, force bool) error {
	// Dirty workspaces abort outright; force does not override a real
	// edit. Skipped in dry-run mode along with every other query.
	if !r.dryRun {
		log.heading("Checking git workspace")
		modified, err := gitModified(r)
		if err != nil {
			return err
		}
		if len(modified) > 0 {
			return fmt.Errorf("git workspace is not clean, aborting")
		}
		log.info("clean")

		log.heading("Checking p4 workspace")
		opened, err := p4Opened(r)
		if err != nil {
			return err
		}
		if len(opened) > 0 {
			return fmt.Errorf("p4 workspace has opened files, aborting")
		}
		log.info("clean")
	}

	log.heading("Resolving changelist")
	target, err := resolveChangelist(token, st, func() (int, error) {
		return latestChangelist(r)
	})
	if err != nil {
		return err
	}
	log.detail(token, fmt.Sprintf("CL %d", target))

	log.heading("Finding last synced changelist")
	last, haveLast, err := st.lastSynced()
	if err != nil {
		return err
	}
	if haveLast {
		log.detail("last synced", fmt.Sprintf("CL %d", last))
	} else {
		log.info("no previous sync found")
	}

	if haveLast && target == last {
		log.info("Already at CL %d, nothing to do.", last)
		return nil
	}

	var ws workspaceState
	if !r.dryRun {
		ws, err = workspaceStateFor(r, target)
		if err != nil {
			return err
		}
	}
	plan, err := evaluateSync(target, force, last, haveLast, ws)
	if err != nil {
		return err
	}

	log.heading("Syncing to CL %d", plan.target)
	for _, f := range plan.clobber {
		if err := r.do("p4", "sync", "-f", fmt.Sprintf("%s@%d", f, plan.target)); err != nil {
			return err
		}
	}
	start := time.Now()
	if err := r.do("p4", "sync", fmt.Sprintf("//...@%d", plan.target)); err != nil {
		return err
	}
	if !r.dryRun {
		log.elapsed(time.Since(start))
	}

	log.heading("Committing git changes")
	if err := r.do("git", "add", "-A"); err != nil {
		return err
	}
	msg := fmt.Sprintf("git-p4son: p4 sync //...@%d", plan.target)
	if err := r.do("git", "commit", "--allow-empty", "-m", msg); err != nil {
		return err
	}

	if plan.record && !r.dryRun {
		if err := st.setLastSynced(plan.target); err != nil {
			return err
		}
		log.detail("last synced", fmt.Sprintf("CL %d", plan.target))
	}

	log.info("Done")
	return nil
}
