package main

import (
	"fmt"
	"strings"
	"time"
)

type updateOptions struct {
	token      string
	message    string
	baseBranch string
	noEdit     bool
	shelve     bool
	sleep      int
}

// runUpdate rewrites an existing changelist's description from the
// current commit story, keeping the change's title unless a new message
// is given, then optionally re-opens files and re-shelves.
func runUpdate(log *logger, r *runner, st *store, opts updateOptions) error {
	log.heading("Resolving changelist")
	changelist, err := resolveChangelist(opts.token, st, func() (int, error) {
		return latestChangelist(r)
	})
	if err != nil {
		return err
	}
	log.detail(opts.token, fmt.Sprintf("CL %d", changelist))

	log.heading("Updating changelist description")
	entries, err := enumerateCommits(r, opts.baseBranch)
	if err != nil {
		return err
	}
	story := changeStory(entries)

	title := opts.message
	if title == "" && !r.dryRun {
		form, err := changeForm(r, changelist)
		if err != nil {
			return err
		}
		title = firstLine(descriptionOf(form))
	}
	description := title
	if story != "" {
		if description != "" {
			description += "\n\n"
		}
		description += story
	}
	if err := updateChangelistDescription(r, changelist, description); err != nil {
		return err
	}
	if !r.dryRun {
		log.info("Updated changelist %d", changelist)
	}

	if !opts.noEdit {
		log.heading("Opening files for edit")
		if err := openForEdit(r, changelist, opts.baseBranch); err != nil {
			return err
		}
	}

	if opts.shelve {
		log.heading("Shelving")
		if err := shelveChangelist(r, changelist); err != nil {
			return err
		}
	}

	if opts.sleep > 0 && !r.dryRun {
		time.Sleep(time.Duration(opts.sleep) * time.Second)
	}

	log.info("Done")
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
