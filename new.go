package main

import (
	"fmt"
	"os"
	"time"
)

type newOptions struct {
	alias      string
	message    string
	baseBranch string
	noEdit     bool
	review     bool
	shelve     bool
	force      bool
	sleep      int
}

// runNew creates a perforce changelist described by the message plus the
// numbered commit story since the base branch, optionally saving an
// alias for it, opening changed files for edit, tagging it for review,
// and shelving. The alias is written only after the changelist exists.
func runNew(log *logger, r *runner, st *store, opts newOptions) error {
	// Check alias availability up front so a collision does not leave an
	// orphaned changelist behind.
	if opts.alias != "" && !r.dryRun {
		if err := validateAliasName(opts.alias); err != nil {
			return err
		}
		if !opts.force {
			if _, err := os.Stat(st.aliasPath(opts.alias)); err == nil {
				return &aliasExistsError{name: opts.alias}
			}
		}
	}

	log.heading("Creating changelist")
	entries, err := enumerateCommits(r, opts.baseBranch)
	if err != nil {
		return err
	}
	description := opts.message
	if story := changeStory(entries); story != "" {
		description += "\n\n" + story
	}
	changelist, err := createChangelist(r, description)
	if err != nil {
		return err
	}

	if !r.dryRun {
		log.detail("created", fmt.Sprintf("CL %d", changelist))
		if opts.alias != "" {
			if err := st.setAlias(opts.alias, changelist, opts.force); err != nil {
				return err
			}
			log.detail("alias", fmt.Sprintf("%s -> %d", opts.alias, changelist))
		}
	}

	if !opts.noEdit {
		log.heading("Opening files for edit")
		if err := openForEdit(r, changelist, opts.baseBranch); err != nil {
			return err
		}
	}

	if opts.review {
		log.heading("Adding review keyword")
		if err := addReviewKeyword(r, changelist); err != nil {
			return err
		}
	}

	if opts.shelve || opts.review {
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
