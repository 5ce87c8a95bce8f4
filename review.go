package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type reviewOptions struct {
	alias      string
	message    string
	baseBranch string
	force      bool
}

func reviewsDir(workspace string) string {
	return filepath.Join(workspace, stateDirName, "reviews")
}

func todoPath(workspace string) string {
	return filepath.Join(reviewsDir(workspace), "todo")
}

// runReview automates the one-changelist-per-commit workflow: it
// generates a rebase todo whose exec lines run git p4son new/update
// after each commit, then drives git rebase -i with the hidden
// _sequence-editor subcommand installed as GIT_SEQUENCE_EDITOR.
func runReview(log *logger, r *runner, st *store, opts reviewOptions) error {
	if !r.dryRun {
		if err := validateAliasName(opts.alias); err != nil {
			return err
		}
		if !opts.force {
			if _, err := os.Stat(st.aliasPath(opts.alias)); err == nil {
				return &aliasExistsError{name: opts.alias}
			}
		}
	}

	log.heading("Finding commits")
	res, err := r.query("git", "log", "--oneline", "--reverse", opts.baseBranch+"..HEAD")
	if err != nil {
		return fmt.Errorf("listing commits since %s: %w", opts.baseBranch, err)
	}
	commitLines := splitLines(res.Stdout)
	if len(commitLines) == 0 {
		return fmt.Errorf("no commits found since %s", opts.baseBranch)
	}
	log.info("%d commits since %s", len(commitLines), opts.baseBranch)

	log.heading("Generating rebase todo")
	todo := generateTodo(commitLines, opts.alias, opts.message, opts.force)

	if r.dryRun {
		log.info("Generated rebase todo:")
		log.info("%s", todo)
		return nil
	}

	if err := os.MkdirAll(reviewsDir(r.dir), 0o755); err != nil {
		return err
	}
	todoFile := todoPath(r.dir)
	if err := os.WriteFile(todoFile, []byte(todo), 0o644); err != nil {
		return err
	}
	defer os.Remove(todoFile)

	log.heading("Running interactive rebase")
	env := map[string]string{"GIT_SEQUENCE_EDITOR": "git p4son _sequence-editor"}
	if err := r.passthrough(env, "git", "rebase", "-i", opts.baseBranch); err != nil {
		log.error("Rebase did not complete successfully.")
		log.error("You can fix any issues and run: git rebase --continue")
		return err
	}

	log.info("Done")
	return nil
}

// generateTodo builds the rebase todo: pick each commit, then after the
// first commit create the changelist with a review, and after each later
// commit fold it in with an update. All but the last exec line sleep to
// give the review tool time to ingest the shelf.
func generateTodo(commitLines []string, alias, message string, force bool) string {
	var b strings.Builder
	last := len(commitLines) - 1
	for i, line := range commitLines {
		hash, subject, _ := strings.Cut(line, " ")
		fmt.Fprintf(&b, "pick %s %s\n", hash, subject)

		var cmd string
		if i == 0 {
			cmd = fmt.Sprintf("new %s --review -m %s", shellQuote(alias), shellQuote(message))
			if force {
				cmd += " --force"
			}
		} else {
			cmd = fmt.Sprintf("update %s --shelve", shellQuote(alias))
		}
		if i < last {
			cmd += " --sleep 5"
		}
		fmt.Fprintf(&b, "exec git p4son %s\n", cmd)
	}
	return b.String()
}

// shellQuote quotes a string for use in a rebase todo exec line.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, c := range s {
		if !(c == '-' || c == '_' || c == '.' || c == '/' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// runSequenceEditor is the hidden subcommand git invokes as its sequence
// editor during review. It replaces git's generated todo with ours,
// keeps git's comment lines, then opens the user's real editor on it.
func runSequenceEditor(r *runner, filename string) error {
	todoFile := todoPath(r.dir)
	generated, err := os.ReadFile(todoFile)
	if err != nil {
		return fmt.Errorf("no review todo file found at %s", todoFile)
	}

	original, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	var comments []string
	for _, line := range strings.Split(string(original), "\n") {
		if strings.HasPrefix(line, "#") {
			comments = append(comments, line)
		}
	}

	content := string(generated)
	if len(comments) > 0 {
		content += "\n" + strings.Join(comments, "\n") + "\n"
	}
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return err
	}

	res, err := r.query("git", "var", "GIT_EDITOR")
	if err != nil {
		return fmt.Errorf("resolving editor via git var GIT_EDITOR: %w", err)
	}
	editor := strings.TrimSpace(res.Stdout)
	// The editor setting may carry arguments (e.g. "code --wait").
	args := append(strings.Fields(editor), filename)
	return r.passthrough(nil, args...)
}
