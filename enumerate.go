package main

import (
	"fmt"
	"strings"
)

// commitEntry is one local commit since the base branch, numbered
// oldest-first.
type commitEntry struct {
	index   int
	subject string
}

// enumerateCommits lists the commits reachable from HEAD but not from
// baseBranch, oldest first. git log emits newest-first, so --reverse
// restores the order the changes were made in. No commits is an empty
// list, not an error, and an unchanged history yields the same result
// on every call.
func enumerateCommits(r *runner, baseBranch string) ([]commitEntry, error) {
	res, err := r.query("git", "log", "--oneline", "--reverse", baseBranch+"..HEAD")
	if err != nil {
		return nil, fmt.Errorf("listing commits since %s: %w", baseBranch, err)
	}
	return parseCommitEntries(splitLines(res.Stdout)), nil
}

// parseCommitEntries extracts subjects from git log --oneline lines and
// assigns 1-based indices.
func parseCommitEntries(lines []string) []commitEntry {
	var entries []commitEntry
	for i, line := range lines {
		subject := line
		if _, rest, ok := strings.Cut(line, " "); ok {
			subject = rest
		}
		entries = append(entries, commitEntry{index: i + 1, subject: subject})
	}
	return entries
}

// changeStory renders the numbered commit list used as the body of
// changelist descriptions. Empty when there are no commits.
func changeStory(entries []commitEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s", e.index, e.subject)
	}
	return b.String()
}
