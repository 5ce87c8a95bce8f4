package main

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const cantClobberPrefix = "Can't clobber writable file "

var (
	changeRe        = regexp.MustCompile(`Change (\d+)`)
	changeCreatedRe = regexp.MustCompile(`Change (\d+) created`)
)

// latestChangelist finds the newest submitted changelist affecting the
// workspace's client view, i.e. what a plain p4 sync would pull.
func latestChangelist(r *runner) (int, error) {
	res, err := r.query("p4", "info")
	if err != nil {
		return 0, err
	}
	client, err := parseClientName(splitLines(res.Stdout))
	if err != nil {
		return 0, err
	}

	res, err = r.query("p4", "changes", "-m1", "-s", "submitted", fmt.Sprintf("//%s/...#head", client))
	if err != nil {
		return 0, err
	}
	lines := splitLines(res.Stdout)
	if len(lines) == 0 {
		return 0, fmt.Errorf("no submitted changelists affect this workspace")
	}
	return parseChangeNumber(lines[0])
}

func parseClientName(infoLines []string) (string, error) {
	for _, line := range infoLines {
		if rest, ok := strings.CutPrefix(line, "Client name:"); ok {
			return strings.TrimSpace(rest), nil
		}
	}
	return "", fmt.Errorf("no client name in p4 info output")
}

func parseChangeNumber(line string) (int, error) {
	m := changeRe.FindStringSubmatch(line)
	if m == nil {
		return 0, fmt.Errorf("no changelist number in %q", line)
	}
	return strconv.Atoi(m[1])
}

// p4Opened lists files currently opened in the client.
func p4Opened(r *runner) ([]string, error) {
	res, err := r.query("p4", "opened")
	if err != nil {
		return nil, err
	}
	return splitLines(res.Stdout), nil
}

// gitModified lists paths git considers changed, staged or not.
func gitModified(r *runner) ([]string, error) {
	res, err := r.query("git", "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, line := range splitLines(res.Stdout) {
		if len(line) > 3 {
			files = append(files, strings.TrimSpace(line[3:]))
		}
	}
	return files, nil
}

// writableCandidates previews the sync and collects the files p4 refuses
// to clobber. The preview mutates nothing; clobber warnings appear on
// stderr and may carry a non-zero exit.
func writableCandidates(r *runner, target int) ([]string, error) {
	res, err := r.query("p4", "sync", "-n", fmt.Sprintf("//...@%d", target))
	var files []string
	if res != nil {
		for _, line := range append(splitLines(res.Stdout), splitLines(res.Stderr)...) {
			if f, ok := strings.CutPrefix(line, cantClobberPrefix); ok {
				files = append(files, strings.TrimSpace(f))
			}
		}
	}
	if err != nil && len(files) == 0 {
		return nil, err
	}
	return files, nil
}

// workspaceStateFor builds the three-way file classification for a sync
// to target, reconciling the p4 preview with git status and p4 opened.
func workspaceStateFor(r *runner, target int) (workspaceState, error) {
	candidates, err := writableCandidates(r, target)
	if err != nil {
		return workspaceState{}, err
	}
	modified, err := gitModified(r)
	if err != nil {
		return workspaceState{}, err
	}
	opened, err := p4Opened(r)
	if err != nil {
		return workspaceState{}, err
	}
	return reconcileWorkspace(candidates, modified, opened, r.dir), nil
}

// reconcileWorkspace classifies writable candidates: a candidate that is
// git-modified or p4-opened was changed through a tracked edit and
// counts as modified; the rest are unexpectedly writable. Candidates are
// local paths, git status is workspace-relative, and p4 opened speaks
// depot syntax, so depot paths are matched by their workspace-relative
// suffix.
func reconcileWorkspace(candidates, gitModified, p4Opened []string, root string) workspaceState {
	var ws workspaceState
	for _, c := range candidates {
		rel := workspaceRel(c, root)
		tracked := false
		for _, m := range gitModified {
			if rel == filepath.ToSlash(m) {
				tracked = true
				break
			}
		}
		if !tracked {
			for _, o := range p4Opened {
				if strings.HasSuffix(trimDepotRevision(o), "/"+rel) {
					tracked = true
					break
				}
			}
		}
		if tracked {
			ws.modified = append(ws.modified, c)
		} else {
			ws.writable = append(ws.writable, c)
		}
	}
	for _, m := range gitModified {
		ws.modified = append(ws.modified, filepath.Join(root, m))
	}
	return ws
}

// workspaceRel rewrites a local path relative to the workspace root,
// slash-separated, leaving paths outside the root untouched.
func workspaceRel(path, root string) string {
	if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(path)
}

// trimDepotRevision strips "#rev - action ..." decoration from p4 opened
// output, leaving the depot path.
func trimDepotRevision(line string) string {
	if i := strings.Index(line, "#"); i > 0 {
		return line[:i]
	}
	return line
}

// changeForm fetches the change spec form, for the default pending
// change or a specific one.
func changeForm(r *runner, changelist int) (string, error) {
	args := []string{"p4", "change", "-o"}
	if changelist > 0 {
		args = append(args, strconv.Itoa(changelist))
	}
	res, err := r.query(args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// replaceDescription swaps the Description block of a change spec form,
// keeping every other field intact. Form field bodies are tab-indented.
func replaceDescription(form, description string) string {
	var out []string
	inDesc := false
	for _, line := range strings.Split(form, "\n") {
		if strings.HasPrefix(line, "Description:") {
			out = append(out, "Description:")
			for _, d := range strings.Split(description, "\n") {
				out = append(out, "\t"+d)
			}
			inDesc = true
			continue
		}
		if inDesc {
			if strings.HasPrefix(line, "\t") {
				continue
			}
			inDesc = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// descriptionOf extracts the Description block of a change spec form.
func descriptionOf(form string) string {
	var desc []string
	inDesc := false
	for _, line := range strings.Split(form, "\n") {
		if strings.HasPrefix(line, "Description:") {
			inDesc = true
			continue
		}
		if inDesc {
			if strings.HasPrefix(line, "\t") {
				desc = append(desc, strings.TrimPrefix(line, "\t"))
				continue
			}
			break
		}
	}
	return strings.Join(desc, "\n")
}

// createChangelist submits a new change spec with the given description
// and returns the assigned number. In dry-run mode the submission is
// rendered and no number exists yet.
func createChangelist(r *runner, description string) (int, error) {
	if r.dryRun {
		r.log.command("p4 change -i")
		r.log.stdin(description)
		return 0, nil
	}
	form, err := changeForm(r, 0)
	if err != nil {
		return 0, err
	}
	res, err := r.queryInput(replaceDescription(form, description), "p4", "change", "-i")
	if err != nil {
		return 0, err
	}
	m := changeCreatedRe.FindStringSubmatch(res.Stdout)
	if m == nil {
		return 0, fmt.Errorf("no changelist number in p4 change output: %s", strings.TrimSpace(res.Stdout))
	}
	return strconv.Atoi(m[1])
}

// updateChangelistDescription rewrites an existing change's description.
func updateChangelistDescription(r *runner, changelist int, description string) error {
	if r.dryRun {
		r.log.command(fmt.Sprintf("p4 change -i  (CL %d)", changelist))
		r.log.stdin(description)
		return nil
	}
	form, err := changeForm(r, changelist)
	if err != nil {
		return err
	}
	_, err = r.queryInput(replaceDescription(form, description), "p4", "change", "-i")
	return err
}

// addReviewKeyword appends the #review tag to a change's description so
// the review tool picks it up.
func addReviewKeyword(r *runner, changelist int) error {
	if r.dryRun {
		r.log.command(fmt.Sprintf("p4 change -i  (CL %d, append #review)", changelist))
		return nil
	}
	form, err := changeForm(r, changelist)
	if err != nil {
		return err
	}
	desc := descriptionOf(form)
	if strings.Contains(desc, "#review") {
		return nil
	}
	desc += "\n\n#review"
	_, err = r.queryInput(replaceDescription(form, desc), "p4", "change", "-i")
	return err
}

// shelveChangelist shelves (or re-shelves) the change's opened files.
func shelveChangelist(r *runner, changelist int) error {
	return r.do("p4", "shelve", "-f", "-c", strconv.Itoa(changelist))
}

// openForEdit opens every file changed since baseBranch in the given
// changelist.
func openForEdit(r *runner, changelist int, baseBranch string) error {
	res, err := r.query("git", "diff", "--name-only", baseBranch+"..HEAD")
	if err != nil {
		return fmt.Errorf("listing changed files since %s: %w", baseBranch, err)
	}
	files := splitLines(res.Stdout)
	if len(files) == 0 {
		r.log.info("no changed files to open")
		return nil
	}
	args := append([]string{"p4", "edit", "-c", strconv.Itoa(changelist)}, files...)
	return r.do(args...)
}
