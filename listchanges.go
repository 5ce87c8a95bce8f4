package main

// runListChanges prints the numbered commit story since the base branch,
// exactly as it would appear in a changelist description.
func runListChanges(log *logger, r *runner, baseBranch string) error {
	entries, err := enumerateCommits(r, baseBranch)
	if err != nil {
		return err
	}
	story := changeStory(entries)
	if story == "" {
		log.info("No changes found")
		return nil
	}
	log.info("%s", story)
	return nil
}
