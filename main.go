package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log := newLogger(stdout, stderr)

	var verbose bool

	// Every command runs against the enclosing git workspace, where the
	// tool keeps its private state directory.
	type env struct {
		r   *runner
		st  *store
		cfg config
	}
	setup := func(dryRun bool) (*env, error) {
		probe := &runner{log: log}
		res, err := probe.query("git", "rev-parse", "--show-toplevel")
		if err != nil {
			return nil, fmt.Errorf("not inside a git workspace: %w", err)
		}
		workspace := strings.TrimSpace(res.Stdout)
		cfg, err := loadConfig(workspace)
		if err != nil {
			return nil, err
		}
		return &env{
			r:   &runner{dir: workspace, dryRun: dryRun, log: log},
			st:  newStore(workspace),
			cfg: cfg,
		}, nil
	}

	rootCmd := &cobra.Command{
		Use:   "git-p4son",
		Short: "Keep a git working copy in step with a Perforce depot",
		Long: "Sync a git-mirrored Perforce workspace to specific changelists, and " +
			"package local commits back into Perforce changelists for review.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.verbose = verbose
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	var (
		syncForce  bool
		syncDryRun bool
	)
	syncCmd := &cobra.Command{
		Use:   "sync <changelist>",
		Short: "Sync the workspace to a changelist and commit the result",
		Long: "Sync to a changelist number, alias, \"latest\", or \"last-synced\". " +
			"The sync is refused if unexpected writable files are present or the target " +
			"is older than the last recorded sync, unless --force is given.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(syncDryRun)
			if err != nil {
				return err
			}
			return runSync(log, e.r, e.st, args[0], syncForce)
		},
	}
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false, "clobber writable files and allow syncing backward")
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false, "print commands without executing them")

	var newOpts newOptions
	var newDryRun bool
	newCmd := &cobra.Command{
		Use:   "new [alias]",
		Short: "Create a changelist from the commits since the base branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(newDryRun)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				newOpts.alias = args[0]
			}
			newOpts.baseBranch = e.cfg.baseBranch(newOpts.baseBranch)
			return runNew(log, e.r, e.st, newOpts)
		},
	}
	newCmd.Flags().StringVarP(&newOpts.message, "message", "m", "", "changelist description title")
	newCmd.Flags().StringVar(&newOpts.baseBranch, "base-branch", "", "base branch commits are counted from")
	newCmd.Flags().BoolVar(&newOpts.noEdit, "no-edit", false, "do not open changed files for edit")
	newCmd.Flags().BoolVar(&newOpts.review, "review", false, "tag the changelist for review and shelve it")
	newCmd.Flags().BoolVar(&newOpts.shelve, "shelve", false, "shelve the changelist")
	newCmd.Flags().BoolVarP(&newOpts.force, "force", "f", false, "overwrite an existing alias")
	newCmd.Flags().BoolVarP(&newDryRun, "dry-run", "n", false, "print commands without executing them")
	newCmd.Flags().IntVar(&newOpts.sleep, "sleep", 0, "seconds to sleep after finishing")
	newCmd.Flags().MarkHidden("sleep")
	newCmd.MarkFlagRequired("message")

	var updateOpts updateOptions
	var updateDryRun bool
	updateCmd := &cobra.Command{
		Use:   "update <changelist>",
		Short: "Rewrite a changelist's description from the current commits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(updateDryRun)
			if err != nil {
				return err
			}
			updateOpts.token = args[0]
			updateOpts.baseBranch = e.cfg.baseBranch(updateOpts.baseBranch)
			return runUpdate(log, e.r, e.st, updateOpts)
		},
	}
	updateCmd.Flags().StringVarP(&updateOpts.message, "message", "m", "", "new description title (default: keep the current one)")
	updateCmd.Flags().StringVar(&updateOpts.baseBranch, "base-branch", "", "base branch commits are counted from")
	updateCmd.Flags().BoolVar(&updateOpts.noEdit, "no-edit", false, "do not open changed files for edit")
	updateCmd.Flags().BoolVar(&updateOpts.shelve, "shelve", false, "re-shelve the changelist")
	updateCmd.Flags().BoolVarP(&updateDryRun, "dry-run", "n", false, "print commands without executing them")
	updateCmd.Flags().IntVar(&updateOpts.sleep, "sleep", 0, "seconds to sleep after finishing")
	updateCmd.Flags().MarkHidden("sleep")

	aliasCmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage changelist aliases",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
	aliasListCmd := &cobra.Command{
		Use:   "list",
		Short: "List aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(false)
			if err != nil {
				return err
			}
			return runAliasList(log, e.st)
		},
	}
	var aliasSetForce bool
	aliasSetCmd := &cobra.Command{
		Use:   "set <name> <changelist>",
		Short: "Point an alias at a changelist number",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(false)
			if err != nil {
				return err
			}
			return runAliasSet(log, e.st, args[0], args[1], aliasSetForce)
		},
	}
	aliasSetCmd.Flags().BoolVarP(&aliasSetForce, "force", "f", false, "overwrite an existing alias")
	aliasDeleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete an alias",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(false)
			if err != nil {
				return err
			}
			return runAliasDelete(log, e.st, args[0])
		},
	}
	aliasCleanCmd := &cobra.Command{
		Use:   "clean",
		Short: "Interactively delete stale aliases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(false)
			if err != nil {
				return err
			}
			return runAliasClean(log, e.st, stdin)
		},
	}
	aliasCmd.AddCommand(aliasListCmd, aliasSetCmd, aliasDeleteCmd, aliasCleanCmd)

	var listChangesBase string
	listChangesCmd := &cobra.Command{
		Use:   "list-changes",
		Short: "Print the numbered commit list since the base branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(false)
			if err != nil {
				return err
			}
			return runListChanges(log, e.r, e.cfg.baseBranch(listChangesBase))
		},
	}
	listChangesCmd.Flags().StringVar(&listChangesBase, "base-branch", "", "base branch commits are counted from")

	var reviewOpts reviewOptions
	var reviewDryRun bool
	reviewCmd := &cobra.Command{
		Use:   "review <alias>",
		Short: "Rebase interactively, creating one shelved changelist per commit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(reviewDryRun)
			if err != nil {
				return err
			}
			reviewOpts.alias = args[0]
			reviewOpts.baseBranch = e.cfg.baseBranch(reviewOpts.baseBranch)
			return runReview(log, e.r, e.st, reviewOpts)
		},
	}
	reviewCmd.Flags().StringVarP(&reviewOpts.message, "message", "m", "", "changelist description title")
	reviewCmd.Flags().StringVar(&reviewOpts.baseBranch, "base-branch", "", "base branch commits are counted from")
	reviewCmd.Flags().BoolVarP(&reviewOpts.force, "force", "f", false, "overwrite an existing alias")
	reviewCmd.Flags().BoolVarP(&reviewDryRun, "dry-run", "n", false, "print the generated todo without rebasing")
	reviewCmd.MarkFlagRequired("message")

	sequenceEditorCmd := &cobra.Command{
		Use:    "_sequence-editor <file>",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(false)
			if err != nil {
				return err
			}
			return runSequenceEditor(e.r, args[0])
		},
	}

	rootCmd.AddCommand(syncCmd, newCmd, updateCmd, aliasCmd, listChangesCmd, reviewCmd, sequenceEditorCmd)
	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		log.error("%v", err)
		return 1
	}
	return 0
}
