package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

func runAliasList(log *logger, st *store) error {
	aliases, err := st.aliases()
	if err != nil {
		return err
	}
	if len(aliases) == 0 {
		log.info("No aliases defined")
		return nil
	}
	for _, a := range aliases {
		log.info("%s -> %d", a.name, a.changelist)
	}
	return nil
}

func runAliasSet(log *logger, st *store, name, changelist string, force bool) error {
	cl, err := strconv.Atoi(changelist)
	if err != nil || cl <= 0 {
		return fmt.Errorf("invalid changelist number: %s", changelist)
	}
	if err := st.setAlias(name, cl, force); err != nil {
		return err
	}
	log.detail("alias", fmt.Sprintf("%s -> %d", name, cl))
	return nil
}

func runAliasDelete(log *logger, st *store, name string) error {
	if err := st.deleteAlias(name); err != nil {
		return err
	}
	log.info("Deleted alias %q", name)
	return nil
}

// runAliasClean walks the stored aliases and prompts per alias whether
// to delete it: yes, no, all remaining, or quit. On a terminal the
// prompt is a huh select; otherwise answers are read line by line from
// stdin so the flow stays scriptable.
func runAliasClean(log *logger, st *store, stdin io.Reader) error {
	aliases, err := st.aliases()
	if err != nil {
		return err
	}
	if len(aliases) == 0 {
		log.info("No aliases to clean")
		return nil
	}

	interactive := false
	if f, ok := stdin.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	scanner := bufio.NewScanner(stdin)

	deleteAll := false
	deleted := 0
	for _, a := range aliases {
		log.info("%s -> %d", a.name, a.changelist)

		if deleteAll {
			if err := st.deleteAlias(a.name); err != nil {
				return err
			}
			deleted++
			log.info("  Deleted")
			continue
		}

		answer, err := cleanAnswer(log, a, interactive, scanner)
		if err != nil {
			return err
		}
		switch answer {
		case "y", "a":
			if err := st.deleteAlias(a.name); err != nil {
				return err
			}
			deleted++
			log.info("  Deleted")
			deleteAll = answer == "a"
		case "n":
		case "q", "":
			log.info("Deleted %d alias(es)", deleted)
			return nil
		}
	}

	log.info("Deleted %d alias(es)", deleted)
	return nil
}

func cleanAnswer(log *logger, a aliasEntry, interactive bool, scanner *bufio.Scanner) (string, error) {
	if interactive {
		var choice string
		form := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Delete %s -> %d?", a.name, a.changelist)).
				Options(
					huh.NewOption("yes", "y"),
					huh.NewOption("no", "n"),
					huh.NewOption("all remaining", "a"),
					huh.NewOption("quit", "q"),
				).
				Value(&choice),
		))
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return "q", nil
			}
			return "", err
		}
		return choice, nil
	}

	for {
		log.info("Delete? [y]es / [n]o / [a]ll / [q]uit:")
		if !scanner.Scan() {
			// EOF quits, like the interactive form's abort.
			return "q", scanner.Err()
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return "y", nil
		case "n", "no":
			return "n", nil
		case "a", "all":
			return "a", nil
		case "q", "quit":
			return "q", nil
		}
		log.info("Please enter y, n, a, or q")
	}
}
