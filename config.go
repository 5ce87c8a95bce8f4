package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultBaseBranch = "main"

// config holds per-workspace settings from .git-p4son/config.yml. The
// file is optional; the zero value applies when it is absent.
type config struct {
	BaseBranch string `yaml:"base_branch"`
}

func loadConfig(workspace string) (config, error) {
	var cfg config
	path := filepath.Join(workspace, stateDirName, "config.yml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// baseBranch resolves the base branch: flag over config over default.
func (c config) baseBranch(flag string) string {
	if flag != "" {
		return flag
	}
	if c.BaseBranch != "" {
		return c.BaseBranch
	}
	return defaultBaseBranch
}
