package config

import (
	"fmt"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// Project is an optional manifest (loom.yaml) pinning a root directory and
// entry file so the CLI doesn't need both on the command line every
// invocation — the project-file idiom funxy's module-group loader reads
// package metadata from (internal/modules/loader.go's detectPackageExtension),
// here lifted to a top-level YAML file via gopkg.in/yaml.v3.
type Project struct {
	Root        string `yaml:"root"`
	Entry       string `yaml:"entry"`
	LoomVersion string `yaml:"loom_version"`
}

// LoadProject reads and validates a loom.yaml at path.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	if p.LoomVersion != "" {
		if err := checkVersion(p.LoomVersion); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

// checkVersion gates a project's declared minimum toolchain version
// against the running Version using semantic-version comparison, the way
// a build tool validates a toolchain constraint before proceeding.
func checkVersion(constraint string) error {
	want := "v" + constraint
	have := "v" + Version
	if !semver.IsValid(want) {
		return fmt.Errorf("config: invalid loom_version %q", constraint)
	}
	if semver.Compare(have, want) < 0 {
		return fmt.Errorf("config: this project requires loom >= %s, running %s", constraint, Version)
	}
	return nil
}
