// Package config loads and resolves the install manifest (extup.yaml).
//
// Every key is optional: an absent manifest resolves to the historical
// defaults (npm / npx vsce / code), so a bare run behaves exactly like the
// flag-less installer script it replaces.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/hsp3-utils/extup/pkg/domain"
)

// DefaultFileName is looked up in the project directory when no explicit
// manifest path is given.
const DefaultFileName = "extup.yaml"

// DefaultArtifact is the fixed name of the packaged extension.
const DefaultArtifact = "hsp3-vscode-ext.vsix"

// The hint keeps the upstream Japanese prompt first; operators override it in
// the manifest if they want something else.
const defaultNpmHint = "npm が見つかりません。Node.js をインストールしてください。\n" +
	"npm not found. Please install Node.js: <https://nodejs.org>"

// Config is the parsed manifest before resolution.
type Config struct {
	Tools      []domain.ToolSpec         `yaml:"tools" json:"tools"`
	Artifact   string                    `yaml:"artifact" json:"artifact"`
	Stages     map[string]map[string]any `yaml:"stages" json:"stages"`
	LegacyExit bool                      `yaml:"legacy_exit" json:"legacy_exit"`
}

// Load reads a manifest file (YAML or JSON). A missing file at the default
// location is not an error; it yields the zero Config, which resolves to the
// built-in workflow.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var cfg Config
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
		}
	}
	return &cfg, nil
}

// Resolved is the fully defaulted pipeline definition.
type Resolved struct {
	Tools      []domain.ToolSpec
	Stages     []domain.Stage
	Artifact   string
	LegacyExit bool
}

// Resolve applies defaults and stage overrides, producing the concrete
// pipeline. Unknown stage IDs in the manifest are an error.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		Artifact:   c.Artifact,
		LegacyExit: c.LegacyExit,
	}
	if r.Artifact == "" {
		r.Artifact = DefaultArtifact
	}

	r.Tools = c.Tools
	if len(r.Tools) == 0 {
		r.Tools = []domain.ToolSpec{{
			Name:        "npm",
			Command:     "npm",
			VersionArgs: []string{"--version"},
			InstallHint: defaultNpmHint,
		}}
	}
	for i, tool := range r.Tools {
		if tool.Command == "" {
			return nil, fmt.Errorf("tool %d (%q) has no command", i, tool.Name)
		}
		if tool.Name == "" {
			r.Tools[i].Name = tool.Command
		}
		if len(tool.VersionArgs) == 0 {
			r.Tools[i].VersionArgs = []string{"--version"}
		}
	}

	defaults := defaultStages(r.Artifact)
	overrides, err := c.decodeOverrides()
	if err != nil {
		return nil, err
	}

	for id := range overrides {
		if _, ok := defaults[domain.StageID(id)]; !ok {
			return nil, fmt.Errorf("unknown stage %q in manifest (known: %s)", id, knownStageIDs())
		}
	}

	for _, id := range domain.PipelineOrder {
		if id == domain.StageCheckToolchain {
			continue // expands into per-tool version queries at run time
		}
		stage := defaults[id]
		if inv, ok := overrides[string(id)]; ok {
			stage.Invocation = inv
		}
		r.Stages = append(r.Stages, stage)
	}

	return r, nil
}

func (c *Config) decodeOverrides() (map[string]domain.Invocation, error) {
	out := make(map[string]domain.Invocation, len(c.Stages))
	for id, raw := range c.Stages {
		var inv domain.Invocation
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      &inv,
			ErrorUnused: true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(raw); err != nil {
			return nil, fmt.Errorf("invalid override for stage %q: %w", id, err)
		}
		if inv.Command == "" {
			return nil, fmt.Errorf("override for stage %q has no command", id)
		}
		out[id] = inv
	}
	return out, nil
}

func defaultStages(artifact string) map[domain.StageID]domain.Stage {
	return map[domain.StageID]domain.Stage{
		domain.StageInstallDeps: {
			ID:          domain.StageInstallDeps,
			Description: "Install dependencies",
			Invocation:  domain.Invocation{Command: "npm", Args: []string{"ci"}},
		},
		domain.StagePackage: {
			ID:          domain.StagePackage,
			Description: "Package extension",
			Invocation:  domain.Invocation{Command: "npx", Args: []string{"vsce", "package", "-o", artifact}},
			Artifact:    artifact,
		},
		domain.StageInstallExtension: {
			ID:          domain.StageInstallExtension,
			Description: "Install extension into editor",
			Invocation:  domain.Invocation{Command: "code", Args: []string{"--install-extension", artifact}},
		},
	}
}

func knownStageIDs() string {
	ids := make([]string, 0, len(domain.PipelineOrder)-1)
	for _, id := range domain.PipelineOrder {
		if id == domain.StageCheckToolchain {
			continue
		}
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return strings.Join(ids, ", ")
}
