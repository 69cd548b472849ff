package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hibou-sem/hibou/internal/process"
	"github.com/hibou-sem/hibou/internal/verdict"
)

// LoggerKind names one requested logger in a @explore_option/
// @analyze_option "loggers=[...]" entry. Only Graphic is recognised
// by the grammar (spec §6); full diagram rendering is an explicit
// Non-goal, so the CLI substitutes a JournalLogger and warns instead
// of rendering, rather than rejecting the .hsf outright.
type LoggerKind int

const (
	LoggerGraphic LoggerKind = iota
)

// GraphicFormat is the optional "(png|svg)" suffix of a graphic
// logger declaration.
type GraphicFormat int

const (
	GraphicPNG GraphicFormat = iota
	GraphicSVG
)

// LoggerSpec is one parsed "loggers=[...]" entry.
type LoggerSpec struct {
	Kind   LoggerKind
	Format GraphicFormat
}

// RunOptions is HibouOptions of original_source/src/from_text/
// hibou_options.rs: the resolved configuration of one explore or
// analyze run. A parsed .hsf @X_option section is used as-is when
// present; otherwise the built-in defaults apply, with an optional
// hibou.yaml project file layered on top. No CLI flag changes these
// options.
type RunOptions struct {
	Loggers             []LoggerSpec            `yaml:"loggers,omitempty"`
	Strategy             process.SearchStrategy  `yaml:"strategy"`
	PreFilters           []process.PreFilter     `yaml:"preFilters,omitempty"`
	Temporality          process.Temporality     `yaml:"temporality"`
	Goal                 *verdict.Global         `yaml:"goal,omitempty"`
	FrontierPriorities   process.Priorities      `yaml:"frontierPriorities"`
}

// DefaultExploreOptions mirrors HibouOptions::default_explore():
// BFS, a single MaxLoopInstanciation(1) pre-filter, untimed, no goal.
func DefaultExploreOptions() RunOptions {
	return RunOptions{
		Strategy:    process.BFS,
		PreFilters:  []process.PreFilter{{Kind: process.PreFilterMaxLoopInstanciation, Threshold: 1}},
		Temporality: process.UnTimed,
	}
}

// DefaultAnalyzeOptions mirrors HibouOptions::default_analyze(): BFS,
// no pre-filters, untimed, goal=Pass.
func DefaultAnalyzeOptions() RunOptions {
	goal := verdict.Pass
	return RunOptions{
		Strategy:    process.BFS,
		Temporality: process.UnTimed,
		Goal:        &goal,
	}
}

// ProjectFile is the optional hibou.yaml project defaults file,
// consulted only when the .hsf carries no @X_option section of its
// own; no CLI flag overrides its values.
type ProjectFile struct {
	Strategy           string   `yaml:"strategy,omitempty"`
	Temporality        string   `yaml:"temporality,omitempty"`
	Goal               string   `yaml:"goal,omitempty"`
	Loggers            []string `yaml:"loggers,omitempty"`
}

// LoadProjectFile reads and decodes a hibou.yaml at path. A missing
// file is not an error: the caller proceeds with built-in defaults.
func LoadProjectFile(path string) (*ProjectFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var pf ProjectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	return &pf, nil
}

// EncodeYAML re-encodes a resolved RunOptions for the CLI's
// "-report=yaml" machine-readable sibling of the plain-text term event.
func EncodeYAML(opts RunOptions) ([]byte, error) {
	return yaml.Marshal(opts)
}
