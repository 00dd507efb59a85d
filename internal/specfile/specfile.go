// Package specfile loads declarative command manifests from YAML and compiles
// them into registrable specs. Manifests carry everything about a command
// except its behavior; handlers are bound by name at compile time, so the
// same manifest can drive different handler sets in tests and production.
package specfile

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"lineroute/pkg/routetypes"
)

// Manifest is the root document of a command manifest file.
type Manifest struct {
	Categories []CategoryEntry `yaml:"categories"`
	Commands   []CommandEntry  `yaml:"commands"`
}

// CategoryEntry declares a descent permission on a category path.
type CategoryEntry struct {
	Path       string `yaml:"path"`
	Permission string `yaml:"permission"`
}

// CommandEntry declares one command. Handler names the entry in the handler
// table passed to Compile.
type CommandEntry struct {
	Path        string           `yaml:"path"`
	Default     bool             `yaml:"default"`
	Permission  string           `yaml:"permission"`
	Cooldown    string           `yaml:"cooldown"`
	Description string           `yaml:"description"`
	Usage       string           `yaml:"usage"`
	Secret      bool             `yaml:"secret"`
	Handler     string           `yaml:"handler"`
	Parameters  []ParameterEntry `yaml:"parameters"`
}

// ParameterEntry declares one parameter. Type defaults to string; min and max
// attach an inclusive range validator and may be given independently.
type ParameterEntry struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Optional bool     `yaml:"optional"`
	Switch   bool     `yaml:"switch"`
	Flag     bool     `yaml:"flag"`
	FlagName string   `yaml:"flag_name"`
	Defaults []string `yaml:"defaults"`
	Enum     []string `yaml:"enum"`
	EnumFold bool     `yaml:"enum_fold"`
	Min      *float64 `yaml:"min"`
	Max      *float64 `yaml:"max"`
}

// Parse decodes a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse command manifest: %w", err)
	}
	return &m, nil
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read command manifest: %w", err)
	}
	return Parse(data)
}

// Compile binds the manifest's commands to the named handlers and produces
// the specs to register. Every referenced handler must be present in the
// table.
func (m *Manifest) Compile(handlers map[string]routetypes.HandlerFunc) ([]routetypes.CommandSpec, []routetypes.CategorySpec, error) {
	var commands []routetypes.CommandSpec
	for _, entry := range m.Commands {
		spec, err := entry.compile(handlers)
		if err != nil {
			return nil, nil, err
		}
		commands = append(commands, spec)
	}

	var categories []routetypes.CategorySpec
	for _, entry := range m.Categories {
		categories = append(categories, routetypes.CategorySpec{
			Path:       entry.Path,
			Permission: entry.Permission,
		})
	}
	return commands, categories, nil
}

func (e CommandEntry) compile(handlers map[string]routetypes.HandlerFunc) (routetypes.CommandSpec, error) {
	if e.Handler == "" {
		return routetypes.CommandSpec{}, fmt.Errorf("command %q declares no handler", e.Path)
	}
	handler, ok := handlers[e.Handler]
	if !ok {
		return routetypes.CommandSpec{}, fmt.Errorf("command %q references unknown handler %q", e.Path, e.Handler)
	}

	var cooldown time.Duration
	if e.Cooldown != "" {
		d, err := time.ParseDuration(e.Cooldown)
		if err != nil {
			return routetypes.CommandSpec{}, fmt.Errorf("command %q has invalid cooldown %q: %w", e.Path, e.Cooldown, err)
		}
		cooldown = d
	}

	var params []routetypes.ParameterSpec
	for _, p := range e.Parameters {
		params = append(params, p.compile())
	}

	return routetypes.CommandSpec{
		Path:        e.Path,
		Default:     e.Default,
		Permission:  e.Permission,
		Cooldown:    cooldown,
		Description: e.Description,
		Usage:       e.Usage,
		Secret:      e.Secret,
		Parameters:  params,
		Handler:     handler,
	}, nil
}

func (p ParameterEntry) compile() routetypes.ParameterSpec {
	typ := routetypes.ParamType(p.Type)
	if p.Type == "" {
		typ = routetypes.TypeString
	}

	var validators []routetypes.Validator
	if p.Min != nil || p.Max != nil {
		min := math.Inf(-1)
		max := math.Inf(1)
		if p.Min != nil {
			min = *p.Min
		}
		if p.Max != nil {
			max = *p.Max
		}
		validators = append(validators, routetypes.Range(min, max))
	}

	return routetypes.ParameterSpec{
		Name:       p.Name,
		Type:       typ,
		Optional:   p.Optional,
		Switch:     p.Switch,
		Flag:       p.Flag,
		FlagName:   p.FlagName,
		Defaults:   p.Defaults,
		Validators: validators,
		EnumValues: p.Enum,
		EnumFold:   p.EnumFold,
	}
}
