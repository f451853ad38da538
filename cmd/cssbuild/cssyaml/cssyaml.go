// Package cssyaml reads cssbuild.yml and turns it into a compiler pipeline.
package cssyaml

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"unicode"

	"css-tools/cmd/cssbuild/css"
	"css-tools/cmd/cssbuild/plugins"
	"css-tools/cmd/cssbuild/readable"
	"css-tools/cmd/cssbuild/reusable"

	"gopkg.in/yaml.v3"
)

// Config is the decoded form of a cssbuild.yml file.
type Config struct {
	Input       []string
	Output      string
	Concurrency int
	Banner      string
	Variables   map[string]string
	Readable    bool
	Reusable    ReusableConfig
	// Breakpoints is nil when the file does not override the device table.
	Breakpoints readable.Breakpoints
}

type ReusableConfig struct {
	Enabled   bool
	Prefix    string
	Separator string
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Input:    []string{"styles/**/*.css"},
		Output:   "dist",
		Readable: true,
		Reusable: ReusableConfig{
			Enabled:   true,
			Prefix:    reusable.DefaultPrefix,
			Separator: reusable.DefaultSeparator,
		},
	}
}

// ---- Internal YAML parsing structs ----------------------------------------
//
// Fields that accept more than one shape are held as yaml.Node and resolved
// in convert. A yaml.Node with Kind 0 means the key was absent.

type yamlConfig struct {
	Input       yaml.Node   `yaml:"input"`
	Output      *string     `yaml:"output"`
	Concurrency *int        `yaml:"concurrency"`
	Banner      *string     `yaml:"banner"`
	Variables   yaml.Node   `yaml:"variables"`
	Plugins     yamlPlugins `yaml:"plugins"`
	Breakpoints yaml.Node   `yaml:"breakpoints"`
}

type yamlPlugins struct {
	Readable *bool `yaml:"readable"`
	// Reusable is either a bool or a mapping with enabled/prefix/separator.
	Reusable yaml.Node `yaml:"reusable"`
}

type yamlReusable struct {
	Enabled   *bool   `yaml:"enabled"`
	Prefix    *string `yaml:"prefix"`
	Separator *string `yaml:"separator"`
}

type yamlBreakpoint struct {
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

// ErrEmpty is returned by Parse for a document with no content.
var ErrEmpty = errors.New("empty YAML")

// Parse decodes a cssbuild.yml document on top of Default().
func Parse(in []byte) (Config, error) {
	var docNode yaml.Node
	if err := yaml.Unmarshal(in, &docNode); err != nil {
		return Config{}, err
	}
	if len(docNode.Content) == 0 {
		return Config{}, fmt.Errorf("path=<doc>: %w", ErrEmpty)
	}
	root := docNode.Content[0]
	if root.Kind != yaml.MappingNode {
		return Config{}, fmt.Errorf("path=<doc>: expected a mapping, got YAML kind %d", root.Kind)
	}

	var yc yamlConfig
	if err := root.Decode(&yc); err != nil {
		return Config{}, err
	}
	return convert(yc)
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func convert(yc yamlConfig) (Config, error) {
	cfg := Default()

	if yc.Input.Kind != 0 {
		input, err := decodeStringList(&yc.Input)
		if err != nil {
			return Config{}, fmt.Errorf("path=input: %w", err)
		}
		cfg.Input = input
	}
	if yc.Output != nil {
		cfg.Output = *yc.Output
	}
	if yc.Concurrency != nil {
		if *yc.Concurrency < 0 {
			return Config{}, fmt.Errorf("path=concurrency: must not be negative, got %d", *yc.Concurrency)
		}
		cfg.Concurrency = *yc.Concurrency
	}
	if yc.Banner != nil {
		cfg.Banner = *yc.Banner
	}

	if yc.Variables.Kind != 0 {
		vars, err := decodeMappingAsStrings(&yc.Variables)
		if err != nil {
			return Config{}, fmt.Errorf("path=variables: %w", err)
		}
		for k := range vars {
			if !isGoIdentifier(k) {
				return Config{}, fmt.Errorf(
					"path=variables.%s: invalid name: variable names must be valid Go identifiers "+
						"(letters, digits, and underscores only, no hyphens); hint: rename to %q and use {{ .%s }}",
					k, toSnakeCase(k), toSnakeCase(k),
				)
			}
		}
		cfg.Variables = vars
	}

	if yc.Plugins.Readable != nil {
		cfg.Readable = *yc.Plugins.Readable
	}
	if yc.Plugins.Reusable.Kind != 0 {
		if err := convertReusable(&yc.Plugins.Reusable, &cfg.Reusable); err != nil {
			return Config{}, fmt.Errorf("path=plugins.reusable: %w", err)
		}
	}

	if yc.Breakpoints.Kind != 0 {
		bp, err := convertBreakpoints(&yc.Breakpoints)
		if err != nil {
			return Config{}, err
		}
		cfg.Breakpoints = bp
	}

	return cfg, nil
}

// decodeStringList accepts a single scalar or a sequence of scalars.
func decodeStringList(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("expected a string, got YAML kind %d", item.Kind)
			}
			out = append(out, item.Value)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or list, got YAML kind %d", node.Kind)
	}
}

// decodeMappingAsStrings reads a YAML mapping node into a map[string]string.
// yaml.v3 keeps every scalar's text in node.Value, so numbers arrive as text.
func decodeMappingAsStrings(node *yaml.Node) (map[string]string, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping, got YAML kind %d", node.Kind)
	}
	out := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		val := node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%s: expected a scalar value, got YAML kind %d", node.Content[i].Value, val.Kind)
		}
		out[node.Content[i].Value] = val.Value
	}
	return out, nil
}

func convertReusable(node *yaml.Node, out *ReusableConfig) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return err
		}
		out.Enabled = enabled
		return nil

	case yaml.MappingNode:
		var yr yamlReusable
		if err := node.Decode(&yr); err != nil {
			return err
		}
		// A mapping without `enabled` turns the plugin on.
		out.Enabled = yr.Enabled == nil || *yr.Enabled
		if yr.Prefix != nil {
			if *yr.Prefix == "" {
				return fmt.Errorf("prefix must not be empty")
			}
			out.Prefix = *yr.Prefix
		}
		if yr.Separator != nil {
			if *yr.Separator == "" {
				return fmt.Errorf("separator must not be empty")
			}
			out.Separator = *yr.Separator
		}
		return nil

	default:
		return fmt.Errorf("expected bool or mapping, got YAML kind %d", node.Kind)
	}
}

var breakpointNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// convertBreakpoints keeps the order in which breakpoints are written.
func convertBreakpoints(node *yaml.Node) (readable.Breakpoints, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("path=breakpoints: expected a mapping, got YAML kind %d", node.Kind)
	}
	var out readable.Breakpoints
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if !breakpointNameRe.MatchString(name) {
			return nil, fmt.Errorf("path=breakpoints.%s: invalid device name", name)
		}
		var yb yamlBreakpoint
		if err := node.Content[i+1].Decode(&yb); err != nil {
			return nil, fmt.Errorf("path=breakpoints.%s: %w", name, err)
		}
		if yb.Min == "" && yb.Max == "" {
			return nil, fmt.Errorf("path=breakpoints.%s: min or max is required", name)
		}
		out = append(out, readable.Breakpoint{Name: name, Min: yb.Min, Max: yb.Max})
	}
	return out, nil
}

// isGoIdentifier reports whether s can be referenced as {{ .s }} in a template.
func isGoIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_':
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return true
}

// toSnakeCase replaces hyphens with underscores, used only for error hints.
func toSnakeCase(s string) string {
	out := []byte(s)
	for i := range out {
		if out[i] == '-' {
			out[i] = '_'
		}
	}
	return string(out)
}

// ---- Build -----------------------------------------------------------------

// Plugins returns the plugin set described by c. Reusable blocks run before
// the selector phrases so an include inside a phrase block resolves.
func (c Config) Plugins() css.Plugins {
	var p css.Plugins

	if len(c.Variables) > 0 {
		p.Input = append(p.Input, plugins.Variables(c.Variables))
	}

	if c.Reusable.Enabled {
		p.Transform = append(p.Transform, reusable.New(c.Reusable.Prefix, c.Reusable.Separator))
	}
	if c.Readable {
		p.Transform = append(p.Transform, readable.NewCompiler(readable.Options{Breakpoints: c.Breakpoints}))
	}

	if c.Banner != "" {
		p.Output = append(p.Output, plugins.Banner(c.Banner, c.Variables))
	}
	return p
}

// Pipeline builds a compiler pipeline from c.
func (c Config) Pipeline(opts ...css.PipelineOption) *css.Pipeline {
	if c.Concurrency > 0 {
		opts = append([]css.PipelineOption{css.WithConcurrency(c.Concurrency)}, opts...)
	}
	return css.NewPipeline(c.Plugins(), opts...)
}

// ---- Encode ----------------------------------------------------------------

type yamlOut struct {
	Input       []string          `yaml:"input"`
	Output      string            `yaml:"output"`
	Concurrency int               `yaml:"concurrency,omitempty"`
	Banner      string            `yaml:"banner,omitempty"`
	Variables   map[string]string `yaml:"variables,omitempty"`
	Plugins     yamlPluginsOut    `yaml:"plugins"`
	Breakpoints *yaml.Node        `yaml:"breakpoints,omitempty"`
}

type yamlPluginsOut struct {
	Readable bool            `yaml:"readable"`
	Reusable yamlReusableOut `yaml:"reusable"`
}

type yamlReusableOut struct {
	Enabled   bool   `yaml:"enabled"`
	Prefix    string `yaml:"prefix"`
	Separator string `yaml:"separator"`
}

// Encode renders c as a cssbuild.yml document that Parse reads back.
func Encode(c Config) ([]byte, error) {
	out := yamlOut{
		Input:       c.Input,
		Output:      c.Output,
		Concurrency: c.Concurrency,
		Banner:      c.Banner,
		Variables:   c.Variables,
		Plugins: yamlPluginsOut{
			Readable: c.Readable,
			Reusable: yamlReusableOut{
				Enabled:   c.Reusable.Enabled,
				Prefix:    c.Reusable.Prefix,
				Separator: c.Reusable.Separator,
			},
		},
	}

	if len(c.Breakpoints) > 0 {
		// A mapping node keeps the device order, which a Go map would lose.
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, b := range c.Breakpoints {
			var value yaml.Node
			if err := value.Encode(yamlBreakpointOut{Min: b.Min, Max: b.Max}); err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: b.Name},
				&value,
			)
		}
		out.Breakpoints = node
	}

	return yaml.Marshal(out)
}

type yamlBreakpointOut struct {
	Min string `yaml:"min,omitempty"`
	Max string `yaml:"max,omitempty"`
}
