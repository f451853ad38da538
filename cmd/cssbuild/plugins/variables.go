// Package plugins holds the input and output plugins the cssbuild command
// wires around the compiler.
package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"css-tools/cmd/cssbuild/css"
)

var ErrUnknownVariable = errors.New("unknown variable")

// Variables returns an input plugin that substitutes {{ .name }} references
// with values from vars before the source is parsed.
//
// Besides the variables, templates may call env ("NAME") to read the process
// environment. A reference to a missing variable is an error rather than
// "<no value>".
func Variables(vars map[string]string) css.InputPlugin {
	return func(source string) (string, error) {
		return substitute(source, vars)
	}
}

var templateFuncs = template.FuncMap{
	"env": os.Getenv,
	"default": func(fallback, value string) string {
		if value == "" {
			return fallback
		}
		return value
	},
}

// substitute applies Go template substitution to s. It returns s unchanged
// when there are no template markers.
func substitute(s string, vars map[string]string) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}
	if vars == nil {
		vars = map[string]string{}
	}

	t, err := template.New("source").Option("missingkey=error").Funcs(templateFuncs).Parse(s)
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, vars); err != nil {
		if strings.Contains(err.Error(), "map has no entry for key") {
			return "", fmt.Errorf("%w: %v", ErrUnknownVariable, err)
		}
		return "", fmt.Errorf("template execute error: %w", err)
	}
	return buf.String(), nil
}
