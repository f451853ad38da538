package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"css-tools/cmd/cssbuild/cssyaml"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, error messages) are computed from it.
const appName = "cssbuild"

// localConfigName is the project-level config file looked up in the working directory.
const localConfigName = appName + ".yml"

var (
	envConfig    = strings.ToUpper(appName) + "_CONFIG"
	envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"
)

// resolveConfigDir returns the base config directory for the application.
// Priority: $<APPNAME>_CONFIG_DIR > $XDG_CONFIG_HOME/<appName> > ~/.config/<appName>
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// resolveConfigFile returns the config file to load, or "" when none exists.
// Priority: flag > $<APPNAME>_CONFIG > ./<appName>.yml > <configDir>/config.yml
//
// Explicit paths (flag or env) are returned as-is so that a typo surfaces as a
// read error instead of silently falling back to defaults.
func resolveConfigFile(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if v := os.Getenv(envConfig); v != "" {
		return v, nil
	}
	if exists(localConfigName) {
		return localConfigName, nil
	}
	dir, err := resolveConfigDir()
	if err != nil {
		return "", err
	}
	if p := filepath.Join(dir, "config.yml"); exists(p) {
		return p, nil
	}
	return "", nil
}

// loadConfig resolves and parses the config file. Defaults are returned when
// no file is found.
func loadConfig(flagPath string) (cssyaml.Config, string, error) {
	path, err := resolveConfigFile(flagPath)
	if err != nil {
		return cssyaml.Config{}, "", err
	}
	if path == "" {
		return cssyaml.Default(), "", nil
	}
	cfg, err := cssyaml.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return cssyaml.Config{}, "", fmt.Errorf("config file %s not found", path)
	}
	if err != nil {
		return cssyaml.Config{}, "", err
	}
	return cfg, path, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
