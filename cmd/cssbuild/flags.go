package main

import (
	"css-tools/cmd/cssbuild/cssyaml"

	flag "github.com/spf13/pflag"
)

// pipelineFlags are the command-line overrides shared by every command that
// compiles sources. A flag only overrides the config when it was set.
type pipelineFlags struct {
	fs *flag.FlagSet

	configPath  string
	concurrency int
	banner      string
	variables   map[string]string
	noReadable  bool
	noReusable  bool
}

// bindPipelineFlags registers the shared flags on fs.
func bindPipelineFlags(fs *flag.FlagSet) *pipelineFlags {
	f := &pipelineFlags{fs: fs}
	fs.StringVarP(&f.configPath, "config", "c", "",
		"config file (default: ./"+localConfigName+", then ~/.config/"+appName+"/config.yml)")
	fs.IntVarP(&f.concurrency, "concurrency", "j", 0,
		"maximum number of blocks transformed at once (0: unlimited)")
	fs.StringVar(&f.banner, "banner", "", "comment prepended to every compiled file")
	fs.StringToStringVarP(&f.variables, "var", "v", nil,
		"template variable, as name=value (repeatable)")
	fs.BoolVar(&f.noReadable, "no-readable", false, "disable selector phrases")
	fs.BoolVar(&f.noReusable, "no-reusable", false, "disable reusable blocks")
	return f
}

// load reads the config and applies the flags that were set on top of it.
func (f *pipelineFlags) load() (cssyaml.Config, string, error) {
	cfg, path, err := loadConfig(f.configPath)
	if err != nil {
		return cssyaml.Config{}, "", err
	}
	f.apply(&cfg)
	return cfg, path, nil
}

func (f *pipelineFlags) apply(cfg *cssyaml.Config) {
	if f.fs.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if f.fs.Changed("banner") {
		cfg.Banner = f.banner
	}
	if f.fs.Changed("var") {
		merged := make(map[string]string, len(cfg.Variables)+len(f.variables))
		for k, v := range cfg.Variables {
			merged[k] = v
		}
		for k, v := range f.variables {
			merged[k] = v
		}
		cfg.Variables = merged
	}
	if f.noReadable {
		cfg.Readable = false
	}
	if f.noReusable {
		cfg.Reusable.Enabled = false
	}
}
