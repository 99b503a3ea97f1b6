package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"buble/internal/driver"
	"buble/internal/project"
	"buble/internal/target"
)

// addCompileFlags registers the options shared by compile, build and watch.
func addCompileFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "configuration file (default: buble.toml or .buble.yaml found upwards)")
	flags.StringP("target", "t", "", "target environments, e.g. chrome:55,node:8")
	flags.StringP("yes", "y", "", "transforms to force on, comma separated")
	flags.StringP("no", "n", "", "transforms to force off, comma separated")
	flags.String("jsx", "", "JSX element factory (default React.createElement)")
	flags.String("jsx-fragment", "", "JSX fragment component (default React.Fragment)")
	flags.String("object-assign", "", "helper used for object spread, e.g. Object.assign")
	flags.Bool("no-named-function-expr", false, "do not name synthesized function expressions")
	flags.StringP("sourcemap", "m", "", "emit a source map (file|inline|none)")
	flags.Lookup("sourcemap").NoOptDefVal = string(project.SourceMapFile)
	flags.Bool("no-cache", false, "do not use the on-disk compile cache")
	flags.Int("jobs", 0, "max parallel compiles (0=auto)")
}

// loadConfig finds the configuration for dir and layers the command line on
// top of it.
func loadConfig(cmd *cobra.Command, dir string) (*project.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	var cfg *project.Config
	if path != "" {
		cfg, err = project.Load(path)
	} else {
		cfg, err = project.Discover(dir)
	}
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides configuration values with the flags the user set.
func applyFlags(cmd *cobra.Command, cfg *project.Config) error {
	flags := cmd.Flags()

	if flags.Changed("target") {
		value, _ := flags.GetString("target")
		targets, err := target.ParseTargets(value)
		if err != nil {
			return err
		}
		cfg.Target = make(map[string]project.Version, len(targets))
		for env, v := range targets {
			cfg.Target[env] = project.Version(v)
		}
	}

	yes, _ := flags.GetString("yes")
	no, _ := flags.GetString("no")
	if overrides := target.ParseOverrides(yes, no); len(overrides) > 0 {
		if cfg.Transforms == nil {
			cfg.Transforms = make(map[string]bool, len(overrides))
		}
		for name, on := range overrides {
			cfg.Transforms[name] = on
		}
	}

	if flags.Changed("jsx") {
		cfg.JSX, _ = flags.GetString("jsx")
	}
	if flags.Changed("jsx-fragment") {
		cfg.JSXFragment, _ = flags.GetString("jsx-fragment")
	}
	if flags.Changed("object-assign") {
		value, _ := flags.GetString("object-assign")
		cfg.ObjectAssign = project.ParseHelper(value)
	}
	if off, _ := flags.GetBool("no-named-function-expr"); off {
		named := false
		cfg.NamedFunctionExpressions = &named
	}
	if flags.Changed("sourcemap") {
		value, _ := flags.GetString("sourcemap")
		mode, err := project.ParseSourceMapMode(value)
		if err != nil {
			return fmt.Errorf("--sourcemap: %w", err)
		}
		cfg.SourceMap = mode
	}
	if flags.Changed("jobs") {
		cfg.Jobs, _ = flags.GetInt("jobs")
	}
	return nil
}

// driverOptions resolves cfg into compile options and opens the disk cache
// unless --no-cache is set. A cache that cannot be opened is skipped.
func driverOptions(cmd *cobra.Command, cfg *project.Config) (driver.Options, error) {
	opts, err := driver.OptionsFromConfig(cfg)
	if err != nil {
		return driver.Options{}, err
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		if cache, cerr := driver.OpenDiskCache("buble"); cerr == nil {
			opts.Cache = cache
		} else if !quiet(cmd) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: compile cache disabled: %v\n", cerr)
		}
	}
	return opts, nil
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	return n
}

// describeTransforms is the one-line summary printed before a build.
func describeTransforms(opts driver.Options) string {
	enabled := opts.Transform.Transforms.String()
	if enabled == "" {
		return "no transforms"
	}
	return "transforms: " + strings.ReplaceAll(enabled, ",", ", ")
}
