package main

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"lineage/class"
	"lineage/config"
	"lineage/loader"
	"lineage/trace"
)

// app holds state shared by the subcommands of one root command
type app struct {
	cfgFile string
	cfg     config.Config
	logger  *log.Logger
}

func newRootCmd(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "lineage",
		Short:        "Build class hierarchies and trace Super dispatch",
		Long:         `Load class documents (YAML or TOML), instantiate classes, call their methods and inspect how Super resolves through the last-ancestor spine.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: "+config.DefaultConfigPath+")")
	flags.Bool("debug", false, "write \"<Kind>: <message>\" diagnostics for failed operations")
	flags.Bool("trace", false, "trace method calls and Super hops")
	flags.StringSlice("trace-filter", nil, "trace only methods matching these globs (e.g. 'do_*')")
	flags.Int("max-depth", class.DefaultMaxDepth, "maximum nested method calls")

	root.AddCommand(
		a.runCmd(),
		a.inspectCmd(),
		a.resolveCmd(),
		a.lookupCmd(),
		a.conformCmd(),
	)
	return root
}

func (a *app) initConfig(cmd *cobra.Command) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	_ = v.BindPFlag("debug", flags.Lookup("debug"))
	_ = v.BindPFlag("trace.enabled", flags.Lookup("trace"))
	_ = v.BindPFlag("trace.filters", flags.Lookup("trace-filter"))
	_ = v.BindPFlag("max_depth", flags.Lookup("max-depth"))

	cfg, err := config.Load(v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger = log.New(io.Discard, "lineage: ", 0)
	if cfg.DebugEnabled() {
		a.logger.SetOutput(cmd.ErrOrStderr())
	}

	trace.Init(cfg.Trace.Enabled, cfg.DebugEnabled(), cfg.Trace.Filters, cmd.ErrOrStderr())
	if cfg.Trace.Enabled {
		a.logger.Printf("Tracing enabled (filters: %v)", cfg.Trace.Filters)
	}
	return nil
}

// newRegistry creates an empty registry configured from the loaded settings
func (a *app) newRegistry(cmd *cobra.Command) *class.Registry {
	return class.NewRegistry(a.cfg.RegistryOptions(cmd.ErrOrStderr())...)
}

// load builds the classes of a document file into a fresh registry
func (a *app) load(cmd *cobra.Command, path string) (*class.Registry, error) {
	doc, err := loader.ReadFile(path)
	if err != nil {
		return nil, err
	}

	reg := a.newRegistry(cmd)
	built, err := loader.Load(reg, doc)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	a.logger.Printf("Loaded %d classes from %s (digest %.12s)", len(built), path, doc.Digest)
	return reg, nil
}

// parseArgs decodes each argument as a YAML scalar, so "12" is a number
// and "'12'" a string
func parseArgs(raw []string) ([]any, error) {
	args := make([]any, len(raw))
	for i, s := range raw {
		var v any
		if err := yaml.Unmarshal([]byte(s), &v); err != nil {
			return nil, fmt.Errorf("argument %d (%q): %w", i, s, err)
		}
		args[i] = v
	}
	return args, nil
}
