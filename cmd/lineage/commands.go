package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lineage/class"
	"lineage/conformance"
	"lineage/loader"
)

func (a *app) runCmd() *cobra.Command {
	var newArgs []string

	cmd := &cobra.Command{
		Use:   "run FILE CLASS METHOD [ARGS...]",
		Short: "Instantiate a class and call one of its methods",
		Long: `Load FILE, instantiate CLASS and call METHOD with ARGS.

Arguments are YAML scalars: 12 is a number, '12' a string.
The result is printed, followed by anything the methods emitted.

Examples:
  lineage run shapes.yaml Square describe --new sq-1
  lineage run shapes.yaml 2 describe --trace`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			ctorArgs, err := parseArgs(newArgs)
			if err != nil {
				return err
			}
			callArgs, err := parseArgs(args[3:])
			if err != nil {
				return err
			}

			inst, err := reg.New(args[1], ctorArgs...)
			if err != nil {
				return err
			}
			result, err := inst.Call(args[2], callArgs...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s.%s => %s\n", inst.Class().Label(), args[2], formatValue(result))
			for _, line := range loader.Output(inst) {
				fmt.Fprintf(out, "  %s\n", line)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&newArgs, "new", nil, "constructor arguments (comma separated YAML scalars)")
	return cmd
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE [CLASS]",
		Short: "Show the classes a document defines",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}

			classes := reg.All()
			if len(args) == 2 {
				d, err := reg.Class(args[1])
				if err != nil {
					return err
				}
				classes = []*class.Descriptor{d}
			}

			out := cmd.OutOrStdout()
			for i, d := range classes {
				if i > 0 {
					fmt.Fprintln(out)
				}
				describe(out, d)
			}
			return nil
		},
	}
}

// describe prints one descriptor: ancestry, constructor and surface
func describe(w io.Writer, d *class.Descriptor) {
	fmt.Fprintf(w, "=== #%d %s ===\n", d.ID(), d.Name())
	fmt.Fprintf(w, "Ancestors:   %s\n", labels(d.Ancestors()))
	fmt.Fprintf(w, "Interfaces:  %s\n", labels(d.Interfaces()))

	ctor := "inherited or none"
	if d.HasOwnConstructor() {
		ctor = "own"
	}
	fmt.Fprintf(w, "Constructor: %s\n", ctor)

	fmt.Fprintln(w, "Members:")
	for _, name := range d.MemberNames() {
		m, _ := d.Member(name)
		if m.IsMethod() {
			fmt.Fprintf(w, "  %-20s method  from %s\n", name, m.Owner.Label())
		} else {
			fmt.Fprintf(w, "  %-20s value   %s\n", name, formatValue(m.Value))
		}
	}
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve FILE CLASS METHOD",
		Short: "Print the order in which Super runs implementations of METHOD",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			d, err := reg.Class(args[1])
			if err != nil {
				return err
			}

			chain := d.SuperChain(args[2])
			if len(chain) == 0 {
				return fmt.Errorf("%s has no method '%s'", d.Label(), args[2])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s.%s:\n", d.Label(), args[2])
			for i, step := range chain {
				fmt.Fprintf(out, "%3d. %s\n", i+1, step.Label())
			}
			return nil
		},
	}
}

func (a *app) lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup FILE REF",
		Short: "Resolve REF the way Class(x) does",
		Long: `Resolve REF against the classes of FILE.

A REF that parses as a number is always an id, so a class named "12" is
only reachable by its own id.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.load(cmd, args[0])
			if err != nil {
				return err
			}
			d, err := reg.Class(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s id=%d\n", d, d.ID())
			return nil
		},
	}
}

func (a *app) conformCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "conform [DIR]",
		Short: "Run the YAML conformance suites",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.SuitesDir
			if len(args) == 1 {
				dir = args[0]
			}

			tests, err := conformance.LoadAllTests(dir)
			if err != nil {
				return fmt.Errorf("loading suites from %s: %w", dir, err)
			}
			a.logger.Printf("Loaded %d tests from %s", len(tests), dir)

			runner := conformance.NewRunner(a.cfg.RegistryOptions(cmd.ErrOrStderr())...)
			results := runner.RunAll(tests)

			out := cmd.OutOrStdout()
			for _, r := range results {
				name := r.Test.File + ": " + r.Test.Test.Name
				switch {
				case r.Skipped:
					if verbose {
						fmt.Fprintf(out, "SKIP %s (%s)\n", name, r.SkipReason)
					}
				case r.Passed:
					if verbose {
						fmt.Fprintf(out, "PASS %s\n", name)
					}
				default:
					fmt.Fprintf(out, "FAIL %s: %v\n", name, r.Error)
				}
			}

			stats := conformance.ComputeStats(results)
			fmt.Fprintln(out, conformance.FormatStats(stats))
			if stats.Failed > 0 {
				return fmt.Errorf("%d conformance tests failed", stats.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list passing and skipped tests")
	return cmd
}

func labels(ds []*class.Descriptor) string {
	if len(ds) == 0 {
		return "(none)"
	}
	names := make([]string, len(ds))
	for i, d := range ds {
		names[i] = d.Label()
	}
	return strings.Join(names, ", ")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
