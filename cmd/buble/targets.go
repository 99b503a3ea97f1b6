package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"buble/internal/target"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List target environments, or the transforms a target needs",
	Long: `Without -t, list every environment and the versions with support data.
With -t (and -y/-n), show which transforms the compiler would apply.`,
	Args: cobra.NoArgs,
	RunE: runTargets,
}

func runTargets(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	flags := cmd.Flags()
	yes, _ := flags.GetString("yes")
	no, _ := flags.GetString("no")

	if !flags.Changed("target") && yes == "" && no == "" {
		name := color.New(color.Bold)
		for _, env := range target.Environments() {
			fmt.Fprintf(out, "%s %s\n", name.Sprintf("%-10s", env), strings.Join(target.Versions(env), " "))
		}
		return nil
	}

	value, _ := flags.GetString("target")
	targets, err := target.ParseTargets(value)
	if err != nil {
		return err
	}
	ts, err := target.Resolve(targets)
	if err != nil {
		return err
	}
	ts, err = target.Apply(ts, target.ParseOverrides(yes, no))
	if err != nil {
		return err
	}

	on := color.New(color.FgYellow)
	off := color.New(color.FgGreen)
	for _, f := range target.Features() {
		state := off.Sprint("native")
		if ts.Has(f) {
			state = on.Sprint("transform")
		}
		suffix := ""
		if f.Dangerous() {
			suffix = color.New(color.Faint).Sprint("  (opt-in)")
		}
		fmt.Fprintf(out, "%-30s %s%s\n", f.String(), state, suffix)
	}
	return nil
}
