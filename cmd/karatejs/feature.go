package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/karatelabs/karate-js/testrunner"
)

func featureCmd() *cobra.Command {
	var filter string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "feature [path...]",
		Short: "run feature files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			results, summary := testrunner.Run(testrunner.Config{
				Paths:   args,
				Filter:  filter,
				Verbose: verbose,
				Out:     out,
			})
			for _, r := range results {
				if r.Result == testrunner.Pass && !verbose {
					continue
				}
				fmt.Fprintf(out, "%s %s: %s\n", r.Result, r.Feature, r.Name)
				for _, s := range r.Steps {
					if s.Message != "" {
						fmt.Fprintf(out, "  line %d: %s\n", s.Step.Line, s.Message)
					}
				}
			}
			fmt.Fprintf(out, "scenarios: %d  passed: %d  failed: %d  errors: %d  (%s)\n",
				summary.Total, summary.Passed, summary.Failed, summary.Errors, summary.Elapsed)
			if summary.Failed > 0 || summary.Errors > 0 {
				return fmt.Errorf("%d of %d scenarios did not pass", summary.Failed+summary.Errors, summary.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "run only scenarios whose name contains this text")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "report every scenario, passing ones included")
	return cmd
}
