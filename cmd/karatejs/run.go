package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karatelabs/karate-js/interpreter"
)

func runCmd() *cobra.Command {
	var inline string
	cmd := &cobra.Command{
		Use:   "run [file...]",
		Short: "evaluate script files or inline code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inline == "" && len(args) == 0 {
				return fmt.Errorf("nothing to run: pass a file or -e")
			}
			engine := interpreter.NewEngine()
			engine.SetOut(cmd.OutOrStdout())
			if inline != "" {
				return evalAndPrint(cmd, engine, inline)
			}
			for _, path := range args {
				source, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if err := evalAndPrint(cmd, engine, string(source)); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inline, "eval", "e", "", "evaluate inline code")
	return cmd
}

func evalAndPrint(cmd *cobra.Command, engine *interpreter.Engine, source string) error {
	value, err := engine.Eval(source)
	if err != nil {
		return err
	}
	if value != nil {
		fmt.Fprintln(cmd.OutOrStdout(), format(value))
	}
	return nil
}
