// Package testrunner executes feature files: each scenario runs against a
// fresh script engine, steps evaluate in order, and match steps assert over
// the resulting values.
package testrunner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/karatelabs/karate-js/gherkin"
	"github.com/karatelabs/karate-js/interpreter"
)

type Result int

const (
	Pass Result = iota
	Fail
	Skip
	Error
)

func (r Result) String() string {
	switch r {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Skip:
		return "SKIP"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

// StepResult reports one executed step.
type StepResult struct {
	Step    gherkin.Step
	Result  Result
	Message string
}

// ScenarioResult aggregates the steps of one scenario run. For outlines
// there is one result per example row.
type ScenarioResult struct {
	Feature  string
	Name     string
	Line     int
	Steps    []StepResult
	Result   Result
	Elapsed  time.Duration
}

type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errors  int
	Elapsed time.Duration
}

type Config struct {
	Paths   []string // feature files or directories to walk
	Filter  string   // substring filter on scenario names
	Verbose bool
	Out     io.Writer
}

// Run discovers feature files under the configured paths and runs every
// scenario, returning per-scenario results and a summary.
func Run(cfg Config) ([]ScenarioResult, Summary) {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	start := time.Now()
	var results []ScenarioResult
	for _, path := range discover(cfg.Paths) {
		results = append(results, runFile(path, cfg)...)
	}
	var summary Summary
	summary.Total = len(results)
	for _, r := range results {
		switch r.Result {
		case Pass:
			summary.Passed++
		case Fail:
			summary.Failed++
		case Error:
			summary.Errors++
		}
	}
	summary.Elapsed = time.Since(start)
	return results, summary
}

func discover(paths []string) []string {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err == nil && !fi.IsDir() && strings.HasSuffix(p, ".feature") {
				files = append(files, p)
			}
			return nil
		})
	}
	return files
}

func runFile(path string, cfg Config) []ScenarioResult {
	source, err := os.ReadFile(path)
	if err != nil {
		return []ScenarioResult{{
			Feature: path,
			Result:  Error,
			Steps:   []StepResult{{Result: Error, Message: "read error: " + err.Error()}},
		}}
	}
	feature, diags := gherkin.ParseFeature(string(source))
	if len(diags) > 0 {
		return []ScenarioResult{{
			Feature: path,
			Name:    feature.Name,
			Result:  Error,
			Steps:   []StepResult{{Result: Error, Message: diags[0].Error()}},
		}}
	}
	return RunFeature(path, feature, cfg)
}

// RunFeature runs every scenario of a parsed feature. The background runs
// ahead of each scenario in the same engine, so background bindings are
// visible but scenarios stay isolated from each other.
func RunFeature(path string, feature *gherkin.Feature, cfg Config) []ScenarioResult {
	var background *gherkin.Background
	var results []ScenarioResult
	for _, section := range feature.Sections {
		if section.Background != nil {
			background = section.Background
			continue
		}
		scenario := section.Scenario
		if scenario == nil {
			continue
		}
		if cfg.Filter != "" && !strings.Contains(scenario.Name, cfg.Filter) {
			continue
		}
		for _, steps := range expand(scenario) {
			r := runScenario(path, feature.Name, scenario, background, steps, cfg)
			results = append(results, r)
			if cfg.Verbose {
				fmt.Fprintf(cfg.Out, "%s %s: %s\n", r.Result, path, r.Name)
			}
		}
	}
	return results
}

// expand yields the concrete step lists to run: one for a plain scenario,
// one per example row for an outline with <name> placeholders substituted.
func expand(scenario *gherkin.Scenario) [][]gherkin.Step {
	if !scenario.Outline || len(scenario.Examples) == 0 {
		return [][]gherkin.Step{scenario.Steps}
	}
	var runs [][]gherkin.Step
	for _, table := range scenario.Examples {
		header := table.Header()
		for _, row := range table.Data() {
			steps := make([]gherkin.Step, len(scenario.Steps))
			copy(steps, scenario.Steps)
			for i := range steps {
				steps[i].Text = substitute(steps[i].Text, header, row)
				steps[i].DocString = substitute(steps[i].DocString, header, row)
			}
			runs = append(runs, steps)
		}
	}
	return runs
}

func substitute(text string, header, row []string) string {
	for i, name := range header {
		if i < len(row) {
			text = strings.ReplaceAll(text, "<"+name+">", row[i])
		}
	}
	return text
}

func runScenario(path, featureName string, scenario *gherkin.Scenario, background *gherkin.Background, steps []gherkin.Step, cfg Config) ScenarioResult {
	start := time.Now()
	result := ScenarioResult{
		Feature: path,
		Name:    scenario.Name,
		Line:    scenario.Line,
		Result:  Pass,
	}
	engine := interpreter.NewEngine()
	engine.SetOut(cfg.Out)

	all := steps
	if background != nil {
		all = append(append([]gherkin.Step{}, background.Steps...), steps...)
	}
	for _, step := range all {
		sr := runStep(engine, step)
		result.Steps = append(result.Steps, sr)
		if sr.Result != Pass {
			result.Result = sr.Result
			break
		}
	}
	result.Elapsed = time.Since(start)
	return result
}

// runStep dispatches one step by keyword. Unknown keywords are errors, not
// silently skipped: a feature that needs an unimplemented keyword should
// fail loudly.
func runStep(engine *interpreter.Engine, step gherkin.Step) StepResult {
	sr := StepResult{Step: step, Result: Pass}
	var err error
	switch step.Keyword {
	case "def":
		err = runDef(engine, step)
	case "assert":
		err = runAssert(engine, step.Text)
	case "print":
		_, err = engine.Eval("console.log(" + step.Text + ")")
	case "match":
		err = runMatch(engine, step)
	case "eval", "":
		text := step.Text
		if text == "" {
			text = step.DocString
		}
		_, err = engine.Eval(text)
	default:
		sr.Result = Error
		sr.Message = "unsupported keyword: " + step.Keyword
		return sr
	}
	if err != nil {
		sr.Result = Fail
		sr.Message = err.Error()
	}
	return sr
}

// runDef binds a name: "name = expression". The expression may continue in
// a docstring, the usual spelling for large JSON payloads.
func runDef(engine *interpreter.Engine, step gherkin.Step) error {
	name, expr, ok := strings.Cut(step.Text, "=")
	if !ok {
		return fmt.Errorf("def needs 'name = expression': %s", step.Text)
	}
	name = strings.TrimSpace(name)
	expr = strings.TrimSpace(expr)
	if expr == "" {
		expr = step.DocString
	}
	value, err := engine.Eval("(" + expr + ")")
	if err != nil {
		return err
	}
	return engine.Set(name, value)
}

func runAssert(engine *interpreter.Engine, text string) error {
	value, err := engine.Eval(text)
	if err != nil {
		return err
	}
	if b, ok := value.(bool); !ok || !b {
		return fmt.Errorf("assert failed: %s", text)
	}
	return nil
}

func runMatch(engine *interpreter.Engine, step gherkin.Step) error {
	m, err := gherkin.ParseMatch(step.Text)
	if err != nil {
		return err
	}
	if step.DocString != "" {
		m = m.WithExpected(step.DocString)
	}
	actual, err := engine.Eval("(" + m.Actual + ")")
	if err != nil {
		return err
	}
	expected, err := engine.Eval("(" + m.Expected + ")")
	if err != nil {
		return err
	}
	return Match(actual, expected, m.Type, m.Each)
}
