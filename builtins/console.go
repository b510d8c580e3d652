package builtins

import (
	"fmt"
	"io"
	"strings"

	"github.com/karatelabs/karate-js/runtime"
)

// Console builds the console object over an output accessor: log, warn and
// error all render through the same display rules.
func Console(out func() io.Writer) *runtime.JsObject {
	console := runtime.NewObject()
	print := runtime.Func(func(args []any) (any, error) {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = Display(arg)
		}
		fmt.Fprintln(out(), strings.Join(parts, " "))
		return runtime.Undefined, nil
	})
	console.Set("log", print)
	console.Set("warn", print)
	console.Set("error", print)
	return console
}

// Display renders a value for console output: strings bare, containers as
// JSON-ish literals so structure is visible.
func Display(v any) string {
	switch t := runtime.Unwrap(v).(type) {
	case *runtime.JsObject, *runtime.JsArray:
		text, err := Stringify(t, "")
		if err != nil {
			return runtime.ToString(t)
		}
		return text
	default:
		return runtime.ToString(t)
	}
}
