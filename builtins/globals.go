package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/karatelabs/karate-js/runtime"
)

func registerGlobals(bind func(name string, value any)) {
	bind("undefined", runtime.Undefined)
	bind("NaN", math.NaN())
	bind("Infinity", math.Inf(1))

	bind("parseInt", runtime.Func(parseIntFn))
	bind("parseFloat", runtime.Func(parseFloatFn))
	bind("isNaN", runtime.Func(func(args []any) (any, error) {
		return math.IsNaN(runtime.ToNumber(argAt(args, 0))), nil
	}))
	bind("isFinite", runtime.Func(func(args []any) (any, error) {
		n := runtime.ToNumber(argAt(args, 0))
		return !math.IsNaN(n) && !math.IsInf(n, 0), nil
	}))

	globalThis := runtime.NewObject()
	bind("globalThis", globalThis)
}

func parseIntFn(args []any) (any, error) {
	s := strings.TrimSpace(runtime.ToString(argAt(args, 0)))
	radix := 10
	if len(args) > 1 && runtime.IsNumber(args[1]) {
		if r := int(runtime.ToNumber(args[1])); r != 0 {
			radix = r
		}
	}
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	if radix == 16 {
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	} else if radix == 10 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		radix = 16
		s = s[2:]
	}
	// take the longest valid prefix
	end := 0
	for end < len(s) {
		if _, err := strconv.ParseInt(s[:end+1], radix, 64); err != nil {
			break
		}
		end++
	}
	if end == 0 {
		return math.NaN(), nil
	}
	n, _ := strconv.ParseInt(s[:end], radix, 64)
	if negative {
		n = -n
	}
	return runtime.Narrow(float64(n)), nil
}

func parseFloatFn(args []any) (any, error) {
	s := strings.TrimSpace(runtime.ToString(argAt(args, 0)))
	end := 0
	for end < len(s) {
		if _, err := strconv.ParseFloat(s[:end+1], 64); err != nil {
			// a partial literal like "1e" fails but may recover with more
			if end+1 < len(s) {
				if _, err := strconv.ParseFloat(s[:end+2], 64); err == nil {
					end++
					continue
				}
			}
			break
		}
		end++
	}
	if end == 0 {
		return math.NaN(), nil
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN(), nil
	}
	return runtime.Narrow(f), nil
}
