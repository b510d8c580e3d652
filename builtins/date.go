package builtins

import (
	"math"
	"time"

	"github.com/karatelabs/karate-js/runtime"
)

func DateCtor() *Ctor {
	c := NewCtor("Date", func(info *runtime.CallInfo, args []any) (any, error) {
		// called plain, the current time renders as a string
		if !constructed(info) {
			return runtime.NowDate().ToISOString(), nil
		}
		switch len(args) {
		case 0:
			return runtime.NowDate(), nil
		case 1:
			switch t := runtime.Unwrap(args[0]).(type) {
			case string:
				if d, ok := runtime.ParseDate(t); ok {
					return d, nil
				}
				return nil, runtime.NewTypeError("invalid date: " + t)
			default:
				return runtime.NewDate(int64(runtime.ToNumber(t))), nil
			}
		}
		return runtime.NewDate(calendarMillis(args)), nil
	})
	c.matches = func(v any) bool {
		_, ok := v.(*runtime.JsDate)
		return ok
	}
	c.static("now", func(args []any) (any, error) {
		return runtime.Narrow(float64(time.Now().UnixMilli())), nil
	})
	c.static("parse", func(args []any) (any, error) {
		if d, ok := runtime.ParseDate(runtime.ToString(argAt(args, 0))); ok {
			return runtime.Narrow(float64(d.Millis)), nil
		}
		return math.NaN(), nil
	})
	c.static("UTC", func(args []any) (any, error) {
		return runtime.Narrow(float64(calendarMillis(args))), nil
	})
	return c
}

// calendarMillis builds a timestamp from (year, month, day, ...) calendar
// components, month zero-based, in UTC.
func calendarMillis(args []any) int64 {
	part := func(i, fallback int) int {
		if i < len(args) {
			return int(runtime.ToNumber(args[i]))
		}
		return fallback
	}
	t := time.Date(
		part(0, 1970), time.Month(part(1, 0)+1), part(2, 1),
		part(3, 0), part(4, 0), part(5, 0), part(6, 0)*int(time.Millisecond),
		time.UTC,
	)
	return t.UnixMilli()
}
