package testrunner

import (
	"fmt"
	"reflect"

	"github.com/karatelabs/karate-js/gherkin"
	"github.com/karatelabs/karate-js/runtime"
)

// Match compares two host values under a match operator. With each set the
// actual side must be a list and every element is compared in turn.
func Match(actual, expected any, typ gherkin.MatchType, each bool) error {
	actual = plain(actual)
	expected = plain(expected)
	if each {
		list, ok := actual.([]any)
		if !ok {
			return fmt.Errorf("each needs a list, got %T", actual)
		}
		for i, item := range list {
			if err := matchOne(item, expected, typ); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		return nil
	}
	return matchOne(actual, expected, typ)
}

func matchOne(actual, expected any, typ gherkin.MatchType) error {
	var ok bool
	switch typ {
	case gherkin.MatchEquals:
		ok = deepEqual(actual, expected)
	case gherkin.MatchNotEquals:
		ok = !deepEqual(actual, expected)
	case gherkin.MatchContains:
		ok = contains(actual, expected, false)
	case gherkin.MatchNotContains:
		ok = !contains(actual, expected, false)
	case gherkin.MatchContainsDeep:
		ok = contains(actual, expected, true)
	case gherkin.MatchNotContainsDeep:
		ok = !contains(actual, expected, true)
	case gherkin.MatchContainsOnly:
		ok = containsOnly(actual, expected)
	case gherkin.MatchContainsAny:
		ok = containsAny(actual, expected)
	case gherkin.MatchWithin:
		ok = contains(expected, actual, false)
	case gherkin.MatchNotWithin:
		ok = !contains(expected, actual, false)
	default:
		return fmt.Errorf("unsupported match type %v", typ)
	}
	if !ok {
		return fmt.Errorf("match failed: actual %v %v expected %v", display(actual), typ, display(expected))
	}
	return nil
}

// plain materializes lazy container views into host maps and slices so the
// comparisons below see ordinary Go values all the way down.
func plain(v any) any {
	switch t := v.(type) {
	case *runtime.MapView:
		m := t.Map()
		for k, e := range m {
			m[k] = plain(e)
		}
		return m
	case *runtime.ListView:
		s := t.Slice()
		for i, e := range s {
			s[i] = plain(e)
		}
		return s
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	}
	return v
}

// deepEqual compares structurally; all numeric representations of the same
// value compare equal.
func deepEqual(a, b any) bool {
	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)
		return ok && an == bn
	}
	switch at := a.(type) {
	case map[string]any:
		bt, ok := b.(map[string]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for k, av := range at {
			bv, ok := bt[k]
			if !ok || !deepEqual(av, bv) {
				return false
			}
		}
		return true
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !deepEqual(at[i], bt[i]) {
				return false
			}
		}
		return true
	}
	if a == nil || b == nil {
		return a == b
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

// contains checks partial presence: for maps every expected entry must be
// present, for lists every expected element must appear somewhere. With
// deep set, nested maps are themselves checked by containment rather than
// equality.
func contains(actual, expected any, deep bool) bool {
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return false
		}
		for k, ev := range exp {
			av, ok := act[k]
			if !ok {
				return false
			}
			if deep {
				if !containsOrEqual(av, ev) {
					return false
				}
			} else if !deepEqual(av, ev) {
				return false
			}
		}
		return true
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return false
		}
		for _, ev := range exp {
			if !listHas(act, ev, deep) {
				return false
			}
		}
		return true
	}
	// scalar containment: a list containing the value, or plain equality
	if act, ok := actual.([]any); ok {
		return listHas(act, expected, deep)
	}
	return deepEqual(actual, expected)
}

func containsOrEqual(actual, expected any) bool {
	switch expected.(type) {
	case map[string]any, []any:
		return contains(actual, expected, true)
	}
	return deepEqual(actual, expected)
}

func listHas(list []any, v any, deep bool) bool {
	for _, item := range list {
		if deep {
			if containsOrEqual(item, v) {
				return true
			}
		} else if deepEqual(item, v) {
			return true
		}
	}
	return false
}

// containsOnly requires the same elements in any order, sizes included.
func containsOnly(actual, expected any) bool {
	act, ok := actual.([]any)
	if !ok {
		return false
	}
	exp, ok := expected.([]any)
	if !ok || len(act) != len(exp) {
		return false
	}
	used := make([]bool, len(act))
	for _, ev := range exp {
		found := false
		for i, av := range act {
			if !used[i] && deepEqual(av, ev) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsAny(actual, expected any) bool {
	exp, ok := expected.([]any)
	if !ok {
		exp = []any{expected}
	}
	switch act := actual.(type) {
	case []any:
		for _, ev := range exp {
			if listHas(act, ev, false) {
				return true
			}
		}
	case map[string]any:
		for _, ev := range exp {
			if contains(act, ev, false) {
				return true
			}
		}
	}
	return false
}

func display(v any) string {
	return fmt.Sprintf("%v", v)
}
