package runtime

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHostScalars(t *testing.T) {
	assert.Nil(t, ToHost(nil))
	assert.Nil(t, ToHost(Undefined))
	assert.Equal(t, 1, ToHost(1))
	assert.Equal(t, "x", ToHost("x"))
	assert.Equal(t, true, ToHost(true))
	assert.Equal(t, 7, ToHost(NewNumber(7)))
	assert.Equal(t, "s", ToHost(NewString("s")))
}

func TestToHostDate(t *testing.T) {
	d := NewDate(1700000000000)
	hosted, ok := ToHost(d).(time.Time)
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), hosted.UnixMilli())
}

func TestObjectCrossesAsLazyView(t *testing.T) {
	o := NewObject()
	o.Set("n", 1)
	o.Set("nested", NewObject())

	view, ok := ToHost(o).(*MapView)
	require.True(t, ok)
	assert.Equal(t, 1, view.Get("n"))
	assert.Nil(t, view.Get("missing"), "missing keys read as nil, not undefined")

	// the view is live: guest-side mutation shows through
	o.Set("n", 2)
	assert.Equal(t, 2, view.Get("n"))

	// nested containers convert at access time
	_, ok = view.Get("nested").(*MapView)
	assert.True(t, ok)

	// the eager escape hatch materializes a plain map
	m := view.Map()
	if diff := cmp.Diff(map[string]any{"n": 2, "nested": map[string]any{}}, m); diff != "" {
		t.Errorf("materialized map mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayCrossesAsLazyView(t *testing.T) {
	a := NewArray(1, "two", NewArray(3))
	view, ok := ToHost(a).(*ListView)
	require.True(t, ok)
	assert.Equal(t, 3, view.Len())
	assert.Equal(t, 1, view.Get(0))
	_, ok = view.Get(2).(*ListView)
	assert.True(t, ok)

	s := view.Slice()
	assert.Equal(t, 1, s[0])
	assert.Equal(t, "two", s[1])
	assert.Equal(t, []any{3}, s[2])
}

func TestFromHostNumbersCollapse(t *testing.T) {
	assert.Equal(t, 3, FromHost(int64(3)))
	assert.Equal(t, 3, FromHost(float32(3)))
	assert.Equal(t, 3, FromHost(uint8(3)))
	assert.Equal(t, 1.5, FromHost(1.5))
}

func TestFromHostDates(t *testing.T) {
	ts := time.UnixMilli(1700000000000)
	d, ok := FromHost(ts).(*JsDate)
	require.True(t, ok)
	assert.Equal(t, int64(1700000000000), d.Millis)

	d2, ok := FromHost(&ts).(*JsDate)
	require.True(t, ok)
	assert.Equal(t, d.Millis, d2.Millis)
}

func TestFromHostLiveMap(t *testing.T) {
	m := map[string]any{"a": 1}
	hosted, ok := FromHost(m).(*HostObject)
	require.True(t, ok)

	v, found := hosted.Get("a")
	assert.True(t, found)
	assert.Equal(t, 1, v)

	// host mutation after binding stays observable
	m["b"] = int64(2)
	v, found = hosted.Get("b")
	assert.True(t, found)
	assert.Equal(t, 2, v, "classification happens at access time")

	hosted.Set("c", Undefined)
	assert.Nil(t, m["c"], "undefined converts to nil on the way out")
}

func TestFromHostSharedSlice(t *testing.T) {
	s := []any{1, 2}
	arr, ok := FromHost(s).(*JsArray)
	require.True(t, ok)
	arr.SetIdx(0, 9)
	assert.Equal(t, 9, s[0], "element writes hit the host backing array")
}

func TestFromHostTypedCollectionsCopy(t *testing.T) {
	arr, ok := FromHost([]string{"a", "b"}).(*JsArray)
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, arr.Items())

	obj, ok := FromHost(map[string]int{"x": 1}).(*JsObject)
	require.True(t, ok)
	v, found := obj.Get("x")
	assert.True(t, found)
	assert.Equal(t, 1, v)
}

func TestFromHostRoundTripsViews(t *testing.T) {
	o := NewObject()
	view := ToHost(o).(*MapView)
	assert.Same(t, o, FromHost(view).(*JsObject))

	a := NewArray()
	lv := ToHost(a).(*ListView)
	assert.Same(t, a, FromHost(lv).(*JsArray))
}

func TestTryFromHostRejectsUnmappable(t *testing.T) {
	type opaque struct{ ch chan int }
	_, err := TryFromHost(opaque{})
	assert.Error(t, err)

	_, err = TryFromHost(map[int]string{1: "x"})
	assert.Error(t, err)

	_, err = TryFromHost("fine")
	assert.NoError(t, err)
}

func TestFromHostFunc(t *testing.T) {
	called := false
	fn := FromHost(func(args []any) (any, error) {
		called = true
		return "ok", nil
	})
	inv, ok := fn.(Invokable)
	require.True(t, ok)
	result, err := inv.Invoke(nil)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", result)
}
