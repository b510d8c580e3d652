package runtime

import "time"

// JsDate is the guest date value. The internal representation is a
// millisecond count since the epoch; numeric coercion unwraps to that
// count, never to a formatted string. Accessors compute calendar fields in
// UTC from the count.
type JsDate struct {
	Millis int64
}

func NewDate(millis int64) *JsDate {
	return &JsDate{Millis: millis}
}

func NowDate() *JsDate {
	return &JsDate{Millis: time.Now().UnixMilli()}
}

// ParseDate accepts the formats the engine recognizes for date strings.
func ParseDate(s string) (*JsDate, bool) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.000Z0700",
		"2006-01-02T15:04:05",
		"2006-01-02",
		time.RFC1123,
		time.RFC1123Z,
	}
	for _, layout := range formats {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.UnixMilli()), true
		}
	}
	return nil, false
}

func (d *JsDate) Time() time.Time {
	return time.UnixMilli(d.Millis).UTC()
}

// Unwrap yields the millisecond count for coercion.
func (d *JsDate) Unwrap() any {
	return Narrow(float64(d.Millis))
}

// HostValue crosses the bridge as a host time value.
func (d *JsDate) HostValue() any {
	return time.UnixMilli(d.Millis)
}

func (d *JsDate) ToISOString() string {
	return d.Time().Format("2006-01-02T15:04:05.000Z")
}

func init() {
	DateProto.method("getTime", func(self any, args []any) (any, error) {
		return Narrow(float64(self.(*JsDate).Millis)), nil
	})
	DateProto.method("valueOf", func(self any, args []any) (any, error) {
		return Narrow(float64(self.(*JsDate).Millis)), nil
	})
	DateProto.method("getFullYear", func(self any, args []any) (any, error) {
		return self.(*JsDate).Time().Year(), nil
	})
	DateProto.method("getMonth", func(self any, args []any) (any, error) {
		return int(self.(*JsDate).Time().Month()) - 1, nil
	})
	DateProto.method("getDate", func(self any, args []any) (any, error) {
		return self.(*JsDate).Time().Day(), nil
	})
	DateProto.method("getDay", func(self any, args []any) (any, error) {
		return int(self.(*JsDate).Time().Weekday()), nil
	})
	DateProto.method("getHours", func(self any, args []any) (any, error) {
		return self.(*JsDate).Time().Hour(), nil
	})
	DateProto.method("getMinutes", func(self any, args []any) (any, error) {
		return self.(*JsDate).Time().Minute(), nil
	})
	DateProto.method("getSeconds", func(self any, args []any) (any, error) {
		return self.(*JsDate).Time().Second(), nil
	})
	DateProto.method("getMilliseconds", func(self any, args []any) (any, error) {
		return int(self.(*JsDate).Millis % 1000), nil
	})
	DateProto.method("toISOString", func(self any, args []any) (any, error) {
		return self.(*JsDate).ToISOString(), nil
	})
	DateProto.method("toString", func(self any, args []any) (any, error) {
		return self.(*JsDate).ToISOString(), nil
	})
	DateProto.method("setTime", func(self any, args []any) (any, error) {
		d := self.(*JsDate)
		d.Millis = int64(ToNumber(Arg(args, 0)))
		return Narrow(float64(d.Millis)), nil
	})
	DateProto.method("setFullYear", func(self any, args []any) (any, error) {
		d := self.(*JsDate)
		t := d.Time()
		year := int(ToNumber(Arg(args, 0)))
		t = time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
		d.Millis = t.UnixMilli()
		return Narrow(float64(d.Millis)), nil
	})
}
