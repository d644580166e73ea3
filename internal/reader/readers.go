package reader

import (
	"fmt"
	"math/big"
	"reflect"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var (
	charType     = reflect.TypeFor[Char]()
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
	dateType     = reflect.TypeFor[civil.Date]()
	dateTimeType = reflect.TypeFor[civil.DateTime]()
	bigIntType   = reflect.TypeFor[*big.Int]()
	decimalType  = reflect.TypeFor[decimal.Decimal]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
)

// Baseline returns the built-in readers in dispatch order.
//
// Exact-type readers come before kind-based ones: Char and time.Duration
// share their kinds with int32 and int64.
func Baseline() []ValueReader {
	return []ValueReader{
		CharReader{},
		DurationReader{},
		TimeReader{},
		DateReader{},
		DateTimeReader{},
		BigIntReader{},
		DecimalReader{},
		UUIDReader{},
		BoolReader{},
		StringReader{},
		IntReader{},
		UintReader{},
		FloatReader{},
	}
}

// convert returns v as type t, converting between named and underlying types.
func convert(t reflect.Type, v any) any {
	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return v
	}
	return rv.Convert(t).Interface()
}

// isNumber reports whether raw is a Go numeric value or a big number.
func isNumber(raw any) bool {
	switch raw.(type) {
	case decimal.Decimal, *big.Int, *big.Float:
		return true
	}
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// toInt64 truncates numbers toward zero and parses numeric strings.
func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v.IntPart(), nil
	case *big.Int:
		if !v.IsInt64() {
			return 0, fmt.Errorf("%s overflows int64", v)
		}
		return v.Int64(), nil
	case *big.Float:
		i, _ := v.Int64()
		return i, nil
	}
	return cast.ToInt64E(raw)
}

func toFloat64(raw any) (float64, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v.InexactFloat64(), nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, nil
	case *big.Float:
		f, _ := v.Float64()
		return f, nil
	}
	return cast.ToFloat64E(raw)
}

// stringForm returns the textual form of raw, falling back to fmt formatting
// for values cast does not know.
func stringForm(raw any) string {
	if s, err := cast.ToStringE(raw); err == nil {
		return s
	}
	return fmt.Sprint(raw)
}

// fromEpochMillis interprets n as milliseconds since the Unix epoch in the
// process default time zone.
func fromEpochMillis(n int64) time.Time {
	return time.UnixMilli(n).In(time.Local)
}

// BoolReader reads bool-kinded types.
type BoolReader struct{}

// IsCompatible implements ValueReader.
func (BoolReader) IsCompatible(t reflect.Type) bool { return t.Kind() == reflect.Bool }

// Read implements ValueReader.
func (BoolReader) Read(t reflect.Type, raw any) (any, error) {
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return nil, err
	}
	return convert(t, b), nil
}

// StringReader reads string-kinded types from any value's textual form.
type StringReader struct{}

// IsCompatible implements ValueReader.
func (StringReader) IsCompatible(t reflect.Type) bool { return t.Kind() == reflect.String }

// Read implements ValueReader.
func (StringReader) Read(t reflect.Type, raw any) (any, error) {
	return convert(t, stringForm(raw)), nil
}

// IntReader reads signed integer types. Floats are truncated.
type IntReader struct{}

// IsCompatible implements ValueReader.
func (IntReader) IsCompatible(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// Read implements ValueReader.
func (IntReader) Read(t reflect.Type, raw any) (any, error) {
	n, err := toInt64(raw)
	if err != nil {
		return nil, err
	}
	if reflect.Zero(t).OverflowInt(n) {
		return nil, fmt.Errorf("%d overflows %s", n, t)
	}
	return reflect.ValueOf(n).Convert(t).Interface(), nil
}

// UintReader reads unsigned integer types. Negative input is an error.
type UintReader struct{}

// IsCompatible implements ValueReader.
func (UintReader) IsCompatible(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// Read implements ValueReader.
func (UintReader) Read(t reflect.Type, raw any) (any, error) {
	var (
		n   uint64
		err error
	)
	switch v := raw.(type) {
	case decimal.Decimal, *big.Int, *big.Float:
		var i int64
		i, err = toInt64(v)
		if err == nil && i < 0 {
			err = fmt.Errorf("%d is negative", i)
		}
		n = uint64(i)
	default:
		n, err = cast.ToUint64E(raw)
	}
	if err != nil {
		return nil, err
	}
	if reflect.Zero(t).OverflowUint(n) {
		return nil, fmt.Errorf("%d overflows %s", n, t)
	}
	return reflect.ValueOf(n).Convert(t).Interface(), nil
}

// FloatReader reads float32 and float64 types.
type FloatReader struct{}

// IsCompatible implements ValueReader.
func (FloatReader) IsCompatible(t reflect.Type) bool {
	return t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64
}

// Read implements ValueReader.
func (FloatReader) Read(t reflect.Type, raw any) (any, error) {
	f, err := toFloat64(raw)
	if err != nil {
		return nil, err
	}
	if reflect.Zero(t).OverflowFloat(f) {
		return nil, fmt.Errorf("%g overflows %s", f, t)
	}
	return reflect.ValueOf(f).Convert(t).Interface(), nil
}

// Char is a single character, read by CharReader. Plain int32 targets
// read as integers.
type Char rune

// String returns the character itself.
func (c Char) String() string { return string(rune(c)) }

// CharReader reads characters.
//
// A number is truncated to an integer and taken as a code point. Anything
// else yields the first rune of its string form, or 0 when that is empty.
type CharReader struct{}

// IsCompatible implements ValueReader.
func (CharReader) IsCompatible(t reflect.Type) bool { return t == charType }

// Read implements ValueReader.
func (CharReader) Read(_ reflect.Type, raw any) (any, error) {
	if c, ok := raw.(Char); ok {
		return c, nil
	}
	if isNumber(raw) {
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		return Char(n), nil
	}
	s := stringForm(raw)
	if s == "" {
		return Char(0), nil
	}
	r, _ := utf8.DecodeRuneInString(s)
	return Char(r), nil
}

// DurationReader reads time.Duration. Numbers are nanoseconds; strings use
// time.ParseDuration syntax.
type DurationReader struct{}

// IsCompatible implements ValueReader.
func (DurationReader) IsCompatible(t reflect.Type) bool { return t == durationType }

// Read implements ValueReader.
func (DurationReader) Read(_ reflect.Type, raw any) (any, error) {
	return cast.ToDurationE(raw)
}

// TimeReader reads time.Time.
//
// Integers are epoch milliseconds; civil dates become midnight in the
// process default zone; strings are parsed in the default zone.
type TimeReader struct{}

// IsCompatible implements ValueReader.
func (TimeReader) IsCompatible(t reflect.Type) bool { return t == timeType }

// Read implements ValueReader.
func (TimeReader) Read(_ reflect.Type, raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case civil.Date:
		return v.In(time.Local), nil
	case civil.DateTime:
		return v.In(time.Local), nil
	case string:
		return cast.ToTimeInDefaultLocationE(v, time.Local)
	}
	if isNumber(raw) {
		n, err := toInt64(raw)
		if err != nil {
			return nil, err
		}
		return fromEpochMillis(n), nil
	}
	return nil, fmt.Errorf("unsupported time source %T", raw)
}

// DateReader reads civil.Date, the calendar date in the process default zone.
type DateReader struct{}

// IsCompatible implements ValueReader.
func (DateReader) IsCompatible(t reflect.Type) bool { return t == dateType }

// Read implements ValueReader.
func (DateReader) Read(_ reflect.Type, raw any) (any, error) {
	switch v := raw.(type) {
	case civil.Date:
		return v, nil
	case civil.DateTime:
		return v.Date, nil
	case string:
		if d, err := civil.ParseDate(v); err == nil {
			return d, nil
		}
	}
	tm, err := TimeReader{}.Read(timeType, raw)
	if err != nil {
		return nil, err
	}
	return civil.DateOf(tm.(time.Time).In(time.Local)), nil
}

// DateTimeReader reads civil.DateTime in the process default zone.
type DateTimeReader struct{}

// IsCompatible implements ValueReader.
func (DateTimeReader) IsCompatible(t reflect.Type) bool { return t == dateTimeType }

// Read implements ValueReader.
func (DateTimeReader) Read(_ reflect.Type, raw any) (any, error) {
	switch v := raw.(type) {
	case civil.DateTime:
		return v, nil
	case civil.Date:
		return civil.DateTime{Date: v}, nil
	case string:
		if dt, err := civil.ParseDateTime(v); err == nil {
			return dt, nil
		}
	}
	tm, err := TimeReader{}.Read(timeType, raw)
	if err != nil {
		return nil, err
	}
	return civil.DateTimeOf(tm.(time.Time).In(time.Local)), nil
}

// BigIntReader reads *big.Int. Fractions are truncated.
type BigIntReader struct{}

// IsCompatible implements ValueReader.
func (BigIntReader) IsCompatible(t reflect.Type) bool { return t == bigIntType }

// Read implements ValueReader.
func (BigIntReader) Read(_ reflect.Type, raw any) (any, error) {
	switch v := raw.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case decimal.Decimal:
		return v.BigInt(), nil
	case *big.Float:
		i, _ := v.Int(nil)
		return i, nil
	case string:
		i, ok := new(big.Int).SetString(v, 10)
		if !ok {
			return nil, fmt.Errorf("%q is not an integer", v)
		}
		return i, nil
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Int).SetUint64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		i, _ := big.NewFloat(rv.Float()).Int(nil)
		return i, nil
	}
	return nil, fmt.Errorf("unsupported integer source %T", raw)
}

// DecimalReader reads decimal.Decimal.
type DecimalReader struct{}

// IsCompatible implements ValueReader.
func (DecimalReader) IsCompatible(t reflect.Type) bool { return t == decimalType }

// Read implements ValueReader.
func (DecimalReader) Read(_ reflect.Type, raw any) (any, error) {
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, nil
	case *big.Int:
		return decimal.NewFromBigInt(v, 0), nil
	case string:
		return decimal.NewFromString(v)
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), nil
	case reflect.Float32:
		return decimal.NewFromFloat32(float32(rv.Float())), nil
	case reflect.Float64:
		return decimal.NewFromFloat(rv.Float()), nil
	}
	return nil, fmt.Errorf("unsupported decimal source %T", raw)
}

// UUIDReader reads uuid.UUID from its string, 16-byte or textual byte form.
type UUIDReader struct{}

// IsCompatible implements ValueReader.
func (UUIDReader) IsCompatible(t reflect.Type) bool { return t == uuidType }

// Read implements ValueReader.
func (UUIDReader) Read(_ reflect.Type, raw any) (any, error) {
	switch v := raw.(type) {
	case uuid.UUID:
		return v, nil
	case [16]byte:
		return uuid.UUID(v), nil
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	case string:
		return uuid.Parse(v)
	case fmt.Stringer:
		return uuid.Parse(v.String())
	}
	return nil, fmt.Errorf("unsupported uuid source %T", raw)
}
