package datetime

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// NumericInput is an argument of SetDate and SetTime: an Int or a NumericString.
// A nil NumericInput counts as zero.
type NumericInput interface {
	numeric() (int64, bool)
}

// Int is an integer argument.
type Int int64

func (n Int) numeric() (int64, bool) { return int64(n), true }

// NumericString is a textual argument that must hold an integer or a decimal number.
// Decimal numbers are truncated toward zero.
type NumericString string

func (s NumericString) numeric() (int64, bool) {
	t := strings.TrimSpace(string(s))
	if n, err := strconv.ParseInt(t, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// numericArgs converts arguments to integers or reports the first mismatch.
func numericArgs(method string, args []NumericInput) ([]int64, error) {
	out := make([]int64, len(args))
	for i, a := range args {
		if a == nil {
			continue
		}
		n, ok := a.numeric()
		if !ok {
			return nil, &TypeMismatchError{Method: method, Param: i + 1, Want: "long", Got: "string"}
		}
		out[i] = n
	}
	return out, nil
}

// scalarString converts scalar values to the string a loosely typed caller
// would expect: nil and false are empty, true is "1", numbers use their
// shortest decimal form.
func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case bool:
		if v {
			return "1", true
		}
		return "", true
	case int:
		return strconv.Itoa(v), true
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10), true
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case fmt.Stringer:
		return v.String(), true
	}
	return "", false
}

// typeName names the kind of a value the way error messages refer to it.
func typeName(v any) string {
	if v == nil {
		return "null"
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return "array"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "double"
	case reflect.String:
		return "string"
	}
	return "object"
}
