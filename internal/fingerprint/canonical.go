package fingerprint

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupported reports a value kind that has no JSON form.
	ErrUnsupported = errors.New("unsupported value kind")
	// ErrNonFinite reports a NaN or infinite number.
	ErrNonFinite = errors.New("non-finite number")
	// ErrCycle reports a container that contains itself.
	ErrCycle = errors.New("cyclic value")
)

// Record is a JSON-shaped object: values are nil, bool, numbers, strings,
// slices, or nested maps keyed by string.
type Record map[string]any

// Canonicalize renders v as canonical JSON text. Object keys are sorted in
// ascending code-point order at every level; sequences keep their order.
func Canonicalize(v any) (string, error) {
	var enc encoder
	if err := enc.value(v, "$"); err != nil {
		return "", err
	}
	return enc.buf.String(), nil
}

type encoder struct {
	buf    strings.Builder
	active map[containerKey]struct{}
}

type containerKey struct {
	ptr uintptr
	len int
}

func (e *encoder) value(v any, path string) error {
	switch val := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case bool:
		e.buf.WriteString(strconv.FormatBool(val))
	case string:
		writeQuoted(&e.buf, val)
	case float64:
		return e.float(val, path)
	case float32:
		return e.float(float64(val), path)
	case int:
		e.buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		e.buf.WriteString(strconv.FormatInt(val, 10))
	case int32:
		e.buf.WriteString(strconv.FormatInt(int64(val), 10))
	case uint64:
		e.buf.WriteString(strconv.FormatUint(val, 10))
	case json.Number:
		f, err := strconv.ParseFloat(val.String(), 64)
		if err != nil {
			return fmt.Errorf("%s: number %q: %w", path, val.String(), ErrUnsupported)
		}
		return e.float(f, path)
	case Record:
		return e.object(map[string]any(val), path)
	case map[string]any:
		return e.object(val, path)
	case []any:
		return e.array(reflect.ValueOf(val), path)
	case []string:
		return e.array(reflect.ValueOf(val), path)
	default:
		return e.reflected(reflect.ValueOf(v), path)
	}
	return nil
}

// reflected handles the remaining integer widths and generic containers such
// as map[string]string or []map[string]any.
func (e *encoder) reflected(rv reflect.Value, path string) error {
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16:
		e.buf.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		e.buf.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.String:
		writeQuoted(&e.buf, rv.String())
	case reflect.Bool:
		e.buf.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Float32, reflect.Float64:
		return e.float(rv.Float(), path)
	case reflect.Slice, reflect.Array:
		return e.array(rv, path)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%s: map keyed by %s: %w", path, rv.Type().Key(), ErrUnsupported)
		}
		return e.reflectedObject(rv, path)
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		return fmt.Errorf("%s: %s: %w", path, rv.Type(), ErrUnsupported)
	default:
		return fmt.Errorf("%s: %s: %w", path, rv.Type(), ErrUnsupported)
	}
	return nil
}

func (e *encoder) float(f float64, path string) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%s: %v: %w", path, f, ErrNonFinite)
	}
	e.buf.WriteString(formatNumber(f))
	return nil
}

func (e *encoder) object(m map[string]any, path string) error {
	if m == nil {
		e.buf.WriteString("null")
		return nil
	}
	leave, err := e.enter(reflect.ValueOf(m).Pointer(), 0, path)
	if err != nil {
		return err
	}
	defer leave()

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		writeQuoted(&e.buf, k)
		e.buf.WriteByte(':')
		if err := e.value(m[k], path+"."+k); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) reflectedObject(rv reflect.Value, path string) error {
	if rv.IsNil() {
		e.buf.WriteString("null")
		return nil
	}
	leave, err := e.enter(rv.Pointer(), 0, path)
	if err != nil {
		return err
	}
	defer leave()

	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		writeQuoted(&e.buf, k)
		e.buf.WriteByte(':')
		elem := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
		if err := e.value(elem.Interface(), path+"."+k); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) array(rv reflect.Value, path string) error {
	if rv.Kind() == reflect.Slice {
		if rv.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		if rv.Len() > 0 {
			leave, err := e.enter(rv.Pointer(), rv.Len(), path)
			if err != nil {
				return err
			}
			defer leave()
		}
	}

	e.buf.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		if err := e.value(rv.Index(i).Interface(), path+"["+strconv.Itoa(i)+"]"); err != nil {
			return err
		}
	}
	e.buf.WriteByte(']')
	return nil
}

// enter marks a container as being serialized; revisiting it before leave
// runs means the value refers to itself.
func (e *encoder) enter(ptr uintptr, n int, path string) (func(), error) {
	key := containerKey{ptr: ptr, len: n}
	if e.active == nil {
		e.active = make(map[containerKey]struct{})
	}
	if _, ok := e.active[key]; ok {
		return nil, fmt.Errorf("%s: %w", path, ErrCycle)
	}
	e.active[key] = struct{}{}
	return func() { delete(e.active, key) }, nil
}

// formatNumber renders f the way JSON.stringify does: integral values
// without a fraction, exponent form outside [1e-6, 1e21), and no negative
// zero.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// e-07 -> e-7
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b)
}

const hexDigits = "0123456789abcdef"

// writeQuoted applies standard JSON string escaping: quote, backslash and
// control characters are escaped, everything else is written verbatim.
func writeQuoted(buf *strings.Builder, s string) {
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				buf.WriteString(s[start:i])
				buf.WriteString("\ufffd")
				i += size
				start = i
				continue
			}
			i += size
			continue
		}
		if c >= 0x20 && c != '"' && c != '\\' {
			i++
			continue
		}
		buf.WriteString(s[start:i])
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[c>>4])
			buf.WriteByte(hexDigits[c&0xF])
		}
		i++
		start = i
	}
	buf.WriteString(s[start:])
	buf.WriteByte('"')
}
