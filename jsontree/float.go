package jsontree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Float is a floating point tree value. Unlike a plain float64, it is always written with a
// fractional part or exponent so that decoders read it back as a float, not an integer.
type Float float64

// String returns the JSON representation of the float. Non-finite values have no JSON
// representation and are formatted the way strconv formats them.
func (f Float) String() string {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	format := byte('f')
	if abs := math.Abs(v); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(v, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	} else if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// UnsupportedFloatError is returned when attempting to encode a NaN or infinite float as JSON.
type UnsupportedFloatError struct {
	Value float64
}

func (e *UnsupportedFloatError) Error() string {
	return fmt.Sprintf("unsupported value: %v cannot be represented in json", e.Value)
}

func (f Float) MarshalJSON() ([]byte, error) {
	return api.Marshal(f)
}

func (f Float) MarshalYAML() (interface{}, error) {
	v := float64(f)
	value := f.String()
	switch {
	case math.IsNaN(v):
		value = ".nan"
	case math.IsInf(v, 1):
		value = ".inf"
	case math.IsInf(v, -1):
		value = "-.inf"
	}
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: value,
	}, nil
}

type floatEncoder struct{}

func (e *floatEncoder) IsEmpty(ptr unsafe.Pointer) bool {
	return *((*Float)(ptr)) == 0
}

func (e *floatEncoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	f := *((*Float)(ptr))
	if v := float64(f); math.IsNaN(v) || math.IsInf(v, 0) {
		if stream.Error == nil {
			stream.Error = &UnsupportedFloatError{Value: v}
		}
		return
	}
	stream.WriteRaw(f.String())
}
