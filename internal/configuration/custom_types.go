package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/mitchellh/mapstructure"
)

// Vec3HookFunc returns a mapstructure decode hook that accepts a vector as
//   - a list of three numbers: [0, 0, -9.8]
//   - a comma separated string: "0, 0, -9.8"
//   - a map with x, y and z keys: {x: 0, y: 0, z: -9.8}
func Vec3HookFunc() mapstructure.DecodeHookFuncType {
	vecType := reflect.TypeOf(mgl64.Vec3{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != vecType {
			return data, nil
		}

		switch v := data.(type) {
		case mgl64.Vec3:
			return v, nil
		case string:
			return parseVec3String(v)
		case []interface{}:
			return parseVec3List(v)
		case []float64:
			if len(v) != 3 {
				return nil, fmt.Errorf("vector must have exactly 3 components, got %d", len(v))
			}
			return mgl64.Vec3{v[0], v[1], v[2]}, nil
		case map[string]interface{}:
			return parseVec3Map(func(key string) (interface{}, bool) {
				value, ok := v[key]
				return value, ok
			})
		case map[interface{}]interface{}:
			return parseVec3Map(func(key string) (interface{}, bool) {
				value, ok := v[key]
				return value, ok
			})
		}

		return data, nil
	}
}

func parseVec3String(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("vector must have exactly 3 components, got '%s'", s)
	}

	var result mgl64.Vec3
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("invalid vector component '%s': %w", part, err)
		}
		result[i] = value
	}
	return result, nil
}

func parseVec3List(list []interface{}) (mgl64.Vec3, error) {
	if len(list) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("vector must have exactly 3 components, got %d", len(list))
	}

	var result mgl64.Vec3
	for i, item := range list {
		value, err := anyToFloat(item)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		result[i] = value
	}
	return result, nil
}

func parseVec3Map(get func(key string) (interface{}, bool)) (mgl64.Vec3, error) {
	var result mgl64.Vec3
	for i, key := range []string{"x", "y", "z"} {
		item, ok := get(key)
		if !ok {
			continue
		}
		value, err := anyToFloat(item)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("%s: %w", key, err)
		}
		result[i] = value
	}
	return result, nil
}

// anyToFloat converts numeric and string values to float64.
func anyToFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as number: %w", val, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", v)
	}
}
