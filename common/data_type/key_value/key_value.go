// Package key_value defines the loosely typed map used by the
// configuration defaults and by the network file parser.
package key_value

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

// KeyValue is identical to the golang map
type KeyValue map[string]interface{}

// New converts the map to the key-value data type
func New(key_value map[string]interface{}) KeyValue {
	return KeyValue(key_value)
}

// Empty creates a key value with no parameters
func Empty() KeyValue {
	return KeyValue(map[string]interface{}{})
}

// NewFromString parses the JSON object. The numbers are kept as json.Number.
func NewFromString(raw string) (KeyValue, error) {
	var key_value KeyValue
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&key_value); err != nil {
		return nil, fmt.Errorf("json.Decode: %w", err)
	}

	if err := key_value.noNull(); err != nil {
		return nil, err
	}

	return key_value, nil
}

// Set the parameter. Returns itself so the calls could be chained.
func (k KeyValue) Set(name string, value interface{}) KeyValue {
	k[name] = value
	return k
}

// Exist returns an error if the parameter is missing
func (k KeyValue) Exist(name string) error {
	if _, ok := k[name]; !ok {
		return errors.New("missing '" + name + "' parameter")
	}
	return nil
}

// ToMap converts the key-value to the golang map
func (k KeyValue) ToMap() map[string]interface{} {
	return map[string]interface{}(k)
}

// MapString converts all values to strings.
// Used to write the key value as the environment variables.
func (k KeyValue) MapString() map[string]string {
	result := make(map[string]string, len(k))
	for name, value := range k {
		result[name] = fmt.Sprintf("%v", value)
	}
	return result
}

func (k KeyValue) noNull() error {
	for name, value := range k {
		if value == nil {
			return fmt.Errorf("parameter '%s' is null", name)
		}
		nested, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		if err := KeyValue(nested).noNull(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// GetUint64 returns the parameter as an uint64.
// Accepts the number types produced by the JSON and YAML decoders.
func (parameters KeyValue) GetUint64(name string) (uint64, error) {
	raw, exists := parameters[name]
	if !exists {
		return 0, errors.New("missing '" + name + "' parameter")
	}

	switch value := raw.(type) {
	case uint64:
		return value, nil
	case uint:
		return uint64(value), nil
	case int:
		if value < 0 {
			return 0, errors.New("parameter '" + name + "' is negative")
		}
		return uint64(value), nil
	case int64:
		if value < 0 {
			return 0, errors.New("parameter '" + name + "' is negative")
		}
		return uint64(value), nil
	case float64:
		if value < 0 || value != float64(uint64(value)) {
			return 0, errors.New("parameter '" + name + "' is not an unsigned integer")
		}
		return uint64(value), nil
	case json.Number:
		return strconv.ParseUint(string(value), 10, 64)
	case string:
		return strconv.ParseUint(value, 10, 64)
	}

	return 0, errors.New("parameter '" + name + "' expected to be as a number")
}

// GetBoolean returns the parameter as a boolean
func (parameters KeyValue) GetBoolean(name string) (bool, error) {
	raw, exists := parameters[name]
	if !exists {
		return false, errors.New("missing '" + name + "' parameter")
	}

	pure_value, ok := raw.(bool)
	if ok {
		return pure_value, nil
	}

	return false, errors.New("the '" + name + "' is not in a boolean format")
}

// GetBigNumber returns the parsed large number. If the number size is more than 64 bits.
func (parameters KeyValue) GetBigNumber(name string) (*big.Int, error) {
	raw, exists := parameters[name]
	if !exists {
		return nil, errors.New("missing '" + name + "' parameter")
	}

	var str string
	switch value := raw.(type) {
	case json.Number:
		str = string(value)
	case string:
		str = value
	case int:
		return big.NewInt(int64(value)), nil
	case uint64:
		return new(big.Int).SetUint64(value), nil
	default:
		return nil, errors.New("parameter '" + name + "' expected to be as a number")
	}

	number, ok := math.ParseBig256(str)
	if !ok {
		return nil, errors.New("parameter '" + name + "' is not a big number")
	}

	return number, nil
}

// GetString returns the parameter as a string
func (parameters KeyValue) GetString(name string) (string, error) {
	raw, exists := parameters[name]
	if !exists {
		return "", errors.New("missing '" + name + "' parameter")
	}
	value, ok := raw.(string)
	if !ok {
		return "", errors.New("expected string type for '" + name + "' parameter")
	}

	return value, nil
}

// GetKeyValueList returns the parameter as a slice of key values.
func (parameters KeyValue) GetKeyValueList(name string) ([]KeyValue, error) {
	raw, exists := parameters[name]
	if !exists {
		return nil, errors.New("missing '" + name + "' parameter")
	}

	switch values := raw.(type) {
	case []KeyValue:
		return values, nil
	case []map[string]interface{}:
		list := make([]KeyValue, len(values))
		for i, value := range values {
			list[i] = New(value)
		}
		return list, nil
	case []interface{}:
		list := make([]KeyValue, len(values))
		for i, raw_value := range values {
			switch v := raw_value.(type) {
			case map[string]interface{}:
				list[i] = New(v)
			case KeyValue:
				list[i] = v
			default:
				return nil, fmt.Errorf("element %d in '%s' is not a map", i, name)
			}
		}
		return list, nil
	}

	return nil, errors.New("expected list type for '" + name + "' parameter")
}
