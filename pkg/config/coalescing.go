package config

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/BurntSushi/toml"
)

// CoalescedConfig is a stack of configuration maps; later maps take
// precedence over earlier ones.
type CoalescedConfig []map[string]interface{}

func (c CoalescedConfig) Append(in map[string]interface{}) CoalescedConfig {
	return append(c, in)
}

// CoalesceIntoType merges all maps and decodes the result into a new value
// of type typ, returning a pointer to it.
func (c CoalescedConfig) CoalesceIntoType(typ reflect.Type) (interface{}, error) {
	all := make(map[string]interface{})

	// Copy all values into coalesced map.
	for _, cfg := range c {
		if cfg == nil {
			continue
		}
		for k, v := range cfg {
			all[k] = v
		}
	}

	// Serialize map into TOML, and then deserialize into the appropriate type.
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(all); err != nil {
		return nil, fmt.Errorf("error while encoding into TOML: %w", err)
	}

	v := reflect.New(typ).Interface()
	if _, err := toml.DecodeReader(buf, v); err != nil {
		return nil, fmt.Errorf("error while decoding TOML into %s: %w", typ, err)
	}
	return v, nil
}
