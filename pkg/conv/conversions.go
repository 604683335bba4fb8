package conv

import (
	"fmt"
	"strings"
)

// ParseKeyValues converts a slice of ["KEY1=VAL1", "KEY2=VAL2", ...] dictionary
// values into a map[string]string, reporting errors if the input is malformed.
// Values may contain '='; only the first one separates the key.
func ParseKeyValues(in []string) (res map[string]string, err error) {
	res = make(map[string]string, len(in))
	for _, d := range in {
		k, v, ok := strings.Cut(d, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid key-value: %s", d)
		}
		res[k] = v
	}
	return res, nil
}

// ToInterfaceMap widens a map[string]string, for coalescing with decoded
// configuration maps.
func ToInterfaceMap(in map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
