package api

import (
	"sort"
	"strings"
)

// EnvVars is the environment of a build. Keys prefixed with a '+' qualifier
// in Override (e.g. PATH+GNAT) prepend to the base variable instead of
// replacing it.
type EnvVars map[string]string

// FromEnviron parses a slice of KEY=VALUE pairs, as returned by os.Environ.
func FromEnviron(environ []string) EnvVars {
	env := make(EnvVars, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

// Clone returns an independent copy of env.
func (env EnvVars) Clone() EnvVars {
	out := make(EnvVars, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}

// Expand replaces $VAR and ${VAR} references in s. References to variables
// that are not set are left in place exactly as written.
func (env EnvVars) Expand(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	last := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '$' {
			continue
		}
		name, w := varRef(s[i+1:])
		if name == "" {
			continue
		}
		end := i + 1 + w
		b.WriteString(s[last:i])
		if v, ok := env[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[i:end])
		}
		last = end
		i = end - 1
	}
	b.WriteString(s[last:])
	return b.String()
}

// varRef returns the variable name referenced at the start of s, which
// follows a '$', and the number of bytes the reference occupies.
func varRef(s string) (string, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return "", 0
		}
		return s[1:end], end + 1
	}
	n := 0
	for n < len(s) && isNameByte(s[n]) {
		n++
	}
	return s[:n], n
}

func isNameByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// Override sets key to value using the conventions of platform p. A key of
// the form NAME+QUALIFIER prepends value to NAME using the platform's list
// separator and keeps the existing entries; an empty value is ignored in
// that case. On Windows, the existing key is matched case-insensitively.
func (env EnvVars) Override(p Platform, key, value string) {
	base, _, prepend := strings.Cut(key, "+")
	name := env.keyFor(p, base)

	if !prepend {
		if value == "" {
			delete(env, name)
			return
		}
		env[name] = value
		return
	}

	if value == "" {
		return
	}
	if cur, ok := env[name]; ok && cur != "" {
		env[name] = value + p.ListSeparator() + cur
		return
	}
	env[name] = value
}

func (env EnvVars) keyFor(p Platform, key string) string {
	if _, ok := env[key]; ok || p.IsUnix() {
		return key
	}
	for k := range env {
		if strings.EqualFold(k, key) {
			return k
		}
	}
	return key
}

// Lookup returns the value of key, matching case-insensitively on Windows.
func (env EnvVars) Lookup(p Platform, key string) (string, bool) {
	v, ok := env[env.keyFor(p, key)]
	return v, ok
}

// Environ returns env as a sorted slice of KEY=VALUE pairs.
func (env EnvVars) Environ() []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
