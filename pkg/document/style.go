package document

import "strings"

// Style is an ordered list of draw.io style attributes. Order is preserved on
// round trips so serialization stays deterministic; keys are unique, with a
// later Set overwriting in place. Flag entries written without "=" decode as
// value "1".
type Style struct {
	keys   []string
	values map[string]string
}

// NewStyle builds a style from alternating key, value pairs.
func NewStyle(kv ...string) Style {
	var st Style
	for i := 0; i+1 < len(kv); i += 2 {
		st.Set(kv[i], kv[i+1])
	}
	return st
}

// ParseStyle decodes a semicolon-separated style string.
func ParseStyle(s string) Style {
	var st Style
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if k, v, ok := strings.Cut(part, "="); ok {
			st.Set(k, v)
		} else {
			st.Set(part, "1")
		}
	}
	return st
}

// Set stores a key, preserving the position of an existing one.
func (st *Style) Set(key, value string) {
	if st.values == nil {
		st.values = make(map[string]string)
	}
	if _, ok := st.values[key]; !ok {
		st.keys = append(st.keys, key)
	}
	st.values[key] = value
}

// Get returns the value for key, or "" when absent.
func (st Style) Get(key string) string {
	return st.values[key]
}

// Has reports whether key is present at all.
func (st Style) Has(key string) bool {
	_, ok := st.values[key]
	return ok
}

// Flag reports whether key is present with the value "1".
func (st Style) Flag(key string) bool {
	return st.values[key] == "1"
}

// Encode serializes the style in insertion order, semicolon separated with a
// trailing semicolon, matching the draw.io convention.
func (st Style) Encode() string {
	if len(st.keys) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range st.keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(st.values[k])
		b.WriteByte(';')
	}
	return b.String()
}
