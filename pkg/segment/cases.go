package segment

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Cases maps a main serial to its case text. Keys iterate in the order each
// main serial was first seen; later blocks for a key are merged into it,
// never overwriting it.
type Cases struct {
	order []int
	text  map[int]string
}

// NewCases returns an empty mapping.
func NewCases() *Cases {
	return &Cases{text: make(map[int]string)}
}

// Len reports the number of cases.
func (c *Cases) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Has reports whether main has an entry.
func (c *Cases) Has(main int) bool {
	if c == nil {
		return false
	}
	_, ok := c.text[main]
	return ok
}

// Text returns the text stored for main, or "" when absent.
func (c *Cases) Text(main int) string {
	if c == nil {
		return ""
	}
	return c.text[main]
}

// Get looks a case up by its string key, e.g. "14".
func (c *Cases) Get(key string) (string, bool) {
	main, err := strconv.Atoi(key)
	if err != nil || !c.Has(main) {
		return "", false
	}
	return c.text[main], true
}

// Set replaces the text for main, registering main if it is new.
func (c *Cases) Set(main int, text string) {
	if _, ok := c.text[main]; !ok {
		c.order = append(c.order, main)
	}
	c.text[main] = text
}

// Append adds block after the existing text for main, joined by sep.
// A new entry takes block as is.
func (c *Cases) Append(main int, sep, block string) {
	if cur, ok := c.text[main]; ok {
		c.text[main] = cur + sep + block
		return
	}
	c.Set(main, block)
}

// Prepend places block before the existing text for main, joined by sep.
// A new entry takes block as is.
func (c *Cases) Prepend(main int, sep, block string) {
	if cur, ok := c.text[main]; ok {
		c.text[main] = block + sep + cur
		return
	}
	c.Set(main, block)
}

// Mains returns the main serials in encounter order.
func (c *Cases) Mains() []int {
	if c == nil {
		return nil
	}
	return append([]int(nil), c.order...)
}

// Keys returns the string keys in encounter order.
func (c *Cases) Keys() []string {
	return itoaAll(c.Mains())
}

// SortedMains returns the main serials in ascending numeric order.
func (c *Cases) SortedMains() []int {
	out := c.Mains()
	sort.Ints(out)
	return out
}

// SortedKeys returns the string keys in ascending numeric order.
func (c *Cases) SortedKeys() []string {
	return itoaAll(c.SortedMains())
}

// Available formats the sorted key set for "not found" messages.
func (c *Cases) Available() string {
	return strings.Join(c.SortedKeys(), ", ")
}

// Map copies the cases into a plain map.
func (c *Cases) Map() map[string]string {
	out := make(map[string]string, c.Len())
	for _, m := range c.Mains() {
		out[strconv.Itoa(m)] = c.text[m]
	}
	return out
}

// MarshalJSON encodes the cases as a JSON object preserving encounter order.
func (c *Cases) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range c.Mains() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(strconv.Itoa(m))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.text[m])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func itoaAll(in []int) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strconv.Itoa(v)
	}
	return out
}
