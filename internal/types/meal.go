package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Meal is one recipe suggestion in a plan
type Meal struct {
	Name        string   `json:"meal"`
	Ingredients []string `json:"ingredients"`
	Link        string   `json:"link"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// GrocerySection is one store section and its items, in the order they were produced
type GrocerySection struct {
	Name  string
	Items []string
}

// GroceryList maps store sections to items. It encodes as a JSON object whose keys
// keep the order the sections were produced in.
type GroceryList []GrocerySection

// ErrGroceryListShape is returned when a JSON value is not an object of string arrays
var ErrGroceryListShape = errors.New("grocery list must be an object of string arrays")

// Section returns the items of the named section
func (g GroceryList) Section(name string) ([]string, bool) {
	for _, s := range g {
		if s.Name == name {
			return s.Items, true
		}
	}
	return nil, false
}

// Names returns the section names in order
func (g GroceryList) Names() []string {
	names := make([]string, 0, len(g))
	for _, s := range g {
		names = append(names, s.Name)
	}
	return names
}

// MarshalJSON encodes the list as an ordered JSON object
func (g GroceryList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Name)
		if err != nil {
			return nil, err
		}
		items := s.Items
		if items == nil {
			items = []string{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of string arrays, keeping key order. Duplicate keys
// resolve like JSON.parse: first position, last value.
func (g *GroceryList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrGroceryListShape
	}

	list := GroceryList{}
	index := map[string]int{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return ErrGroceryListShape
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
			return fmt.Errorf("%w: section %q is not an array", ErrGroceryListShape, key)
		}
		var items []string
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("%w: section %q has non-string items", ErrGroceryListShape, key)
		}
		if items == nil {
			items = []string{}
		}
		// A repeated section keeps its first position and takes the last value
		if i := index[key]; i > 0 {
			list[i-1].Items = items
			continue
		}
		list = append(list, GrocerySection{Name: key, Items: items})
		index[key] = len(list)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = list
	return nil
}

// String renders the list one section per line
func (g GroceryList) String() string {
	var b strings.Builder
	for _, s := range g {
		fmt.Fprintf(&b, "%s: %s\n", s.Name, strings.Join(s.Items, ", "))
	}
	return b.String()
}
