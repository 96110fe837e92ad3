package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Entity maps carry their identity under these keys. Keys starting with an
// underscore are metadata and never rendered as properties.
const (
	KeyID     = "_id"
	KeyType   = "_type"
	KeyLabels = "_labels"
)

// RenderCell renders a single value with a default Projector.
func RenderCell(v interface{}) Cell {
	return NewProjector().RenderCell(v)
}

// RenderCell renders v: null as NullText, arrays as nested cells, entities
// (maps with an "_id") as ":TYPE[id] " or "Node[id] " followed by their
// properties as JSON, scalars directly, and anything else as generic JSON.
func (p Projector) RenderCell(v interface{}) Cell {
	p = p.normalized()
	return p.render(v, 0)
}

func (p Projector) render(v interface{}, depth int) Cell {
	if v == nil {
		return Cell{Text: p.NullText}
	}
	if depth > p.MaxDepth {
		return Cell{Text: generic(v)}
	}

	switch val := v.(type) {
	case string:
		return Cell{Text: val}
	case json.Number:
		return Cell{Text: val.String()}
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Cell{Text: scalar(val)}
	case []interface{}:
		return p.array(len(val), func(i int) interface{} { return val[i] }, depth)
	case map[string]interface{}:
		if _, ok := val[KeyID]; ok {
			return Cell{Text: entity(val)}
		}
		return Cell{Text: generic(val)}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Cell{Text: p.NullText}
		}
		return p.array(rv.Len(), func(i int) interface{} { return rv.Index(i).Interface() }, depth)
	case reflect.Pointer:
		if rv.IsNil() {
			return Cell{Text: p.NullText}
		}
		return p.render(rv.Elem().Interface(), depth+1)
	}
	return Cell{Text: generic(v)}
}

func (p Projector) array(n int, at func(int) interface{}, depth int) Cell {
	items := make([]Cell, n)
	texts := make([]string, n)
	for i := 0; i < n; i++ {
		items[i] = p.render(at(i), depth+1)
		texts[i] = items[i].Text
	}
	return Cell{Text: "[" + strings.Join(texts, ", ") + "]", Items: items}
}

// entity renders a node or relationship map.
func entity(m map[string]interface{}) string {
	var b strings.Builder
	id := scalar(m[KeyID])
	if typ, ok := m[KeyType].(string); ok && typ != "" {
		b.WriteString(":" + typ + "[" + id + "] ")
	} else {
		b.WriteString("Node[" + id + "] ")
	}

	props := make(map[string]interface{}, len(m))
	for k, v := range m {
		if !strings.HasPrefix(k, "_") {
			props[k] = v
		}
	}
	if len(props) > 0 {
		b.WriteString(generic(props))
	}
	return b.String()
}

func scalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	}
	return fmt.Sprint(v)
}

// generic stringifies values without a dedicated rendering.
func generic(v interface{}) string {
	if s := marshal(v); s != "" {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// marshal encodes v as compact JSON with sorted keys and no HTML escaping,
// or returns "" when v cannot be encoded.
func marshal(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
