package graph

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/teranos/resultviz/errors"
	grapherr "github.com/teranos/resultviz/graph/error"
)

// Input is the visualization payload as produced by the query backend:
// nodes are property mappings carrying a selected flag, links reference
// nodes by position.
type Input struct {
	Nodes []map[string]interface{} `json:"nodes"`
	Links []map[string]interface{} `json:"links"`
}

// Decode parses a visualization payload and builds a validated Graph.
func Decode(data []byte) (*Graph, error) {
	var in Input
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&in); err != nil {
		return nil, grapherr.New(
			grapherr.CategoryParse,
			errors.Wrap(err, "failed to decode visualization payload"),
			"",
		).WithSubcategory(grapherr.SubcategoryParseInvalidJSON)
	}
	return Build(in)
}

// Build converts a decoded payload into a Graph. This is the accept boundary:
// shape errors and out-of-range link endpoints are rejected here.
func Build(in Input) (*Graph, error) {
	g := &Graph{
		Nodes:   make([]Node, 0, len(in.Nodes)),
		Links:   make([]Link, 0, len(in.Links)),
		Version: nextVersion(),
	}

	for i, raw := range in.Nodes {
		g.Nodes = append(g.Nodes, buildNode(i, raw))
	}

	for i, raw := range in.Links {
		link, err := buildLink(raw)
		if err != nil {
			return nil, grapherr.New(grapherr.CategoryParse, err, "").
				WithSubcategory(grapherr.SubcategoryParseInvalidShape).
				WithContext("link", i)
		}
		g.Links = append(g.Links, link)
	}

	if err := Validate(g); err != nil {
		return nil, grapherr.New(grapherr.CategoryGraph, err, "").
			WithSubcategory(grapherr.SubcategoryGraphValidate).
			WithContext("nodes", len(g.Nodes)).
			WithContext("links", len(g.Links))
	}

	return g, nil
}

func buildNode(index int, raw map[string]interface{}) Node {
	node := Node{
		ID:         strconv.Itoa(index),
		Properties: make(map[string]interface{}, len(raw)),
		Index:      index,
	}

	for key, value := range raw {
		switch key {
		case fieldSelected:
			node.Selected, node.SelectedBy = selection(value)
		default:
			node.Properties[key] = value
		}
	}

	if id, ok := raw[fieldID]; ok && id != nil {
		node.ID = scalarString(id)
	}

	// A payload may carry positions from a previous layout
	x, okX := toFloat(raw[fieldX])
	y, okY := toFloat(raw[fieldY])
	if okX && okY {
		node.Position = &Point{X: x, Y: y}
	}

	return node
}

func buildLink(raw map[string]interface{}) (Link, error) {
	link := Link{Weight: defaultLinkWeight}

	source, ok := toInt(raw[fieldSource])
	if !ok {
		return link, errors.Newf("link source %v is not an integer node index", raw[fieldSource])
	}
	target, ok := toInt(raw[fieldTarget])
	if !ok {
		return link, errors.Newf("link target %v is not an integer node index", raw[fieldTarget])
	}
	link.Source, link.Target = source, target

	if t, ok := raw[fieldType].(string); ok {
		link.Type = t
	}
	link.Selected, _ = selection(raw[fieldSelected])

	if w, present := raw[fieldWeight]; present && w != nil {
		weight, ok := toFloat(w)
		if !ok || weight <= 0 {
			return link, errors.Newf("link weight %v must be a positive number", w)
		}
		link.Weight = weight
	}

	for key, value := range raw {
		switch key {
		case fieldSource, fieldTarget, fieldType, fieldSelected, fieldWeight:
		default:
			if link.Properties == nil {
				link.Properties = make(map[string]interface{})
			}
			link.Properties[key] = value
		}
	}

	return link, nil
}

// selection interprets a selected flag. The backend marks entities either
// with a boolean or with the name of the result column that returned them.
func selection(value interface{}) (bool, string) {
	switch v := value.(type) {
	case bool:
		return v, ""
	case string:
		return v != "", v
	default:
		return false, ""
	}
}

func toFloat(value interface{}) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		i, err := strconv.Atoi(v.String())
		return i, err == nil
	}
	f, ok := toFloat(value)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func scalarString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
