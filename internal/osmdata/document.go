// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package osmdata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/osm"

	"github.com/wneessen/austria-address-helper/internal/geo"
)

var (
	// ErrSelectionCount is returned if not exactly one object is selected
	ErrSelectionCount = errors.New("exactly one object must be selected")
	// ErrNotFound is returned if a selected object is not part of the document
	ErrNotFound = errors.New("object not found in document")
)

// Ref references an OSM object by type and ID, e.g. "way/1234"
type Ref struct {
	Type osm.Type
	ID   int64
}

// ParseRef parses "node/1", "way/2" or "relation/3". The short forms "n1", "w2" and "r3"
// are accepted as well.
func ParseRef(val string) (Ref, error) {
	val = strings.TrimSpace(strings.ToLower(val))
	typ, id, found := strings.Cut(val, "/")
	if !found && len(val) > 1 {
		typ, id = val[:1], val[1:]
	}

	var ref Ref
	switch typ {
	case "n", "node":
		ref.Type = osm.TypeNode
	case "w", "way":
		ref.Type = osm.TypeWay
	case "r", "relation":
		ref.Type = osm.TypeRelation
	default:
		return ref, fmt.Errorf("invalid object type in reference %q", val)
	}
	num, err := strconv.ParseInt(id, 10, 64)
	if err != nil || num <= 0 {
		return ref, fmt.Errorf("invalid object ID in reference %q", val)
	}
	ref.ID = num
	return ref, nil
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%d", r.Type, r.ID)
}

// Document is an OSM XML document with lookup tables for its objects
type Document struct {
	data      *osm.OSM
	nodes     map[osm.NodeID]*osm.Node
	ways      map[osm.WayID]*osm.Way
	relations map[osm.RelationID]*osm.Relation
}

// Load reads an OSM XML document
func Load(r io.Reader) (*Document, error) {
	data := new(osm.OSM)
	if err := xml.NewDecoder(r).Decode(data); err != nil {
		return nil, fmt.Errorf("failed to decode OSM XML: %w", err)
	}

	doc := &Document{
		data:      data,
		nodes:     make(map[osm.NodeID]*osm.Node, len(data.Nodes)),
		ways:      make(map[osm.WayID]*osm.Way, len(data.Ways)),
		relations: make(map[osm.RelationID]*osm.Relation, len(data.Relations)),
	}
	for _, n := range data.Nodes {
		doc.nodes[n.ID] = n
	}
	for _, w := range data.Ways {
		doc.ways[w.ID] = w
	}
	for _, r := range data.Relations {
		doc.relations[r.ID] = r
	}
	return doc, nil
}

// LoadFile reads the OSM XML document at path
func LoadFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OSM file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return Load(file)
}

// Select returns the primitive for the single given reference. Any other number of
// references is rejected with ErrSelectionCount.
func (d *Document) Select(refs ...Ref) (*Primitive, error) {
	if len(refs) != 1 {
		return nil, fmt.Errorf("%w: got %d", ErrSelectionCount, len(refs))
	}
	return d.Primitive(refs[0])
}

// Primitive returns the primitive for ref including its center coordinate
func (d *Document) Primitive(ref Ref) (*Primitive, error) {
	var (
		center geo.Coordinate
		object osm.Object
		tags   *osm.Tags
		err    error
	)
	switch ref.Type {
	case osm.TypeNode:
		node, ok := d.nodes[osm.NodeID(ref.ID)]
		if !ok {
			return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		center, err = geo.NodeCenter(node)
		object, tags = node, &node.Tags
	case osm.TypeWay:
		way, ok := d.ways[osm.WayID(ref.ID)]
		if !ok {
			return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		center, err = geo.WayCenter(way, d.node)
		object, tags = way, &way.Tags
	case osm.TypeRelation:
		rel, ok := d.relations[osm.RelationID(ref.ID)]
		if !ok {
			return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
		}
		center, err = geo.RelationCenter(rel, d.node, d.way)
		object, tags = rel, &rel.Tags
	default:
		return nil, fmt.Errorf("unsupported object type: %s", ref.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to determine center of %s: %w", ref, err)
	}

	return &Primitive{Ref: ref, Center: center, object: object, tags: tags}, nil
}

func (d *Document) node(id osm.NodeID) (*osm.Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

func (d *Document) way(id osm.WayID) (*osm.Way, bool) {
	w, ok := d.ways[id]
	return w, ok
}

// Primitive is a selected OSM object
type Primitive struct {
	Ref    Ref
	Center geo.Coordinate

	object osm.Object
	tags   *osm.Tags
}

// Tags returns a copy of the current tags of the primitive
func (p *Primitive) Tags() map[string]string {
	return p.tags.Map()
}
