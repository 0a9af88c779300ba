// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geo

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// ErrNoLocation is returned if a primitive has no node with a known location
var ErrNoLocation = errors.New("primitive has no known location")

// NodeLookup resolves a node ID to a node. Way nodes in OSM XML only carry a reference,
// so their locations have to be looked up in the document.
type NodeLookup func(id osm.NodeID) (*osm.Node, bool)

// WayLookup resolves a way ID to a way. It is used for relation members.
type WayLookup func(id osm.WayID) (*osm.Way, bool)

// NodeCenter returns the location of a node
func NodeCenter(node *osm.Node) (Coordinate, error) {
	if node == nil {
		return Coordinate{}, ErrNoLocation
	}
	return Coordinate{Lat: node.Lat, Lon: node.Lon}, nil
}

// WayCenter returns the center of the bounding box of all nodes of a way
func WayCenter(way *osm.Way, nodes NodeLookup) (Coordinate, error) {
	bound, ok := wayBound(way, nodes)
	if !ok {
		return Coordinate{}, fmt.Errorf("way %d: %w", way.ID, ErrNoLocation)
	}
	return FromPoint(bound.Center()), nil
}

// RelationCenter returns the center of the bounding box of the node and way members of a
// relation. Nested relations are not followed.
func RelationCenter(rel *osm.Relation, nodes NodeLookup, ways WayLookup) (Coordinate, error) {
	var bound orb.Bound
	found := false
	extend := func(b orb.Bound) {
		if !found {
			bound, found = b, true
			return
		}
		bound = bound.Union(b)
	}

	for _, member := range rel.Members {
		switch member.Type {
		case osm.TypeNode:
			if member.Lat != 0 || member.Lon != 0 {
				p := orb.Point{member.Lon, member.Lat}
				extend(orb.Bound{Min: p, Max: p})
				continue
			}
			if node, ok := nodes(osm.NodeID(member.Ref)); ok {
				p := node.Point()
				extend(orb.Bound{Min: p, Max: p})
			}
		case osm.TypeWay:
			way, ok := ways(osm.WayID(member.Ref))
			if !ok {
				continue
			}
			if b, ok := wayBound(way, nodes); ok {
				extend(b)
			}
		}
	}
	if !found {
		return Coordinate{}, fmt.Errorf("relation %d: %w", rel.ID, ErrNoLocation)
	}
	return FromPoint(bound.Center()), nil
}

func wayBound(way *osm.Way, nodes NodeLookup) (orb.Bound, bool) {
	var bound orb.Bound
	found := false
	for _, wn := range way.Nodes {
		p := orb.Point{wn.Lon, wn.Lat}
		if wn.Lat == 0 && wn.Lon == 0 {
			node, ok := nodes(wn.ID)
			if !ok {
				continue
			}
			p = node.Point()
		}
		if !found {
			bound, found = orb.Bound{Min: p, Max: p}, true
			continue
		}
		bound = bound.Extend(p)
	}
	return bound, found
}
