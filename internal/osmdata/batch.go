// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package osmdata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/paulmach/osm"
)

// Generator is written to the osmChange document and the created_by changeset tag
const Generator = "austria-address-helper"

var (
	// ErrEmptyBatch is returned when committing a batch without changes
	ErrEmptyBatch = errors.New("batch contains no changes")
	// ErrCommitted is returned when a batch is modified or committed twice
	ErrCommitted = errors.New("batch was already committed")
	// ErrNotCommitted is returned when undoing a batch that was not committed
	ErrNotCommitted = errors.New("batch was not committed")
)

// Batch collects tag changes for several primitives and applies them as one unit that
// can be undone.
type Batch struct {
	changes       []change
	changesetTags map[string]string
	committed     bool
}

type change struct {
	primitive *Primitive
	set       map[string]string
	remove    []string
	previous  osm.Tags
}

// Result is a committed batch, ready to be uploaded
type Result struct {
	Change    *osm.Change
	Changeset *osm.Changeset
}

func NewBatch() *Batch {
	return &Batch{changesetTags: make(map[string]string)}
}

// Add queues the removal of the keys in remove and the setting of set on p
func (b *Batch) Add(p *Primitive, set map[string]string, remove []string) error {
	if b.committed {
		return ErrCommitted
	}
	b.changes = append(b.changes, change{primitive: p, set: set, remove: remove})
	return nil
}

// SetChangesetTag sets a tag on the changeset rather than on the objects
func (b *Batch) SetChangesetTag(key, value string) {
	b.changesetTags[key] = value
}

// Len returns the number of queued changes
func (b *Batch) Len() int {
	return len(b.changes)
}

// Commit applies all queued changes and returns the osmChange and the changeset. The
// label is used as changeset comment.
func (b *Batch) Commit(label string) (Result, error) {
	if b.committed {
		return Result{}, ErrCommitted
	}
	if len(b.changes) == 0 {
		return Result{}, ErrEmptyBatch
	}

	modified := new(osm.OSM)
	for i := range b.changes {
		c := &b.changes[i]
		c.previous = append(osm.Tags(nil), *c.primitive.tags...)
		tags := removeTags(*c.primitive.tags, c.remove)
		tags = setTags(tags, c.set)
		*c.primitive.tags = tags

		switch obj := c.primitive.object.(type) {
		case *osm.Node:
			modified.Nodes = append(modified.Nodes, obj)
		case *osm.Way:
			modified.Ways = append(modified.Ways, obj)
		case *osm.Relation:
			modified.Relations = append(modified.Relations, obj)
		}
	}
	b.committed = true

	csTags := osm.Tags{{Key: "comment", Value: label}, {Key: "created_by", Value: Generator}}
	for k, v := range b.changesetTags {
		csTags = append(csTags, osm.Tag{Key: k, Value: v})
	}
	csTags.SortByKeyValue()

	return Result{
		Change: &osm.Change{
			Version:   "0.6",
			Generator: Generator,
			Modify:    modified,
		},
		Changeset: &osm.Changeset{Tags: csTags},
	}, nil
}

// Undo restores the tags of all primitives of a committed batch
func (b *Batch) Undo() error {
	if !b.committed {
		return ErrNotCommitted
	}
	for i := len(b.changes) - 1; i >= 0; i-- {
		c := b.changes[i]
		*c.primitive.tags = c.previous
	}
	b.committed = false
	return nil
}

// Len returns the number of modified objects of the result
func (r Result) Len() int {
	if r.Change == nil || r.Change.Modify == nil {
		return 0
	}
	return len(r.Change.Modify.Nodes) + len(r.Change.Modify.Ways) + len(r.Change.Modify.Relations)
}

// Merge combines committed results into one change. An object modified by several results
// is listed once with its final tags. Changeset tags are merged, later results win, and
// the comment is replaced by label called with the number of modified objects.
func Merge(label func(n int) string, results ...Result) (Result, error) {
	modified := new(osm.OSM)
	seen := make(map[osm.Object]struct{})
	csTags := make(map[string]string)
	for _, r := range results {
		if r.Change == nil || r.Change.Modify == nil {
			continue
		}
		for _, n := range r.Change.Modify.Nodes {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				modified.Nodes = append(modified.Nodes, n)
			}
		}
		for _, w := range r.Change.Modify.Ways {
			if _, ok := seen[w]; !ok {
				seen[w] = struct{}{}
				modified.Ways = append(modified.Ways, w)
			}
		}
		for _, rel := range r.Change.Modify.Relations {
			if _, ok := seen[rel]; !ok {
				seen[rel] = struct{}{}
				modified.Relations = append(modified.Relations, rel)
			}
		}
		if r.Changeset != nil {
			for _, tag := range r.Changeset.Tags {
				csTags[tag.Key] = tag.Value
			}
		}
	}
	if len(seen) == 0 {
		return Result{}, ErrEmptyBatch
	}

	csTags["comment"] = label(len(seen))
	tags := make(osm.Tags, 0, len(csTags))
	for k, v := range csTags {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	tags.SortByKeyValue()

	return Result{
		Change: &osm.Change{
			Version:   "0.6",
			Generator: Generator,
			Modify:    modified,
		},
		Changeset: &osm.Changeset{Tags: tags},
	}, nil
}

// WriteChange writes the osmChange XML document of the result to w
func (r Result) WriteChange(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(r.Change); err != nil {
		return fmt.Errorf("failed to encode osmChange: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func removeTags(tags osm.Tags, keys []string) osm.Tags {
	if len(keys) == 0 {
		return tags
	}
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		drop[k] = struct{}{}
	}
	result := tags[:0]
	for _, t := range tags {
		if _, ok := drop[t.Key]; !ok {
			result = append(result, t)
		}
	}
	return result
}

func setTags(tags osm.Tags, set map[string]string) osm.Tags {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		replaced := false
		for i := range tags {
			if tags[i].Key == k {
				tags[i].Value = set[k]
				replaced = true
				break
			}
		}
		if !replaced {
			tags = append(tags, osm.Tag{Key: k, Value: set[k]})
		}
	}
	return tags
}
