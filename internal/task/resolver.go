package task

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// TrackRef locates a playable resource: a file path or an http(s) URL.
type TrackRef string

// IsRemote reports whether the reference must be fetched over the network.
func (r TrackRef) IsRemote() bool {
	u, err := url.Parse(string(r))
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Ext returns the lower-cased file extension of the reference, ignoring any
// URL query string.
func (r TrackRef) Ext() string {
	p := string(r)
	if r.IsRemote() {
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		}
	}
	return strings.ToLower(filepath.Ext(p))
}

// Resolver maps tasks to track references. It is immutable once built.
type Resolver struct {
	refs map[Task]TrackRef
}

// NewResolver builds a resolver from the catalog defaults. Relative default
// tracks are resolved against baseDir; overrides replace individual entries
// verbatim.
func NewResolver(baseDir string, overrides map[Task]TrackRef) *Resolver {
	refs := make(map[Task]TrackRef, len(All))
	for _, t := range All {
		ref := Lookup(t).Track
		if !ref.IsRemote() && baseDir != "" && !filepath.IsAbs(string(ref)) {
			ref = TrackRef(filepath.Join(baseDir, string(ref)))
		}
		refs[t] = ref
	}
	for t, ref := range overrides {
		if t.Valid() && ref != "" {
			refs[t] = ref
		}
	}
	return &Resolver{refs: refs}
}

// Resolve returns the track for t. Every enumerated task has a track, so the
// only failure is a task outside the enumeration, which panics.
func (r *Resolver) Resolve(t Task) TrackRef {
	ref, ok := r.refs[t]
	if !ok {
		panic(fmt.Sprintf("task: resolve %s: not a selectable task", t))
	}
	return ref
}

// Tasks returns the selectable tasks in display order.
func (r *Resolver) Tasks() []Task {
	out := make([]Task, len(All))
	copy(out, All)
	return out
}
