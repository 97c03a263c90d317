package keymap

import (
	"slices"
	"strings"
)

// Resolver maps key presses to actions and back.
type Resolver struct {
	byKey    map[string]Action
	byAction map[Action][]string
}

// NewResolver indexes bindings. A key bound twice resolves to the later
// binding; keys are listed once per action, in binding order.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		byKey:    make(map[string]Action),
		byAction: make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			r.byKey[key] = b.Action
			if !slices.Contains(r.byAction[b.Action], key) {
				r.byAction[b.Action] = append(r.byAction[b.Action], key)
			}
		}
	}
	return r
}

// Resolve returns the action bound to key, or "" if none.
func (r *Resolver) Resolve(key string) Action {
	return r.byKey[key]
}

// KeysFor returns the keys bound to action.
func (r *Resolver) KeysFor(action Action) []string {
	return slices.Clone(r.byAction[action])
}

// Primary returns the display label of the first key bound to action.
func (r *Resolver) Primary(action Action) string {
	keys := r.byAction[action]
	if len(keys) == 0 {
		return ""
	}
	return Label(keys[:1])
}

// Label joins keys for display, naming the space bar.
func Label(keys []string) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		out[i] = k
	}
	return strings.Join(out, ", ")
}
