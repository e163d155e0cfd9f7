package hal

import (
	"sort"

	"github.com/pkg/errors"
)

const (
	// The reserved member containing a resource's links.
	LinksKey = "_links"

	// The reserved member containing a resource's embedded resources.
	EmbeddedKey = "_embedded"

	// The relation reserved for CURIEs. Its links are always serialized as an array.
	CuriesRelation = "curies"

	// The relation conventionally used to link to the resource itself.
	SelfRelation = "self"
)

// Marshaler is implemented by types that can represent themselves as a HAL resource.
type Marshaler interface {
	MarshalHAL() *Resource
}

// A Resource is a node in a HAL document. It has state, links, and embedded resources.
//
// The Add methods modify the resource in place and return it, so they can be chained:
//
//	hal.NewResourceWithSelf("/orders").
//		AddLink("next", hal.NewLink("/orders?page=2")).
//		AddState("currentlyProcessing", 14)
//
// A resource owns everything attached to it. Embedded resources are copied when they're added, so
// modifying a resource after embedding it doesn't affect the parent, and a resource can never
// contain itself.
//
// The zero value is an empty resource ready to use.
type Resource struct {
	state    map[string]Value
	links    map[string][]Link
	embedded map[string][]*Resource
}

// NewResource creates an empty resource.
func NewResource() *Resource {
	return &Resource{}
}

// NewResourceWithSelf creates a resource with a "self" link to the given URI.
func NewResourceWithSelf(href string) *Resource {
	return NewResource().AddLink(SelfRelation, NewLink(href))
}

// AddState sets a state field, replacing any previous value for the key. The value is converted
// using ValueOf.
//
// AddState panics if the value can't be converted. Use SetState if the value isn't known to be
// convertible.
func (r *Resource) AddState(key string, value any) *Resource {
	if err := r.SetState(key, value); err != nil {
		panic(err)
	}
	return r
}

// SetState is like AddState, but returns an error instead of panicking if the value can't be
// converted. The resource is left unmodified in that case.
func (r *Resource) SetState(key string, value any) error {
	v, err := ValueOf(value)
	if err != nil {
		return errors.Wrap(err, key)
	}
	if r.state == nil {
		r.state = map[string]Value{}
	}
	r.state[key] = v
	return nil
}

// AddLink appends a link to the given relation. Links aren't deduplicated.
func (r *Resource) AddLink(rel string, link Link) *Resource {
	if r.links == nil {
		r.links = map[string][]Link{}
	}
	r.links[rel] = append(r.links[rel], link)
	return r
}

// SetLink replaces every link of the given relation with link.
func (r *Resource) SetLink(rel string, link Link) *Resource {
	if r.links == nil {
		r.links = map[string][]Link{}
	}
	r.links[rel] = []Link{link}
	return r
}

// AddCurie adds a templated link named name to the reserved "curies" relation.
func (r *Resource) AddCurie(name, href string) *Resource {
	return r.AddLink(CuriesRelation, NewLink(href).WithTemplated(true).WithName(name))
}

// AddResource embeds a copy of the given resource under the given relation. A nil resource is
// embedded as an empty one.
func (r *Resource) AddResource(rel string, resource *Resource) *Resource {
	if r.embedded == nil {
		r.embedded = map[string][]*Resource{}
	}
	r.embedded[rel] = append(r.embedded[rel], resource.Clone())
	return r
}

// Embed embeds the resource representation of m under the given relation.
func (r *Resource) Embed(rel string, m Marshaler) *Resource {
	return r.AddResource(rel, m.MarshalHAL())
}

// MarshalHAL makes resources usable wherever a Marshaler is accepted.
func (r *Resource) MarshalHAL() *Resource {
	return r
}

// State returns the value of the given state field.
func (r *Resource) State(key string) (Value, bool) {
	v, ok := r.state[key]
	return v, ok
}

// Links returns the links for the given relation in the order they were added.
func (r *Resource) Links(rel string) []Link {
	return append([]Link(nil), r.links[rel]...)
}

// Embedded returns the resources embedded under the given relation in the order they were added.
// The returned resources are owned by r and shouldn't be modified.
func (r *Resource) Embedded(rel string) []*Resource {
	return append([]*Resource(nil), r.embedded[rel]...)
}

// StateKeys returns the keys of the resource's state in sorted order.
func (r *Resource) StateKeys() []string {
	return sortedKeys(r.state)
}

// LinkRels returns the relations that have links in sorted order.
func (r *Resource) LinkRels() []string {
	return sortedKeys(r.links)
}

// EmbeddedRels returns the relations that have embedded resources in sorted order.
func (r *Resource) EmbeddedRels() []string {
	return sortedKeys(r.embedded)
}

func sortedKeys[T any](m map[string]T) []string {
	ret := make([]string, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Clone returns a deep copy of the resource.
func (r *Resource) Clone() *Resource {
	ret := &Resource{}
	if r == nil {
		return ret
	}
	if len(r.state) > 0 {
		// Values are immutable, so they can be shared.
		ret.state = make(map[string]Value, len(r.state))
		for k, v := range r.state {
			ret.state[k] = v
		}
	}
	if len(r.links) > 0 {
		ret.links = make(map[string][]Link, len(r.links))
		for rel, links := range r.links {
			ret.links[rel] = append([]Link(nil), links...)
		}
	}
	if len(r.embedded) > 0 {
		ret.embedded = make(map[string][]*Resource, len(r.embedded))
		for rel, resources := range r.embedded {
			clones := make([]*Resource, len(resources))
			for i, resource := range resources {
				clones[i] = resource.Clone()
			}
			ret.embedded[rel] = clones
		}
	}
	return ret
}

// Equal reports whether both resources have structurally equal state, links, and embedded
// resources.
func (r *Resource) Equal(other *Resource) bool {
	if r == nil {
		r = &Resource{}
	}
	if other == nil {
		other = &Resource{}
	}
	if len(r.state) != len(other.state) || len(r.links) != len(other.links) || len(r.embedded) != len(other.embedded) {
		return false
	}
	for k, v := range r.state {
		if ov, ok := other.state[k]; !ok || !EqualValues(v, ov) {
			return false
		}
	}
	for rel, links := range r.links {
		otherLinks := other.links[rel]
		if len(links) != len(otherLinks) {
			return false
		}
		for i := range links {
			if !links[i].Equal(otherLinks[i]) {
				return false
			}
		}
	}
	for rel, resources := range r.embedded {
		otherResources := other.embedded[rel]
		if len(resources) != len(otherResources) {
			return false
		}
		for i := range resources {
			if !resources[i].Equal(otherResources[i]) {
				return false
			}
		}
	}
	return true
}
