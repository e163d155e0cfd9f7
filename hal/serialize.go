package hal

import (
	"github.com/pkg/errors"

	"github.com/ccbrown/hal-fu/jsontree"
)

// ToGenericJSON converts the resource into a JSON object:
//
//   - State fields become members of the object.
//   - Links are collected under "_links", keyed by relation. A relation with exactly one link is
//     serialized as a single link object, except for "curies", which is always an array. Other
//     relations are arrays in the order the links were added.
//   - Embedded resources are collected under "_embedded" using the same rule, without the
//     "curies" exception.
//   - "_links" and "_embedded" are omitted when there's nothing to put in them. If they're present,
//     they take precedence over state fields of the same name.
//
// All object keys, at every level, are in lexicographic order.
func (r *Resource) ToGenericJSON() *jsontree.Object {
	ret := jsontree.NewObjectWithCapacity(len(r.state) + 2)

	for k, v := range r.state {
		ret.Set(k, ValueToGenericJSON(v))
	}

	if len(r.links) > 0 {
		links := jsontree.NewObjectWithCapacity(len(r.links))
		for rel, relLinks := range r.links {
			if len(relLinks) == 1 && rel != CuriesRelation {
				links.Set(rel, relLinks[0].ToGenericJSON())
			} else {
				arr := make([]any, len(relLinks))
				for i, link := range relLinks {
					arr[i] = link.ToGenericJSON()
				}
				links.Set(rel, arr)
			}
		}
		ret.Set(LinksKey, links)
	}

	if len(r.embedded) > 0 {
		embedded := jsontree.NewObjectWithCapacity(len(r.embedded))
		for rel, resources := range r.embedded {
			if len(resources) == 1 {
				embedded.Set(rel, resources[0].ToGenericJSON())
			} else {
				arr := make([]any, len(resources))
				for i, resource := range resources {
					arr[i] = resource.ToGenericJSON()
				}
				embedded.Set(rel, arr)
			}
		}
		ret.Set(EmbeddedKey, embedded)
	}

	return ret
}

// ResourceFromGenericJSON reconstructs a resource from a JSON object such as one produced by
// ToGenericJSON. It accepts *jsontree.Object as well as the map types produced by standard
// decoders.
//
// "_links" members may be either single link objects or arrays of them. The same goes for
// "_embedded" members, which are reconstructed recursively. Every other member becomes state.
//
// Since a single link can't be distinguished from an array of one, only the links' order and
// content survive a round trip, not their original form. Returned errors are *Error values wrapped
// with the location of the problem, e.g. "_links.next[1]: ...".
func ResourceFromGenericJSON(v any) (*Resource, error) {
	obj, ok := jsontree.AsObject(v)
	if !ok {
		return nil, typeMismatch("", "resource object", v)
	}

	ret := NewResource()
	for _, item := range obj.Items() {
		switch item.Key {
		case LinksKey:
			if err := forEachRelationEntry(item.Value, LinksKey, func(rel string, entry any) error {
				link, err := LinkFromGenericJSON(entry)
				if err != nil {
					return err
				}
				ret.AddLink(rel, link)
				return nil
			}); err != nil {
				return nil, err
			}
		case EmbeddedKey:
			if err := forEachRelationEntry(item.Value, EmbeddedKey, func(rel string, entry any) error {
				resource, err := ResourceFromGenericJSON(entry)
				if err != nil {
					return err
				}
				ret.addOwnedResource(rel, resource)
				return nil
			}); err != nil {
				return nil, err
			}
		default:
			if err := ret.SetState(item.Key, item.Value); err != nil {
				return nil, err
			}
		}
	}
	return ret, nil
}

// forEachRelationEntry invokes f for every entry of a "_links" or "_embedded" object, where each
// relation maps to either a single object or an array of them.
func forEachRelationEntry(v any, key string, f func(rel string, entry any) error) error {
	rels, ok := jsontree.AsObject(v)
	if !ok {
		return typeMismatch(key, "object", v)
	}
	for _, rel := range rels.Items() {
		if entries, ok := jsontree.AsArray(rel.Value); ok {
			for i, entry := range entries {
				if err := f(rel.Key, entry); err != nil {
					return errors.Wrapf(err, "%v.%v[%v]", key, rel.Key, i)
				}
			}
		} else if err := f(rel.Key, rel.Value); err != nil {
			return errors.Wrapf(err, "%v.%v", key, rel.Key)
		}
	}
	return nil
}

// addOwnedResource embeds a resource without copying it. The caller must not retain it.
func (r *Resource) addOwnedResource(rel string, resource *Resource) {
	if r.embedded == nil {
		r.embedded = map[string][]*Resource{}
	}
	r.embedded[rel] = append(r.embedded[rel], resource)
}

func (r *Resource) MarshalJSON() ([]byte, error) {
	return r.ToGenericJSON().MarshalJSON()
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	v, err := jsontree.Decode(data)
	if err != nil {
		return err
	}
	resource, err := ResourceFromGenericJSON(v)
	if err != nil {
		return err
	}
	*r = *resource
	return nil
}
