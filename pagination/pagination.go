// Package pagination builds HAL collection resources that are split into pages, with "next" and
// "prev" links whose hrefs carry opaque cursors.
package pagination

import (
	"encoding/base64"
	"net/url"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"

	"github.com/ccbrown/hal-fu/hal"
)

// PageInfo represents the information for the current page of results.
type PageInfo[C Cursor[C]] struct {
	HasPreviousPage bool
	HasNextPage     bool
	StartCursor     *C
	EndCursor       *C
}

// Cursor orders the items of a collection. Cursors are serialized with MessagePack, so they should
// be made of exported fields.
type Cursor[T any] interface {
	LessThan(T) bool
}

// Item is a member of a paginated collection.
type Item[C Cursor[C]] interface {
	hal.Marshaler
	Cursor() C
}

// Params selects a page. They correspond to the "after", "before", "first", and "last" query
// parameters.
type Params[C Cursor[C]] struct {
	After  *C
	Before *C
	First  *int
	Last   *int
}

// Returns a new slice containing only the items that are within the range specified by the given cursors.
func ApplyCursorsToItems[I Item[C], C Cursor[C]](items []I, after, before *C) (filtered []I, hadItemsBeforeAfter, hadItemsAfterBefore bool) {
	if after == nil && before == nil {
		filtered = append([]I(nil), items...)
	} else {
		for _, item := range items {
			c := item.Cursor()
			if before != nil && !c.LessThan(*before) {
				hadItemsAfterBefore = true
				continue
			}
			if after != nil && !(*after).LessThan(c) {
				hadItemsBeforeAfter = true
				continue
			}
			filtered = append(filtered, item)
		}
	}

	return filtered, hadItemsBeforeAfter, hadItemsAfterBefore
}

// Returns the page of items that should be returned for the given pagination parameters. Negative
// counts are treated as zero.
func ItemsToReturn[I Item[C], C Cursor[C]](items []I, params Params[C]) ([]I, PageInfo[C]) {
	var pageInfo PageInfo[C]
	items, pageInfo.HasPreviousPage, pageInfo.HasNextPage = ApplyCursorsToItems(items, params.After, params.Before)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Cursor().LessThan(items[j].Cursor())
	})

	if params.First != nil {
		if first := nonNegative(*params.First); len(items) > first {
			items = items[:first]
			pageInfo.HasNextPage = true
		} else {
			pageInfo.HasNextPage = false
		}
	}

	if params.Last != nil {
		if last := nonNegative(*params.Last); len(items) > last {
			items = items[len(items)-last:]
			pageInfo.HasPreviousPage = true
		} else {
			pageInfo.HasPreviousPage = false
		}
	}

	if len(items) > 0 {
		startCursor := items[0].Cursor()
		pageInfo.StartCursor = &startCursor
		endCursor := items[len(items)-1].Cursor()
		pageInfo.EndCursor = &endCursor
	}

	return items, pageInfo
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// Collection describes a paginated collection resource.
type Collection struct {
	// The href of the collection without any pagination parameters, e.g. "/orders". It may have
	// other query parameters, which are preserved.
	Href string

	// The relation that items are embedded under, e.g. "ea:order".
	Rel string

	// The page size to use when neither First nor Last is given. If zero, such requests get every
	// item.
	DefaultPageSize int
}

// Page selects a page of items and builds the collection resource for it. The resource has a
// "self" link, "next" and "prev" links when there are more items in either direction, a "count"
// state field, and the page's items embedded under the collection's relation.
func Page[I Item[C], C Cursor[C]](collection Collection, items []I, params Params[C]) (*hal.Resource, error) {
	if (params.First != nil && *params.First < 0) || (params.Last != nil && *params.Last < 0) {
		return nil, errors.New("first and last must be non-negative")
	}
	if params.First == nil && params.Last == nil && collection.DefaultPageSize > 0 {
		first := collection.DefaultPageSize
		params.First = &first
	}

	page, pageInfo := ItemsToReturn(items, params)

	self, err := Href(collection, params)
	if err != nil {
		return nil, err
	}

	ret := hal.NewResourceWithSelf(self).AddState("count", len(page))

	pageSize := len(page)
	if params.First != nil {
		pageSize = *params.First
	} else if params.Last != nil {
		pageSize = *params.Last
	}

	if pageInfo.HasNextPage && pageInfo.EndCursor != nil {
		next, err := Href(collection, Params[C]{After: pageInfo.EndCursor, First: &pageSize})
		if err != nil {
			return nil, err
		}
		ret.AddLink("next", hal.NewLink(next))
	}

	if pageInfo.HasPreviousPage && pageInfo.StartCursor != nil {
		prev, err := Href(collection, Params[C]{Before: pageInfo.StartCursor, Last: &pageSize})
		if err != nil {
			return nil, err
		}
		ret.AddLink("prev", hal.NewLink(prev))
	}

	for _, item := range page {
		ret.Embed(collection.Rel, item)
	}

	return ret, nil
}

// Href returns the href of the page selected by params.
func Href[C Cursor[C]](collection Collection, params Params[C]) (string, error) {
	u, err := url.Parse(collection.Href)
	if err != nil {
		return "", errors.Wrap(err, "invalid collection href")
	}

	query := u.Query()
	for _, k := range []string{"after", "before", "first", "last"} {
		query.Del(k)
	}
	if params.After != nil {
		cursor, err := SerializeCursor(*params.After)
		if err != nil {
			return "", err
		}
		query.Set("after", cursor)
	}
	if params.Before != nil {
		cursor, err := SerializeCursor(*params.Before)
		if err != nil {
			return "", err
		}
		query.Set("before", cursor)
	}
	if params.First != nil {
		query.Set("first", strconv.Itoa(*params.First))
	}
	if params.Last != nil {
		query.Set("last", strconv.Itoa(*params.Last))
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// ParseQuery reads pagination parameters from a query string such as the one in a "next" link's
// href.
func ParseQuery[C Cursor[C]](query url.Values) (Params[C], error) {
	var ret Params[C]
	for _, p := range []struct {
		Key    string
		Cursor **C
		Count  **int
	}{
		{Key: "after", Cursor: &ret.After},
		{Key: "before", Cursor: &ret.Before},
		{Key: "first", Count: &ret.First},
		{Key: "last", Count: &ret.Last},
	} {
		s := query.Get(p.Key)
		if s == "" {
			continue
		}
		if p.Cursor != nil {
			cursor, err := DeserializeCursor[C](s)
			if err != nil {
				return ret, errors.Wrapf(err, "invalid %v cursor", p.Key)
			}
			*p.Cursor = &cursor
		} else {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return ret, errors.Errorf("%v must be a non-negative integer", p.Key)
			}
			*p.Count = &n
		}
	}
	return ret, nil
}

// SerializeCursor encodes a cursor as an opaque, URL-safe string.
func SerializeCursor(cursor any) (string, error) {
	b, err := msgpack.Marshal(cursor)
	if err != nil {
		return "", errors.Wrap(err, "unable to serialize cursor")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DeserializeCursor decodes a cursor produced by SerializeCursor.
func DeserializeCursor[C any](s string) (C, error) {
	var ret C
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return ret, errors.Wrap(err, "malformed cursor")
	}
	if err := msgpack.Unmarshal(b, &ret); err != nil {
		return ret, errors.Wrap(err, "malformed cursor")
	}
	return ret, nil
}
