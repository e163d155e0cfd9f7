package hal

import (
	"github.com/ccbrown/hal-fu/jsontree"
)

// A Link is a link object: a hyperlink to a target resource along with optional attributes that
// describe it.
//
// Links are immutable. The With methods return a modified copy, so they can be chained:
//
//	hal.NewLink("/orders{?id}").WithTemplated(true).WithTitle("Find an order")
//
// Attributes that have never been set are omitted when the link is serialized.
type Link struct {
	href string

	templated   *bool
	mediaType   *string
	deprecation *string
	name        *string
	profile     *string
	title       *string
	hreflang    *string
}

// The serialized names of the string attributes. The media type is serialized as "type".
var linkStringAttributes = []struct {
	Key   string
	Field func(l *Link) **string
}{
	{"deprecation", func(l *Link) **string { return &l.deprecation }},
	{"hreflang", func(l *Link) **string { return &l.hreflang }},
	{"name", func(l *Link) **string { return &l.name }},
	{"profile", func(l *Link) **string { return &l.profile }},
	{"title", func(l *Link) **string { return &l.title }},
	{"type", func(l *Link) **string { return &l.mediaType }},
}

// NewLink creates a link to the given URI or URI template.
func NewLink(href string) Link {
	return Link{
		href: href,
	}
}

// WithTemplated sets the "templated" attribute, which should be true when the href is a URI
// template.
func (l Link) WithTemplated(templated bool) Link {
	l.templated = &templated
	return l
}

// WithMediaType sets the "type" attribute, a hint indicating the media type expected when
// dereferencing the target.
func (l Link) WithMediaType(mediaType string) Link {
	l.mediaType = &mediaType
	return l
}

// WithDeprecation sets the "deprecation" attribute, a URL providing further information about the
// link's deprecation.
func (l Link) WithDeprecation(deprecation string) Link {
	l.deprecation = &deprecation
	return l
}

// WithName sets the "name" attribute, which may be used as a secondary key for selecting links
// that share the same relation.
func (l Link) WithName(name string) Link {
	l.name = &name
	return l
}

// WithProfile sets the "profile" attribute, a URI that hints about the profile of the target.
func (l Link) WithProfile(profile string) Link {
	l.profile = &profile
	return l
}

// WithTitle sets the "title" attribute, a human-readable label for the link.
func (l Link) WithTitle(title string) Link {
	l.title = &title
	return l
}

// WithHreflang sets the "hreflang" attribute, the language of the target resource.
func (l Link) WithHreflang(hreflang string) Link {
	l.hreflang = &hreflang
	return l
}

func (l Link) Href() string {
	return l.href
}

func (l Link) Templated() (templated bool, ok bool) {
	return getAttribute(l.templated)
}

func (l Link) MediaType() (mediaType string, ok bool) {
	return getAttribute(l.mediaType)
}

func (l Link) Deprecation() (deprecation string, ok bool) {
	return getAttribute(l.deprecation)
}

func (l Link) Name() (name string, ok bool) {
	return getAttribute(l.name)
}

func (l Link) Profile() (profile string, ok bool) {
	return getAttribute(l.profile)
}

func (l Link) Title() (title string, ok bool) {
	return getAttribute(l.title)
}

func (l Link) Hreflang() (hreflang string, ok bool) {
	return getAttribute(l.hreflang)
}

func getAttribute[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func equalAttributes[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Equal reports whether both links have the same href and the same attributes set to the same
// values.
func (l Link) Equal(other Link) bool {
	if l.href != other.href || !equalAttributes(l.templated, other.templated) {
		return false
	}
	for _, attr := range linkStringAttributes {
		if !equalAttributes(*attr.Field(&l), *attr.Field(&other)) {
			return false
		}
	}
	return true
}

// ToGenericJSON converts the link into a JSON object. The "href" member is always present. Other
// members are only present if the corresponding attribute was set.
func (l Link) ToGenericJSON() *jsontree.Object {
	ret := jsontree.NewObjectWithCapacity(2)
	ret.Set("href", l.href)
	if l.templated != nil {
		ret.Set("templated", *l.templated)
	}
	for _, attr := range linkStringAttributes {
		if v := *attr.Field(&l); v != nil {
			ret.Set(attr.Key, *v)
		}
	}
	return ret
}

// LinkFromGenericJSON reconstructs a link from a JSON object such as one produced by
// ToGenericJSON. It accepts *jsontree.Object as well as the map types produced by standard
// decoders. Unrecognized members are ignored.
//
// If "href" is absent, a MissingRequiredField error is returned. If any recognized member has the
// wrong type, a TypeMismatch error is returned.
func LinkFromGenericJSON(v any) (Link, error) {
	obj, ok := jsontree.AsObject(v)
	if !ok {
		return Link{}, typeMismatch("", "link object", v)
	}

	href, ok := obj.Get("href")
	if !ok {
		return Link{}, &Error{
			Kind:    MissingRequiredField,
			Field:   "href",
			Message: "links must have an href",
		}
	}
	ret := Link{}
	if ret.href, ok = href.(string); !ok {
		return Link{}, typeMismatch("href", "string", href)
	}

	if templated, ok := obj.Get("templated"); ok {
		b, ok := templated.(bool)
		if !ok {
			return Link{}, typeMismatch("templated", "boolean", templated)
		}
		ret.templated = &b
	}

	for _, attr := range linkStringAttributes {
		if value, ok := obj.Get(attr.Key); ok {
			s, ok := value.(string)
			if !ok {
				return Link{}, typeMismatch(attr.Key, "string", value)
			}
			*attr.Field(&ret) = &s
		}
	}

	return ret, nil
}

func (l Link) MarshalJSON() ([]byte, error) {
	return l.ToGenericJSON().MarshalJSON()
}

func (l *Link) UnmarshalJSON(data []byte) error {
	v, err := jsontree.Decode(data)
	if err != nil {
		return err
	}
	link, err := LinkFromGenericJSON(v)
	if err != nil {
		return err
	}
	*l = link
	return nil
}
