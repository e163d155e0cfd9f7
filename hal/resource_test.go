package hal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Order struct {
	Total    float64
	Currency string
	Status   string
}

func (o Order) MarshalHAL() *Resource {
	return NewResourceWithSelf("https://www.example.com/orders/1").
		AddState("total", o.Total).
		AddState("currency", o.Currency).
		AddState("status", o.Status)
}

func TestNewResource(t *testing.T) {
	assert.Equal(t, `{}`, marshalJSON(t, NewResource()))

	var zero Resource
	assert.Equal(t, `{}`, marshalJSON(t, &zero))
	zero.AddLink("self", NewLink("/"))
	assert.Equal(t, `{"_links":{"self":{"href":"/"}}}`, marshalJSON(t, &zero))
}

func TestResourceWithSelf(t *testing.T) {
	r := NewResourceWithSelf("https://www.example.com")
	assert.Equal(t, `{"_links":{"self":{"href":"https://www.example.com"}}}`, marshalJSON(t, r))
}

func TestResourceWithSelfAndLink(t *testing.T) {
	r := NewResourceWithSelf("https://www.example.com").
		AddLink("orders", NewLink("https://www.example.com/orders"))
	assert.Equal(t, `{"_links":{"orders":{"href":"https://www.example.com/orders"},"self":{"href":"https://www.example.com"}}}`, marshalJSON(t, r))
}

func TestResourceLinkCollapse(t *testing.T) {
	r := NewResourceWithSelf("https://www.example.com").
		AddLink("orders", NewLink("https://www.example.com/orders/1"))
	assert.Equal(t, `{"_links":{"orders":{"href":"https://www.example.com/orders/1"},"self":{"href":"https://www.example.com"}}}`, marshalJSON(t, r))

	r.AddLink("orders", NewLink("https://www.example.com/orders/2"))
	assert.Equal(t, `{"_links":{"orders":[{"href":"https://www.example.com/orders/1"},{"href":"https://www.example.com/orders/2"}],"self":{"href":"https://www.example.com"}}}`, marshalJSON(t, r))
}

func TestResourceDuplicateLinks(t *testing.T) {
	r := NewResource().
		AddLink("admin", NewLink("/admins/2")).
		AddLink("admin", NewLink("/admins/2"))
	assert.Equal(t, `{"_links":{"admin":[{"href":"/admins/2"},{"href":"/admins/2"}]}}`, marshalJSON(t, r))
	assert.Len(t, r.Links("admin"), 2)
}

func TestResourceSetLink(t *testing.T) {
	r := NewResourceWithSelf("/orders/1").
		AddLink("admin", NewLink("/admins/2")).
		AddLink("admin", NewLink("/admins/5"))

	r.SetLink(SelfRelation, NewLink("/orders/2")).
		SetLink("admin", NewLink("/admins/7")).
		SetLink("next", NewLink("/orders/3"))
	assert.Equal(t, `{"_links":{"admin":{"href":"/admins/7"},"next":{"href":"/orders/3"},"self":{"href":"/orders/2"}}}`, marshalJSON(t, r))

	var empty Resource
	empty.SetLink(SelfRelation, NewLink("/"))
	assert.Len(t, empty.Links(SelfRelation), 1)
}

func TestResourceCurie(t *testing.T) {
	r := NewResourceWithSelf("https://www.example.com").
		AddCurie("ea", "http://example.com/docs/rels/{rel}")
	assert.Equal(t, `{"_links":{"curies":[{"href":"http://example.com/docs/rels/{rel}","name":"ea","templated":true}],"self":{"href":"https://www.example.com"}}}`, marshalJSON(t, r))

	// the exception applies to any link under "curies", not just ones added via AddCurie
	r = NewResource().AddLink(CuriesRelation, NewLink("/docs/{rel}"))
	assert.Equal(t, `{"_links":{"curies":[{"href":"/docs/{rel}"}]}}`, marshalJSON(t, r))
}

func TestResourceState(t *testing.T) {
	r := NewResource().
		AddState("currentlyProcessing", 14).
		AddState("currency", "USD").
		AddState("active", true).
		AddState("errors", nil)
	assert.Equal(t, `{"active":true,"currency":"USD","currentlyProcessing":14,"errors":null}`, marshalJSON(t, r))

	r.AddState("currency", "EUR")
	v, ok := r.State("currency")
	assert.True(t, ok)
	assert.Equal(t, Text("EUR"), v)

	_, ok = r.State("missing")
	assert.False(t, ok)
}

func TestResourceStateKeyOrder(t *testing.T) {
	r := NewResource().
		AddState("b", 2).
		AddState("a", 1).
		AddState("c", 3)
	assert.Equal(t, `{"a":1,"b":2,"c":3}`, marshalJSON(t, r))
	assert.Equal(t, []string{"a", "b", "c"}, r.StateKeys())
}

func TestResourceListState(t *testing.T) {
	r := NewResourceWithSelf("/user/1").
		AddState("friends", []string{"Mary", "Timmy", "Sally", "Wally"})
	assert.Equal(t, `{"_links":{"self":{"href":"/user/1"}},"friends":["Mary","Timmy","Sally","Wally"]}`, marshalJSON(t, r))
}

func TestResourceObjectState(t *testing.T) {
	expected := `{"_links":{"self":{"href":"/user/1"}},"fullname":{"family":"Doe","given":"John"}}`

	r := NewResourceWithSelf("/user/1").
		AddState("fullname", map[string]string{"given": "John", "family": "Doe"})
	assert.Equal(t, expected, marshalJSON(t, r))

	r = NewResourceWithSelf("/user/1").
		AddState("fullname", Object{"given": Text("John"), "family": Text("Doe")})
	assert.Equal(t, expected, marshalJSON(t, r))
}

func TestResourceOptionalState(t *testing.T) {
	var missing *string
	present := "shipped"

	r := NewResource().
		AddState("missing", missing).
		AddState("present", &present)
	assert.Equal(t, `{"missing":null,"present":"shipped"}`, marshalJSON(t, r))
}

func TestResourceSetStateError(t *testing.T) {
	r := NewResource()
	err := r.SetState("ch", make(chan int))
	assert.ErrorIs(t, err, ErrUnsupportedValue)
	assert.Empty(t, r.StateKeys())

	assert.Panics(t, func() {
		r.AddState("fn", func() {})
	})
}

func TestResourceAddResource(t *testing.T) {
	r := NewResource().AddResource("orders", NewResource())
	assert.Equal(t, `{"_embedded":{"orders":{}}}`, marshalJSON(t, r))

	r.AddResource("orders", nil)
	assert.Equal(t, `{"_embedded":{"orders":[{},{}]}}`, marshalJSON(t, r))
	assert.Equal(t, []string{"orders"}, r.EmbeddedRels())
	assert.Len(t, r.Embedded("orders"), 2)
}

func TestResourceAddResourceCopies(t *testing.T) {
	child := NewResourceWithSelf("/orders/1")
	parent := NewResource().AddResource("ea:order", child)

	child.AddState("status", "shipped")
	child.AddLink("self", NewLink("/orders/2"))

	assert.Equal(t, `{"_embedded":{"ea:order":{"_links":{"self":{"href":"/orders/1"}}}}}`, marshalJSON(t, parent))
}

func TestResourceAddSelf(t *testing.T) {
	r := NewResourceWithSelf("/a")
	r.AddResource("self", r)
	r.AddResource("self", r)

	assert.Equal(t, `{"_embedded":{"self":[{"_links":{"self":{"href":"/a"}}},{"_embedded":{"self":{"_links":{"self":{"href":"/a"}}}},"_links":{"self":{"href":"/a"}}}]},"_links":{"self":{"href":"/a"}}}`, marshalJSON(t, r))
}

func TestResourceEmbed(t *testing.T) {
	order := Order{Total: 20, Currency: "USD", Status: "processing"}
	assert.Equal(t, `{"_links":{"self":{"href":"https://www.example.com/orders/1"}},"currency":"USD","status":"processing","total":20.0}`, marshalJSON(t, order.MarshalHAL()))

	r := NewResource().Embed("order", order)
	assert.Equal(t, `{"_embedded":{"order":{"_links":{"self":{"href":"https://www.example.com/orders/1"}},"currency":"USD","status":"processing","total":20.0}}}`, marshalJSON(t, r))
}

func TestResourceReservedKeysWin(t *testing.T) {
	r := NewResource().
		AddState(LinksKey, "not links").
		AddState(EmbeddedKey, "not embedded")
	assert.Equal(t, `{"_embedded":"not embedded","_links":"not links"}`, marshalJSON(t, r))

	r.AddLink("self", NewLink("/"))
	r.AddResource("child", NewResource())
	assert.Equal(t, `{"_embedded":{"child":{}},"_links":{"self":{"href":"/"}}}`, marshalJSON(t, r))
}

func TestResourceAccessorsCopy(t *testing.T) {
	r := NewResource().AddLink("a", NewLink("/1"))
	links := r.Links("a")
	links[0] = NewLink("/2")
	assert.Equal(t, "/1", r.Links("a")[0].Href())
	assert.Nil(t, r.Links("missing"))
	assert.Equal(t, []string{"a"}, r.LinkRels())
}

func TestResourceClone(t *testing.T) {
	r := exampleDocument()
	clone := r.Clone()
	assert.True(t, r.Equal(clone))
	assert.Equal(t, marshalJSON(t, r), marshalJSON(t, clone))

	clone.AddLink("next", NewLink("/orders?page=3"))
	assert.False(t, r.Equal(clone))
	assert.Len(t, r.Links("next"), 1)

	assert.True(t, (*Resource)(nil).Clone().Equal(NewResource()))
}

func TestResourceEqual(t *testing.T) {
	for name, tc := range map[string]struct {
		A, B     *Resource
		Expected bool
	}{
		"Empty": {
			A:        NewResource(),
			B:        &Resource{},
			Expected: true,
		},
		"Nil": {
			A:        nil,
			B:        NewResource(),
			Expected: true,
		},
		"DifferentStateVariant": {
			A:        NewResource().AddState("n", int64(1)),
			B:        NewResource().AddState("n", uint64(1)),
			Expected: false,
		},
		"DifferentLinkOrder": {
			A:        NewResource().AddLink("a", NewLink("/1")).AddLink("a", NewLink("/2")),
			B:        NewResource().AddLink("a", NewLink("/2")).AddLink("a", NewLink("/1")),
			Expected: false,
		},
		"DifferentEmbedded": {
			A:        NewResource().AddResource("a", NewResourceWithSelf("/1")),
			B:        NewResource().AddResource("a", NewResourceWithSelf("/2")),
			Expected: false,
		},
		"MissingEmbedded": {
			A:        NewResource().AddResource("a", nil),
			B:        NewResource().AddResource("b", nil),
			Expected: false,
		},
		"Same": {
			A:        exampleDocument(),
			B:        exampleDocument(),
			Expected: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.Expected, tc.A.Equal(tc.B))
			assert.Equal(t, tc.Expected, tc.B.Equal(tc.A))
		})
	}
}

// exampleDocument builds the order listing used as the example in the HAL draft.
func exampleDocument() *Resource {
	return NewResourceWithSelf("/orders").
		AddCurie("ea", "http://example.com/docs/rels/{rel}").
		AddLink("next", NewLink("/orders?page=2")).
		AddLink("ea:find", NewLink("/orders{?id}").WithTemplated(true)).
		AddLink("ea:admin", NewLink("/admins/2").WithTitle("Fred")).
		AddLink("ea:admin", NewLink("/admins/5").WithTitle("Kate")).
		AddState("currentlyProcessing", 14).
		AddState("shippedToday", 20).
		AddResource("ea:order", NewResourceWithSelf("/orders/123").
			AddLink("ea:basket", NewLink("/baskets/98712")).
			AddLink("ea:customer", NewLink("/customers/7809")).
			AddState("total", 30.00).
			AddState("currency", "USD").
			AddState("status", "shipped")).
		AddResource("ea:order", NewResourceWithSelf("/orders/124").
			AddLink("ea:basket", NewLink("/baskets/97213")).
			AddLink("ea:customer", NewLink("/customers/12369")).
			AddState("total", 20.00).
			AddState("currency", "USD").
			AddState("status", "processing"))
}

const exampleDocumentJSON = `{"_embedded":{"ea:order":[{"_links":{"ea:basket":{"href":"/baskets/98712"},"ea:customer":{"href":"/customers/7809"},"self":{"href":"/orders/123"}},"currency":"USD","status":"shipped","total":30.0},{"_links":{"ea:basket":{"href":"/baskets/97213"},"ea:customer":{"href":"/customers/12369"},"self":{"href":"/orders/124"}},"currency":"USD","status":"processing","total":20.0}]},"_links":{"curies":[{"href":"http://example.com/docs/rels/{rel}","name":"ea","templated":true}],"ea:admin":[{"href":"/admins/2","title":"Fred"},{"href":"/admins/5","title":"Kate"}],"ea:find":{"href":"/orders{?id}","templated":true},"next":{"href":"/orders?page=2"},"self":{"href":"/orders"}},"currentlyProcessing":14,"shippedToday":20}`

func TestResourceExampleDocument(t *testing.T) {
	r := exampleDocument()
	assert.Equal(t, exampleDocumentJSON, marshalJSON(t, r))

	orders := r.Embedded("ea:order")
	require.Len(t, orders, 2)
	assert.Equal(t, "/orders/123", orders[0].Links("self")[0].Href())
	assert.Equal(t, "/orders/124", orders[1].Links("self")[0].Href())
}
