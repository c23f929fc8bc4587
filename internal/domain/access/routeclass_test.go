package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteTable_Classify(t *testing.T) {
	table := DefaultRouteTable()

	tests := []struct {
		path string
		want RouteClass
	}{
		{path: "/", want: ClassPublic},
		{path: "/auth", want: ClassPublic},
		{path: "/auth/login", want: ClassPublic},
		{path: "/apartments", want: ClassPublic},
		{path: "/apartments/42", want: ClassPublic},
		{path: "/hotels", want: ClassPublic},
		{path: "/tours", want: ClassPublic},
		{path: "/search", want: ClassPublic},
		{path: "/property/123/photos", want: ClassPublic},

		{path: "/dashboard", want: ClassRequiresAuth},
		{path: "/bookings", want: ClassRequiresAuth},
		{path: "/bookings/b-9", want: ClassRequiresAuth},
		{path: "/wishlist", want: ClassRequiresAuth},
		{path: "/profile", want: ClassRequiresAuth},

		{path: "/host", want: ClassRequiresHost},
		{path: "/host/listings", want: ClassRequiresHost},
		{path: "/host/listings/7/edit", want: ClassRequiresHost},

		{path: "/admin", want: ClassRequiresAdmin},
		{path: "/admin/users", want: ClassRequiresAdmin},

		// Unknown paths fall through to the root rule.
		{path: "/about", want: ClassPublic},
		{path: "/blog/posts/1", want: ClassPublic},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.path))
		})
	}
}

func TestRouteTable_Classify_Overrides(t *testing.T) {
	table := DefaultRouteTable()

	// Exact-path overrides win over the host-only prefix.
	assert.Equal(t, ClassRequiresAuth, table.Classify("/host/register"))
	assert.Equal(t, ClassRequiresAuth, table.Classify("/host/pending"))

	// Children of an override path are not overridden.
	assert.Equal(t, ClassRequiresHost, table.Classify("/host/register/extra"))
}

func TestRouteTable_Classify_SegmentBoundaries(t *testing.T) {
	table := DefaultRouteTable()

	// Prefix match must respect path segment boundaries.
	assert.Equal(t, ClassPublic, table.Classify("/hostel"))
	assert.Equal(t, ClassPublic, table.Classify("/administrator"))
	assert.Equal(t, ClassPublic, table.Classify("/dashboards"))
}

func TestRouteTable_Classify_Normalization(t *testing.T) {
	table := DefaultRouteTable()

	assert.Equal(t, ClassRequiresAuth, table.Classify("/dashboard/"))
	assert.Equal(t, ClassRequiresAdmin, table.Classify("/admin/"))
	assert.Equal(t, ClassPublic, table.Classify(""))
}

func TestRouteTable_Classify_IsDeterministic(t *testing.T) {
	table := DefaultRouteTable()
	for range 3 {
		assert.Equal(t, ClassRequiresHost, table.Classify("/host/listings"))
	}
}
