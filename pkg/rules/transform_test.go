package rules_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formkit/pkg/rules"
)

func TestTransforms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		names []string
		in    any
		want  any
	}{
		{[]string{"trim"}, "  a b  ", "a b"},
		{[]string{"lower", "trim"}, " ABC ", "abc"},
		{[]string{"upper"}, "abc", "ABC"},
		{[]string{"collapse_spaces"}, " a \t\n b ", "a b"},
		{[]string{"strip_html"}, "<b>Tom &amp; Jerry</b>", "Tom & Jerry"},
		{[]string{"strip_control"}, "a\x00b\tc", "ab\tc"},
		{[]string{"digits"}, "+1 (555) 010-99", "155501099"},
		{[]string{"email"}, " John..Doe.@Example.COM ", "john.doe@example.com"},
		{[]string{"email"}, "a@b@c", "a@b@c"},
		{[]string{"trim"}, 42, 42},
		{nil, " x ", " x "},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.names, "+"), func(t *testing.T) {
			t.Parallel()
			fn, err := rules.Transforms(tt.names...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fn(tt.in))
		})
	}

	_, err := rules.Transforms("trim", "shout")
	assert.ErrorIs(t, err, rules.ErrInvalidRule)
	assert.Panics(t, func() { rules.Required().WithTransform("shout") })
}

func TestTransform_FromYAML(t *testing.T) {
	t.Parallel()

	set, err := rules.LoadYAML(strings.NewReader(`
name:
  required: true
  transform: [collapse_spaces]
email:
  type: email
  transform: [email]
`))
	require.NoError(t, err)

	err = rules.New().Validate(context.Background(), set, rules.Source{
		"name":  "   ",
		"email": "  Jane@Example.com ",
	})
	verrs := rules.ExtractValidationErrors(err)
	require.NotNil(t, verrs)
	assert.Equal(t, []string{"field is required"}, verrs.Get("name"))
	assert.False(t, verrs.Has("email"))
}
