package typing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		hint string
		want Type
	}{
		{"", Mixed()},
		{"mixed", Mixed()},
		{"int", Int()},
		{"integer", Int()},
		{"float", Float()},
		{"double", Float()},
		{"string", String()},
		{"bool", Bool()},
		{"boolean", Bool()},
		{"null", Null()},
		{"array", Array()},
		{"iterable", Array()},
		{"callable", Callable()},
		{"object", Object("")},
		{"int|string", Union(Int(), String())},
		{"?string", Union(String(), Null())},
		{"?int", Union(Int(), Null())},
		{"array|null", Union(Array(), Null())},
		{"Foo", Object("Foo")},
		{"?Foo", Union(Object("Foo"), Null())},
		{"Foo|Bar", Union(Object("Foo"), Object("Bar"))},
		{" int | string ", Union(Int(), String())},
	}

	for _, tc := range tests {
		t.Run(tc.hint, func(t *testing.T) {
			got := ParseHint(tc.hint)
			assert.True(t, got.Equal(tc.want), "ParseHint(%q) = %s, want %s", tc.hint, got, tc.want)
		})
	}
}
