package koans

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pebble struct {
	Weight int
}

func isAny(v any) bool {
	return v != nil
}

func TestEverythingCanBeHeldAsAny(t *testing.T) {
	assert.Equal(t, __(true), isAny(1))
	assert.Equal(t, __(true), isAny(1.5))
	assert.Equal(t, __(true), isAny("string"))
	assert.Equal(t, __(true), isAny(true))
}

func TestEveryValueKeepsItsDynamicType(t *testing.T) {
	values := []any{1, 1.5, "string", true}

	var kinds []string
	for _, v := range values {
		kinds = append(kinds, fmt.Sprintf("%T", v))
	}

	assert.Equal(t, __([]string{"int", "float64", "string", "bool"}), kinds,
		"Untyped constants take their default type when boxed.")
}

func TestExceptNilHasNoDynamicType(t *testing.T) {
	assert.Equal(t, __(false), isAny(nil))
	assert.Nil(t, reflect.TypeOf(nil), "What is the type of nothing?")
}

func TestAnonymousStructLiteralIsAValue(t *testing.T) {
	empty := struct{}{}

	assert.Equal(t, __(true), isAny(empty))
	assert.Equal(t, __(0), int(reflect.TypeOf(empty).Size()), "Even an empty struct is something, although it weighs nothing.")
}

func TestValuesHaveTypes(t *testing.T) {
	assert.Equal(t, __[reflect.Kind](reflect.Int), reflect.TypeOf(42).Kind())
	assert.Equal(t, __("koans.pebble"), reflect.TypeOf(pebble{}).String())
}

func TestAssignmentCopiesStructs(t *testing.T) {
	original := pebble{Weight: 1}
	copied := original
	copied.Weight = 5

	assert.Equal(t, __(1), original.Weight, "The copy is not the original.")
}

func TestPointersShareTheValue(t *testing.T) {
	original := &pebble{Weight: 1}
	alias := original
	alias.Weight = 5

	assert.Equal(t, __(5), original.Weight, "Two names, one pebble.")
	assert.Same(t, original, alias)
}

func TestComparableStructsCompareByValue(t *testing.T) {
	a := pebble{Weight: 3}
	b := pebble{Weight: 3}

	assert.Equal(t, __(true), a == b, "Same fields, same pebble.")
	assert.Equal(t, __(false), &a == &b, "Different places, different pebbles.")
}

func TestValuesKnowHowToPrintThemselves(t *testing.T) {
	p := pebble{Weight: 3}

	assert.Equal(t, __("{3}"), fmt.Sprintf("%v", p))
	assert.Equal(t, __("{Weight:3}"), fmt.Sprintf("%+v", p))
}
