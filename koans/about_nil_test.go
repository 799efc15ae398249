package koans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type lantern struct {
	lit bool
}

func (l *lantern) IsLit() bool {
	return l.lit
}

// SafeIsLit guards against a nil receiver.
func (l *lantern) SafeIsLit() bool {
	if l == nil {
		return false
	}
	return l.lit
}

func TestNilIsNotAValueOfEveryType(t *testing.T) {
	var boxed any = 0

	// An int has no nil. Zero is a value, and the box holding it is not empty.
	assert.Equal(t, __(false), boxed == nil, "Can you kill that which has no life?")
}

func TestInvokingAMethodThroughANilPointerPanics(t *testing.T) {
	var dark *lantern

	var message string
	func() {
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok {
					message = err.Error()
				}
			}
		}()
		dark.IsLit()
	}()

	assert.Equal(t, __("runtime error: invalid memory address or nil pointer dereference"), message,
		"If you are still unsure, read the name of this koan again.")
}

func TestNilReceiversCanBeHandled(t *testing.T) {
	var dark *lantern

	assert.Equal(t, __(false), dark.SafeIsLit(), "A method may look at its receiver before using it.")
}

func TestCheckingThatAValueIsNil(t *testing.T) {
	var obj *lantern

	assert.True(t, obj == __[*lantern](nil))
}

func TestABetterWayToCheckThatAValueIsNil(t *testing.T) {
	var obj *lantern

	assert.Nil(t, obj, "If only we had a value to hold on to...")
}

func TestANilPointerInAnInterfaceIsNotANilInterface(t *testing.T) {
	var dark *lantern
	var boxed any = dark

	assert.Equal(t, __(false), boxed == nil, "The box is not empty. It holds a typed nil.")
	assert.Equal(t, __(true), boxed.(*lantern) == nil, "Look inside the box and you find nothing.")
}

func TestNilSlicesHaveNoLength(t *testing.T) {
	var path []string

	assert.Equal(t, __(0), len(path), "Nothing has no length.")
	path = append(path, "first step")
	assert.Equal(t, __(1), len(path), "And yet you may add to nothing.")
}

func TestReadingANilMapGivesTheZeroValue(t *testing.T) {
	var karma map[string]int

	assert.Equal(t, __(0), karma["enlightened"], "Asking an empty map costs nothing.")
	assert.Panics(t, func() {
		karma["enlightened"] = 1
	}, "Writing to it is another matter.")
}
