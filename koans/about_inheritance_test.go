package koans

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Go has no classes and no inheritance. A type reuses another by embedding
// it, and behavior varies by type only through interfaces.

type Barker interface {
	Bark() string
}

type Dog struct {
	Name string
}

func NewDog(name string) Dog {
	return Dog{Name: name}
}

func (d Dog) Bark() string {
	return "WOOF"
}

// Announce calls Bark on the Dog it was given. It knows nothing about any type
// that embeds a Dog.
func (d Dog) Announce() string {
	return d.Name + " says " + d.Bark()
}

// Chihuahua embeds a Dog, so the Dog's fields and methods are promoted to it.
type Chihuahua struct {
	Dog
}

func NewChihuahua(name string) Chihuahua {
	return Chihuahua{Dog: NewDog(name)}
}

// NewDefaultChihuahua shows that a constructor does not have to mirror the one
// of the embedded type. It only has to build the Dog somehow.
func NewDefaultChihuahua() Chihuahua {
	return NewChihuahua("Ima Chihuahua")
}

// Bark is declared at a shallower depth than Dog.Bark, so it is the one
// c.Bark() selects.
func (c Chihuahua) Bark() string {
	return "yip"
}

// Wag is new behavior that Dog does not have.
func (c Chihuahua) Wag() string {
	return "Happy"
}

type ReallyYippyChihuahua struct {
	Chihuahua
}

func NewReallyYippyChihuahua(name string) ReallyYippyChihuahua {
	return ReallyYippyChihuahua{Chihuahua: NewChihuahua(name)}
}

// Wag shadows Chihuahua.Wag. Both methods still exist; which one runs depends
// only on the selector you write.
func (r ReallyYippyChihuahua) Wag() string {
	return "WAG WAG WAG!!"
}

type BullDog struct {
	Dog
}

func NewBullDog(name string) BullDog {
	return BullDog{Dog: NewDog(name)}
}

func (b BullDog) Bark() string {
	return b.Dog.Bark() + ", GROWL"
}

type GreatDane struct {
	Dog
}

func NewGreatDane(name string) GreatDane {
	return GreatDane{Dog: NewDog(name)}
}

func (g GreatDane) Growl() string {
	return g.Dog.Bark() + ", GROWL"
}

func TestEmbeddingIsNotBeingA(t *testing.T) {
	dogType := reflect.TypeOf(Dog{})
	chihuahuaType := reflect.TypeOf(Chihuahua{})

	assert.Equal(t, __(false), chihuahuaType.AssignableTo(dogType), "A Chihuahua contains a Dog. It is not one.")
}

func TestEmbeddingTypesShareInterfaces(t *testing.T) {
	barker := reflect.TypeOf((*Barker)(nil)).Elem()

	assert.Equal(t, __(true), reflect.TypeOf(Dog{}).Implements(barker))
	assert.Equal(t, __(true), reflect.TypeOf(Chihuahua{}).Implements(barker), "Anything that can Bark is a Barker.")
}

func TestAllTypesUltimatelySatisfyAny(t *testing.T) {
	anyType := reflect.TypeOf((*any)(nil)).Elem()

	assert.Equal(t, __(true), reflect.TypeOf(Chihuahua{}).Implements(anyType))
}

func TestEmbeddedFieldsArePromoted(t *testing.T) {
	chico := NewChihuahua("Chico")

	assert.Equal(t, __("Chico"), chico.Name)
	assert.Equal(t, __("Chico"), chico.Dog.Name, "The long way round leads to the same field.")
}

func TestConstructorsNeedNotMirrorTheEmbeddedType(t *testing.T) {
	nameless := NewDefaultChihuahua()

	assert.Equal(t, __("Ima Chihuahua"), nameless.Name)
}

func TestOuterTypesAddNewBehavior(t *testing.T) {
	chico := NewChihuahua("Chico")
	assert.Equal(t, __("Happy"), chico.Wag())

	// The method set of a type can be searched at run time.
	_, found := reflect.TypeOf(chico).MethodByName("Wag")
	assert.Equal(t, __(true), found)

	// Which shows that you cannot wag the Dog.
	fluffy := NewDog("Fluffy")
	_, found = reflect.TypeOf(fluffy).MethodByName("Wag")
	assert.Equal(t, __(false), found)
}

func TestOuterTypesCanReplaceExistingBehavior(t *testing.T) {
	chico := NewChihuahua("Chico")
	assert.Equal(t, __("yip"), chico.Bark())

	fido := NewDog("Fido")
	assert.Equal(t, __("WOOF"), fido.Bark())
}

func TestInterfacesDispatchOnTheDynamicType(t *testing.T) {
	var barker Barker = NewChihuahua("Chico")

	// Held as a Barker, the Chihuahua is still a Chihuahua.
	assert.Equal(t, __("yip"), barker.Bark())
}

func TestTheEmbeddedValueKeepsItsOwnBehavior(t *testing.T) {
	chico := NewChihuahua("Chico")
	dog := chico.Dog

	// This is not a cast. chico.Dog is a real Dog, and a Dog says WOOF.
	assert.Equal(t, __("WOOF"), dog.Bark())
}

func TestEmbeddedMethodsCannotCallBackIntoTheOuterType(t *testing.T) {
	chico := NewChihuahua("Chico")

	// Announce is promoted from Dog and runs with the Dog as its receiver.
	assert.Equal(t, __("Chico says WOOF"), chico.Announce(), "There is no virtual call from the inside.")
}

func TestShadowingRedefinesBehaviorByName(t *testing.T) {
	suzie := NewReallyYippyChihuahua("Suzie")

	assert.Equal(t, __("WAG WAG WAG!!"), suzie.Wag())
}

func TestShadowingDoesNotChangeTheEmbeddedBehavior(t *testing.T) {
	bennie := NewReallyYippyChihuahua("Bennie")

	// Which Wag runs depends solely on who you ask. Unlike an interface call,
	// the choice is made when the code is compiled.
	assert.Equal(t, __("Happy"), bennie.Chihuahua.Wag())
}

func TestShadowedMethodsAreNotSeenThroughTheEmbeddedType(t *testing.T) {
	var wagger interface{ Wag() string } = NewReallyYippyChihuahua("Bennie").Chihuahua

	assert.Equal(t, __("Happy"), wagger.Wag(), "Pass on the inner Chihuahua and you pass on its Wag.")
}

func TestOuterTypesCanInvokeEmbeddedBehavior(t *testing.T) {
	ralph := NewBullDog("Ralph")

	assert.Equal(t, __("WOOF, GROWL"), ralph.Bark())
}

func TestEmbeddedBehaviorIsReachableFromAnyMethod(t *testing.T) {
	george := NewGreatDane("George")

	assert.Equal(t, __("WOOF, GROWL"), george.Growl())
	assert.Equal(t, __("WOOF"), george.Bark(), "A GreatDane never replaced Bark.")
}
