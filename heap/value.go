// ABOUTME: Interpreter value representation: a tagged union over Scheme data
// ABOUTME: Values reference other values and lambdas but never own them

package heap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prateek/schemeheap/graph"
)

// ObjID identifies a heap object for its whole lifetime. IDs are never reused
// within one Heap.
type ObjID = graph.ObjID

// header is embedded in every heap object kind
type header struct {
	id       ObjID
	marked   bool
	slot     int // index in the owning registry, -1 once removed
	released bool
}

// ID returns the object's heap-unique identifier
func (h *header) ID() ObjID { return h.id }

// Marked reports whether the current cycle has reached the object
func (h *header) Marked() bool { return h.marked }

// Released reports whether the collector has freed the object
func (h *header) Released() bool { return h.released }

func (h *header) registrySlot() int { return h.slot }
func (h *header) setRegistrySlot(i int) {
	h.slot = i
}

// Tag selects the payload a Value carries
type Tag uint8

const (
	TagNil Tag = iota
	TagBool
	TagInt
	TagReal
	TagString
	TagSymbol
	TagCons
	TagClosure
	TagError
)

var tagNames = [...]string{
	TagNil:     "nil",
	TagBool:    "bool",
	TagInt:     "int",
	TagReal:    "real",
	TagString:  "string",
	TagSymbol:  "symbol",
	TagCons:    "cons",
	TagClosure: "closure",
	TagError:   "error",
}

// String returns the lower-case tag name
func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "tag(" + strconv.Itoa(int(t)) + ")"
}

// Value is one interpreter-level datum
type Value struct {
	header
	tag Tag

	boolean bool
	integer int64
	real    float64
	str     string // String, Symbol and Error

	car, cdr *Value  // Cons
	lambda   *Lambda // Closure
}

// Tag returns the kind of datum v holds
func (v *Value) Tag() Tag { return v.tag }

// Bool returns the payload of a TagBool value
func (v *Value) Bool() bool { return v.boolean }

// Int returns the payload of a TagInt value
func (v *Value) Int() int64 { return v.integer }

// Real returns the payload of a TagReal value
func (v *Value) Real() float64 { return v.real }

// Str returns the text of a string, symbol or error value
func (v *Value) Str() string { return v.str }

// Car returns the first element of a pair
func (v *Value) Car() *Value { return v.car }

// Cdr returns the rest of a pair
func (v *Value) Cdr() *Value { return v.cdr }

// Lambda returns the procedure a closure value refers to
func (v *Value) Lambda() *Lambda { return v.lambda }

// SetCar replaces the car of a cons pair
func (v *Value) SetCar(car *Value) {
	v.mustBe(TagCons, "set-car")
	v.car = car
}

// SetCdr replaces the cdr of a cons pair
func (v *Value) SetCdr(cdr *Value) {
	v.mustBe(TagCons, "set-cdr")
	v.cdr = cdr
}

func (v *Value) mustBe(t Tag, op string) {
	if v.tag != t {
		panic(fmt.Sprintf("heap: %s on %s value %d", op, v.tag, v.id))
	}
}

// String renders the value for diagnostics. Cycles through cdr are cut off.
func (v *Value) String() string {
	var b strings.Builder
	writeValue(&b, v, 0)
	return b.String()
}

const maxPrintDepth = 32

func writeValue(b *strings.Builder, v *Value, depth int) {
	if v == nil {
		b.WriteString("#<nil-ref>")
		return
	}
	if depth > maxPrintDepth {
		b.WriteString("...")
		return
	}
	switch v.tag {
	case TagNil:
		b.WriteString("()")
	case TagBool:
		if v.boolean {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case TagInt:
		b.WriteString(strconv.FormatInt(v.integer, 10))
	case TagReal:
		b.WriteString(strconv.FormatFloat(v.real, 'g', -1, 64))
	case TagString:
		b.WriteString(strconv.Quote(v.str))
	case TagSymbol:
		b.WriteString(v.str)
	case TagError:
		b.WriteString("#<error " + v.str + ">")
	case TagClosure:
		if v.lambda == nil {
			b.WriteString("#<lambda>")
		} else {
			fmt.Fprintf(b, "#<lambda %d>", v.lambda.ID())
		}
	case TagCons:
		b.WriteByte('(')
		cur := v
		for n := 0; ; n++ {
			if n > 0 {
				b.WriteByte(' ')
			}
			if n >= maxPrintDepth {
				b.WriteString("...")
				break
			}
			writeValue(b, cur.car, depth+1)
			next := cur.cdr
			if next == nil || next.tag == TagNil {
				break
			}
			if next.tag != TagCons {
				b.WriteString(" . ")
				writeValue(b, next, depth+1)
				break
			}
			cur = next
		}
		b.WriteByte(')')
	default:
		b.WriteString("#<" + v.tag.String() + ">")
	}
}
