package vtab

import (
	"fmt"
	"reflect"
	"unsafe"
)

// eface mirrors the runtime layout of an interface value: a type word
// followed by a data word.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

func efaceOf(i *any) *eface { return (*eface)(unsafe.Pointer(i)) }

// typeOf returns the runtime type word identifying U (via *U, which is
// non-nil-safe to box and unique per U).
func typeOf[U any]() unsafe.Pointer {
	var p *U
	i := any(p)
	return efaceOf(&i).typ
}

// CheckRef validates a caller-supplied narrowing function against the entry
// registered for U: the view it returns must carry exactly the address of the
// value passed in and the dynamic type the entry was registered with. Returns
// the value's address for the frame write. A mismatch is a contract violation
// and panics.
func CheckRef[T, U any](e *Entry[T], p *U, narrow func(*U) T) unsafe.Pointer {
	v := any(narrow(p))
	ev := efaceOf(&v)
	if ev.data != unsafe.Pointer(p) {
		panic("vtab: narrowing function returned a view of a different value")
	}
	if ev.typ != e.typ {
		panic("vtab: narrowing function changed the value's dynamic type")
	}
	return unsafe.Pointer(p)
}

// CheckAlign panics when an element's alignment requirement exceeds the
// buffer's word alignment. This is a programmer error (wrong buffer word
// size for the element type), not a runtime condition.
func CheckAlign(elemAlign, wordAlign int) {
	if elemAlign > wordAlign {
		panic(fmt.Sprintf("vtab: element alignment %d exceeds buffer word alignment %d", elemAlign, wordAlign))
	}
}

// CheckPlainData panics when U contains pointer words. Stored bytes live in
// buffers the collector does not scan, so a stored pointer would not keep its
// referent alive.
func CheckPlainData[U any]() {
	t := reflect.TypeFor[U]()
	if hasPointers(t) {
		panic(fmt.Sprintf("vtab: %v is not plain data (contains pointer, slice, map, chan, func, string or interface fields)", t))
	}
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		// Pointer, UnsafePointer, Slice, String, Map, Chan, Func, Interface.
		return true
	}
}
