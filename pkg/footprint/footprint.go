// Package footprint computes the number of heap bytes reachable from a value.
//
// Unlike measuring the heap before and after building a value, the result does not depend on
// the garbage collector or other goroutines: walking the same structure always yields the same number.
package footprint

// spellchecker:words hmap hchan

import (
	"reflect"
	"unsafe"
)

// Reporter is implemented by values holding memory that reflection cannot discover,
// typically because it is only reachable through an unsafe.Pointer.
//
// When a Walker reaches a pointer to a Reporter, it counts the allocation of the pointed-to value
// and then calls Footprint instead of walking its fields.
type Reporter interface {
	Footprint(w *Walker)
}

var reporterType = reflect.TypeOf((*Reporter)(nil)).Elem()

// Of returns the number of heap bytes reachable from value.
// See Walker for the accounting rules.
func Of(value any) int64 {
	var w Walker
	w.Walk(value)
	return w.Bytes()
}

// Walker sums the sizes of heap objects reachable from a set of roots.
//
// Every object is counted once, identified by its address.
// The size of an object is the size of its type (or of its backing array), rounded up to a size class of the allocator.
// Functions, unsafe pointers and the buffered elements of channels are not followed.
// Maps are counted as an array of buckets, see SizeHint.
//
// The zero Walker is ready to use.
type Walker struct {
	bytes int64

	seen     map[uintptr]struct{}  // addresses already counted
	hints    map[uintptr]int       // size hints of maps
	pointers map[reflect.Type]bool // cache for hasPointers
}

// Bytes returns the number of bytes counted so far.
func (w *Walker) Bytes() int64 {
	return w.bytes
}

// Alloc counts a single allocation of the given size.
func (w *Walker) Alloc(size uintptr) {
	w.bytes += int64(roundUp(size))
}

// Walk counts every object reachable from value.
// The variable holding value is not counted.
func (w *Walker) Walk(value any) {
	if value == nil {
		return
	}
	w.walk(reflect.ValueOf(value))
}

// SizeHint records that the map m was created with the given size hint.
// Builtin maps allocate buckets for their hint up front, and keep them when cleared.
//
// SizeHint must be called before m is walked.
func (w *Walker) SizeHint(m any, hint int) {
	v := reflect.ValueOf(m)
	if v.Kind() != reflect.Map || v.IsNil() {
		return
	}
	if w.hints == nil {
		w.hints = make(map[uintptr]int)
	}
	w.hints[v.Pointer()] = hint
}

// visit marks addr as counted.
// It reports if addr had not been counted before.
func (w *Walker) visit(addr uintptr) bool {
	if w.seen == nil {
		w.seen = make(map[uintptr]struct{})
	}
	if _, ok := w.seen[addr]; ok {
		return false
	}
	w.seen[addr] = struct{}{}
	return true
}

// walk counts the objects referenced by v.
// v itself is stored inside an object that has already been counted.
func (w *Walker) walk(v reflect.Value) {
	if !w.hasPointers(v.Type()) {
		return
	}

	switch v.Kind() {
	case reflect.Pointer:
		w.walkPointer(v)
	case reflect.Slice:
		w.walkSlice(v)
	case reflect.String:
		w.walkString(v.String())
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			w.walk(v.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			w.walk(v.Field(i))
		}
	case reflect.Interface:
		w.walkInterface(v)
	case reflect.Map:
		w.walkMap(v)
	case reflect.Chan:
		w.walkChan(v)
	}
}

func (w *Walker) walkPointer(v reflect.Value) {
	if v.IsNil() {
		return
	}
	elem := v.Type().Elem()
	if elem.Size() == 0 || !w.visit(v.Pointer()) {
		return
	}
	w.Alloc(elem.Size())

	if v.CanInterface() && v.Type().Implements(reporterType) {
		v.Interface().(Reporter).Footprint(w)
		return
	}
	w.walk(v.Elem())
}

func (w *Walker) walkSlice(v reflect.Value) {
	if v.IsNil() || v.Cap() == 0 {
		return
	}
	elem := v.Type().Elem()
	if elem.Size() == 0 || !w.visit(v.Pointer()) {
		return
	}
	w.Alloc(uintptr(v.Cap()) * elem.Size())

	if !w.hasPointers(elem) {
		return
	}
	for i := 0; i < v.Len(); i++ {
		w.walk(v.Index(i))
	}
}

func (w *Walker) walkString(s string) {
	if len(s) == 0 || !w.visit(uintptr(unsafe.Pointer(unsafe.StringData(s)))) {
		return
	}
	w.Alloc(uintptr(len(s)))
}

func (w *Walker) walkInterface(v reflect.Value) {
	if v.IsNil() {
		return
	}

	elem := v.Elem()
	switch elem.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		// stored in the interface itself
		w.walk(elem)
		return
	}

	// other values are boxed
	size := elem.Type().Size()
	if size == 0 {
		return
	}
	if v.CanAddr() {
		box := (*[2]unsafe.Pointer)(v.Addr().UnsafePointer())[1]
		if !w.visit(uintptr(box)) {
			return
		}
	}
	w.Alloc(size)
	w.walk(elem)
}

func (w *Walker) walkMap(v reflect.Value) {
	if v.IsNil() || !w.visit(v.Pointer()) {
		return
	}
	w.Alloc(hmapSize)
	w.bytes += mapBytes(v.Type(), v.Len(), w.hints[v.Pointer()])

	if !w.hasPointers(v.Type().Key()) && !w.hasPointers(v.Type().Elem()) {
		return
	}
	iter := v.MapRange()
	for iter.Next() {
		w.walk(iter.Key())
		w.walk(iter.Value())
	}
}

func (w *Walker) walkChan(v reflect.Value) {
	if v.IsNil() || !w.visit(v.Pointer()) {
		return
	}
	w.Alloc(hchanSize)
	if buffer := uintptr(v.Cap()) * v.Type().Elem().Size(); buffer > 0 {
		w.Alloc(buffer)
	}
}

// hasPointers reports if values of type t may reference other objects that need to be counted.
func (w *Walker) hasPointers(t reflect.Type) bool {
	if has, ok := w.pointers[t]; ok {
		return has
	}

	var has bool
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.String, reflect.Interface, reflect.Map, reflect.Chan:
		has = true
	case reflect.Array:
		has = t.Len() > 0 && w.hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if w.hasPointers(t.Field(i).Type) {
				has = true
				break
			}
		}
	}

	if w.pointers == nil {
		w.pointers = make(map[reflect.Type]bool)
	}
	w.pointers[t] = has
	return has
}
