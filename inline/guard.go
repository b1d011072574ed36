package inline

import "unsafe"

// fillFrame writes n elements into a freshly reserved frame one at a time,
// guarding against a panic out of gen. On such a panic the elements already
// written are dropped in forward order, the owning container's cursor is
// reset to its pre-push value, and the panic resumes: the container's
// observable state is exactly as if the push had never been attempted. On
// completion the true count is committed into the frame's descriptor word.
func fillFrame[I any](meta []byte, data unsafe.Pointer, n int, gen func(int) I, elemDrop func(unsafe.Pointer), cursor *int, prev int) {
	elemSize := uintptr(sizeOfElem[I]())
	written := 0
	defer func() {
		if r := recover(); r != nil {
			if elemDrop != nil {
				for j := 0; j < written; j++ {
					elemDrop(unsafe.Add(data, uintptr(j)*elemSize))
				}
			}
			*cursor = prev
			panic(r)
		}
	}()
	for i := 0; i < n; i++ {
		*(*I)(unsafe.Add(data, uintptr(i)*elemSize)) = gen(i)
		written++
	}
	putMeta(meta, uint64(n))
}
