package inline

import (
	"strconv"

	"github.com/quickwritereader/inlay/word"
)

// tagged is the element interface used across the container tests.
type tagged interface {
	Tag() int
}

// tracked is a plain-data element whose drops are counted out of band (a
// pointer field would be rejected by the plain-data check).
type tracked struct {
	id int32
}

func (t *tracked) Tag() int { return int(t.id) }
func (t *tracked) Drop()    { dropLog[t.id]++ }

// dropLog[id] counts drops of tracked{id}. Reset per test.
var dropLog []int

func resetDrops(n int) { dropLog = make([]int, n) }

func asTagged(t *tracked) tagged { return t }

// wide is a second concrete type, two words wide, for mixed-type frames.
type wide struct {
	a, b int64
}

func (w *wide) Tag() int { return int(w.a + w.b) }

func asWideTagged(w *wide) tagged { return w }

// num implements fmt.Stringer for the single-slot holder tests.
type num int64

func (n *num) String() string { return strconv.FormatInt(int64(*n), 10) }

// Fixed-width payloads for capacity boundary tests. Tag sums the words.
type words7 [7]uint64

func (w *words7) Tag() int { return sumWords(w[:]) }

type words8 [8]uint64

func (w *words8) Tag() int { return sumWords(w[:]) }

type words16 [16]uint64

func (w *words16) Tag() int { return sumWords(w[:]) }

func sumWords(ws []uint64) int {
	total := 0
	for _, w := range ws {
		total += int(w)
	}
	return total
}

func fixed8() *word.Fixed { return word.NewFixed(8, word.U64) }
