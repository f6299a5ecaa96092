package regalloc

// poolPageSize mirrors wazevoapi.Pool's page size: large enough that most
// single-function compilations never allocate a second page, small enough
// that the first page isn't a wasteful up-front cost for tiny functions.
const poolPageSize = 128

// Pool is a page-based arena for values that are allocated once per
// compilation. Allocate returns both a pointer and a stable index (View
// maps the index back to the pointer); pages are kept across Reset so
// later compilations reuse them. In this package only LiveRange values
// come from a Pool, and they are referenced by pointer.
type Pool[T any] struct {
	pages            []*[poolPageSize]T
	allocated, index int
}

func NewPool[T any]() Pool[T] {
	var p Pool[T]
	p.Reset()
	return p
}

// Allocated returns the number of live values currently handed out.
func (p *Pool[T]) Allocated() int { return p.allocated }

// Allocate returns a pointer to a fresh, zero-valued T and the index that
// View must be called with to recover the same pointer later.
func (p *Pool[T]) Allocate() (*T, int) {
	if p.index == poolPageSize {
		if len(p.pages) == cap(p.pages) {
			p.pages = append(p.pages, new([poolPageSize]T))
		} else {
			i := len(p.pages)
			p.pages = p.pages[:i+1]
			if p.pages[i] == nil {
				p.pages[i] = new([poolPageSize]T)
			}
		}
		p.index = 0
	}
	idx := (len(p.pages)-1)*poolPageSize + p.index
	ret := &p.pages[len(p.pages)-1][p.index]
	p.index++
	p.allocated++
	return ret, idx
}

// View returns the pointer for the index returned by a previous Allocate.
func (p *Pool[T]) View(i int) *T {
	page, index := i/poolPageSize, i%poolPageSize
	return &p.pages[page][index]
}

// Reset zeroes every allocated value and returns the arena to empty,
// ready for the next compilation to reuse its backing pages.
func (p *Pool[T]) Reset() {
	for _, page := range p.pages {
		for i := range page {
			var zero T
			page[i] = zero
		}
	}
	p.pages = p.pages[:0]
	p.index = poolPageSize
	p.allocated = 0
}
