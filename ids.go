package rcon

// idAllocator hands out packet IDs in increasing order. Once max has been handed out it wraps back to first rather
// than to zero, which keeps IDs clear of the -1 auth failure sentinel and of any low values a server may use.
type idAllocator struct {
	first      int32
	max        int32
	next       int32
	restricted []int32
}

func newIDAllocator(first, max int32, restricted []int32) *idAllocator {
	return &idAllocator{
		first:      first,
		max:        max,
		next:       first,
		restricted: restricted,
	}
}

func idInArr(arr []int32, id int32) bool {
	for _, v := range arr {
		if v == id {
			return true
		}
	}

	return false
}

func (a *idAllocator) advance() {
	if a.next >= a.max {
		a.next = a.first
	} else {
		a.next++
	}
}

// Next returns the next free ID, skipping restricted IDs. If every ID in range is restricted it gives up after one
// full cycle and returns a restricted one.
func (a *idAllocator) Next() int32 {
	for i := int64(0); idInArr(a.restricted, a.next) && i <= int64(a.max)-int64(a.first); i++ {
		a.advance()
	}

	id := a.next
	a.advance()

	return id
}
