package registry

import (
	"sync"
)

// node is an immutable link in outputBuffer's append-only chain. Once
// written, a node's bytes never change, so a reader walking the chain it
// already holds a reference into never needs to re-acquire outputBuffer's
// lock past the point where it read root.
type node struct {
	data []byte
	next *node
}

// outputBuffer is a goroutine-safe, append-only byte buffer backing a
// JobRecord's full_output (spec.md §3, §4.B). Appends never invalidate
// previously returned data: readers copy out of nodes they've already
// observed without holding the lock for the whole walk.
type outputBuffer struct {
	mu        sync.RWMutex
	root, end *node
	size      int
}

// write appends p to the buffer. It always copies p so the caller's slice can
// be reused.
func (b *outputBuffer) write(p []byte) {
	if len(p) == 0 {
		return
	}

	n := &node{data: append([]byte(nil), p...)}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.root == nil {
		b.root = n
		b.end = n
	} else {
		b.end.next = n
		b.end = n
	}
	b.size += len(n.data)
}

// len returns the total number of bytes written so far.
func (b *outputBuffer) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// readRange returns a copy of buf[offset:offset+effectiveLimit] along with
// the buffer's total length at the moment of the call, implementing
// Registry.ReadRange's contract (spec.md §4.B, §4.E). limit == 0 means "to
// end". Offsets at or beyond total length return an empty slice.
func (b *outputBuffer) readRange(offset, limit int) (data []byte, total int) {
	b.mu.RLock()
	root := b.root
	total = b.size
	b.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return nil, total
	}

	effectiveLimit := total - offset
	if limit > 0 && limit < effectiveLimit {
		effectiveLimit = limit
	}

	out := make([]byte, 0, effectiveLimit)
	pos := 0
	for n := root; n != nil && len(out) < effectiveLimit; n = n.next {
		nodeEnd := pos + len(n.data)
		if nodeEnd <= offset {
			pos = nodeEnd
			continue
		}

		start := 0
		if offset > pos {
			start = offset - pos
		}

		chunk := n.data[start:]
		remaining := effectiveLimit - len(out)
		if len(chunk) > remaining {
			chunk = chunk[:remaining]
		}
		out = append(out, chunk...)
		pos = nodeEnd
	}

	return out, total
}

// readAll is a convenience wrapper equivalent to readRange(0, 0).
func (b *outputBuffer) readAll() []byte {
	data, _ := b.readRange(0, 0)
	return data
}
