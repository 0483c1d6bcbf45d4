package execloop

// newUnboundedChunkChan returns a send side and a receive side backed by an
// in-memory queue with no capacity bound: the dedicated reader thread (see
// reader.go) can always send without blocking, regardless of how slowly the
// execution loop drains it. This is what lets the loop's timeout-race
// (loop.go) stay honest — the reader is never stalled waiting on a full
// channel, so "no chunk available" always means "the child hasn't produced
// one," never "the consumer is behind."
func newUnboundedChunkChan() (chan<- []byte, <-chan []byte) {
	in := make(chan []byte)
	out := make(chan []byte)

	go func() {
		defer close(out)

		var queue [][]byte

		for {
			if len(queue) == 0 {
				v, ok := <-in
				if !ok {
					return
				}
				queue = append(queue, v)
				continue
			}

			select {
			case v, ok := <-in:
				if !ok {
					for _, q := range queue {
						out <- q
					}
					return
				}
				queue = append(queue, v)
			case out <- queue[0]:
				queue = queue[1:]
			}
		}
	}()

	return in, out
}
