package execloop

import "io"

// readChunkSize is the size of each read off the PTY master. Small enough to
// keep per-chunk notification latency low, large enough not to thrash.
const readChunkSize = 4096

// startReader launches the dedicated goroutine that performs blocking reads
// on r (the PTY master) and forwards copies of each chunk on in, closing in
// when r returns an error (EOF, or the POSIX EIO a PTY master commonly
// returns once its slave's last open fd closes). This is the "companion
// blocking reader" of spec.md §4.D: it never touches the execution loop's
// state directly, only the channel.
func startReader(r io.Reader, in chan<- []byte) {
	go func() {
		defer close(in)

		buf := make([]byte, readChunkSize)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				in <- chunk
			}
			if err != nil {
				return
			}
		}
	}()
}
