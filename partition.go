package seqdict

// chunk is a half-open record range [start, end) with a sequence index.
// The chunks of a job partition [0, total) in ascending order with no
// gaps or overlaps. Chunks are immutable once produced; ownership passes
// to whichever worker renders them.
type chunk struct {
	index int
	start uint64
	end   uint64
}

func (c chunk) records() uint64 { return c.end - c.start }

// partition splits total records into ordered chunks of at most size
// records each: chunk i covers [i*size, min((i+1)*size, total)). The
// final chunk may be shorter; no chunk is empty.
//
// Pure function of (total, size): deterministic, no I/O.
func partition(total, size uint64) []chunk {
	n := int((total + size - 1) / size)
	chunks := make([]chunk, 0, n)
	for i := range n {
		start := uint64(i) * size
		end := min(start+size, total)
		chunks = append(chunks, chunk{index: i, start: start, end: end})
	}
	return chunks
}
