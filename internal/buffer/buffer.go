package buffer

// Buffer accumulates byte sequences which arrived in pieces across multiple reads, hosting
// them in a single place. Every completed sequence (a segment) stays valid until Clear.
type Buffer struct {
	memory  []byte
	begin   int
	maxSize int
}

func New(initialSize, maxSize int) Buffer {
	return Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data, checking whether the new amount of bytes doesn't exceed the limit,
// otherwise discarding the data and returning false.
func (b *Buffer) Append(data []byte) (ok bool) {
	if len(b.memory)+len(data) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, data...)
	return true
}

// SegmentLength returns a number of bytes taken by the current segment.
func (b *Buffer) SegmentLength() int {
	return len(b.memory) - b.begin
}

// Finish completes current segment, returning its value.
func (b *Buffer) Finish() []byte {
	segment := b.memory[b.begin:]
	b.begin = len(b.memory)

	return segment
}

// Clear just resets the pointers, so old values may be overridden by new ones.
func (b *Buffer) Clear() {
	b.begin = 0
	b.memory = b.memory[:0]
}
