package echo

import "bytes"

// MessageLog is an append-only record of completely received bodies, in order of their
// completion. Must be used on the event loop only.
type MessageLog struct {
	entries [][]byte
}

func NewMessageLog() *MessageLog {
	return new(MessageLog)
}

func (m *MessageLog) Append(body []byte) {
	m.entries = append(m.entries, bytes.Clone(body))
}

func (m *MessageLog) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the log. Empty bodies are represented by empty non-nil slices.
func (m *MessageLog) Entries() [][]byte {
	entries := make([][]byte, len(m.entries))
	for i, entry := range m.entries {
		entries[i] = append([]byte{}, entry...)
	}

	return entries
}
