package scene

// historyLimit bounds the backlog; old lines fall off the front.
const historyLimit = 200

// HistoryEntry is one spoken line in the dialogue backlog.
type HistoryEntry struct {
	Speaker string
	Text    string
}

// History is the dialogue backlog the log overlay shows. It lives on the
// Manager so it survives scene switches.
type History struct {
	entries []HistoryEntry
}

func NewHistory() *History {
	return &History{}
}

// Add appends a line, dropping the oldest past the limit.
func (h *History) Add(speaker, text string) {
	h.entries = append(h.entries, HistoryEntry{Speaker: speaker, Text: text})
	if len(h.entries) > historyLimit {
		h.entries = h.entries[len(h.entries)-historyLimit:]
	}
}

// Entries returns the backlog oldest first. The slice is shared; callers
// only read it.
func (h *History) Entries() []HistoryEntry { return h.entries }

func (h *History) Len() int { return len(h.entries) }
