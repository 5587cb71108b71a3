package scene

// Flags is the branch state the prompt choices write and scene targets
// read. One instance lives on the Manager and survives scene switches;
// save slots snapshot and restore it.
type Flags struct {
	values map[string]string
}

func NewFlags() *Flags {
	return &Flags{values: map[string]string{}}
}

// Set records a choice outcome.
func (f *Flags) Set(key, value string) {
	f.values[key] = value
}

// Get returns a recorded value and whether the key was ever set.
func (f *Flags) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Matches reports whether every required equality holds. An empty or nil
// requirement matches unconditionally, which scene targets use as a
// fallthrough branch.
func (f *Flags) Matches(required map[string]string) bool {
	for key, want := range required {
		if f.values[key] != want {
			return false
		}
	}
	return true
}

// Len returns the number of recorded flags.
func (f *Flags) Len() int { return len(f.values) }

// Snapshot copies the current state for a save slot.
func (f *Flags) Snapshot() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Restore replaces the whole state from a snapshot.
func (f *Flags) Restore(values map[string]string) {
	f.values = make(map[string]string, len(values))
	for k, v := range values {
		f.values[k] = v
	}
}
