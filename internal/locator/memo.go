package locator

// Memo remembers the last index that resolved for each family. Page structure is stable within
// a session, so the remembered index is probed first on the next pass.
type Memo map[string]int

func (m Memo) Last(name string) int {
	if m == nil {
		return 0
	}
	return m[name]
}

func (m Memo) Remember(match Match, name string) {
	if m == nil || match.Index == 0 {
		return
	}
	m[name] = match.Index
}
