package translit

// offsetMap converts offsets of translated text back to the source.
// Entries are ordered by Out.
type offsetMap []Substitution

func (m offsetMap) original(out int) int {
	delta := 0
	for _, s := range m {
		if out < s.Out {
			break
		}
		if out < s.Out+len(s.To) {
			return int(s.Span.Start)
		}
		delta += len(s.To) - len(s.From)
	}
	if orig := out - delta; orig > 0 {
		return orig
	}
	return 0
}
