package picking

import "strings"

// Labeler turns picked node names into display text, hiding the
// placeholder names exporters give to structural nodes.
type Labeler struct {
	reserved map[string]struct{}
	prefixes []string
}

// NewLabeler creates a labeler from exact reserved names and prefixes.
func NewLabeler(names, prefixes []string) *Labeler {
	l := &Labeler{reserved: make(map[string]struct{}, len(names))}
	for _, n := range names {
		l.reserved[n] = struct{}{}
	}
	for _, p := range prefixes {
		if p != "" {
			l.prefixes = append(l.prefixes, p)
		}
	}
	return l
}

// Label returns the display text for name and whether it should be shown.
func (l *Labeler) Label(name string) (string, bool) {
	if _, ok := l.reserved[name]; ok || strings.TrimSpace(name) == "" {
		return "", false
	}
	for _, p := range l.prefixes {
		if strings.HasPrefix(name, p) {
			return "", false
		}
	}
	return strings.ReplaceAll(name, "_", " "), true
}
