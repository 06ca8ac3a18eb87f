// Package palette assigns stable chart colors to labels. It is a presentation
// concern; the landscape engine never touches it.
package palette

import "sync"

// Assigner hands out one color per label and keeps handing out the same one.
type Assigner interface {
	Assign(label string) string
}

// DefaultColors is a 12-color qualitative palette.
var DefaultColors = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948",
	"#b07aa1", "#ff9da7", "#9c755f", "#bab0ac", "#1f77b4", "#17becf",
}

// Memo assigns palette colors in first-seen order, cycling when the palette runs
// out. Safe for concurrent use.
type Memo struct {
	mu     sync.Mutex
	colors []string
	byName map[string]string
}

func NewMemo(colors []string) *Memo {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return &Memo{colors: colors, byName: map[string]string{}}
}

func (m *Memo) Assign(label string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byName[label]; ok {
		return c
	}
	c := m.colors[len(m.byName)%len(m.colors)]
	m.byName[label] = c
	return c
}
