package aebg

// NameTable is the ordered list of animation frame names that image indices point into.
type NameTable interface {
	Len() int
	Name(i int) (string, bool)
	IndexOf(name string) (int, bool)
}

type Names []string

func (n Names) Len() int { return len(n) }

func (n Names) Name(i int) (string, bool) {
	if i < 0 || i >= len(n) {
		return "", false
	}
	return n[i], true
}

func (n Names) IndexOf(name string) (int, bool) {
	for i, s := range n {
		if s == name {
			return i, true
		}
	}
	return -1, false
}
