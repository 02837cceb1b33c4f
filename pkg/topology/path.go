package topology

import "fmt"

// OrderedComponentsBetween returns the components on the unique path from a
// to b, inclusive of both ends. It returns [ErrNoPath] when b is unreachable
// and [ErrAmbiguousPath] when a second path exists, for example when a and b
// straddle a splitter/mixer pair.
func (l *Loop) OrderedComponentsBetween(a, b Ref) ([]Ref, error) {
	if _, ok := l.components[a]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, a)
	}
	if _, ok := l.components[b]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, b)
	}
	if a == b {
		return []Ref{a}, nil
	}

	var (
		found  []Ref
		count  int
		onPath = map[Ref]bool{a: true}
		path   = []Ref{a}
	)

	var walk func(cur Ref)
	walk = func(cur Ref) {
		for _, next := range l.outgoing[cur] {
			if count > 1 {
				return
			}
			if next == b {
				count++
				if count == 1 {
					found = append(append([]Ref(nil), path...), b)
				}
				continue
			}
			if onPath[next] {
				continue
			}
			onPath[next] = true
			path = append(path, next)
			walk(next)
			path = path[:len(path)-1]
			onPath[next] = false
		}
	}
	walk(a)

	switch count {
	case 0:
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoPath, a, b)
	case 1:
		return found, nil
	default:
		return nil, fmt.Errorf("%w: %s -> %s", ErrAmbiguousPath, a, b)
	}
}
