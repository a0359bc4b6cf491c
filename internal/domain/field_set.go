package domain

// fieldSet keeps named field configs in declaration order.
type fieldSet[T any] struct {
	names []string
	items map[string]*T
}

func (s *fieldSet[T]) get(name string) (*T, bool) {
	item, ok := s.items[name]
	return item, ok
}

func (s *fieldSet[T]) getOrAdd(name string) *T {
	if item, ok := s.items[name]; ok {
		return item
	}
	item := new(T)
	s.set(name, item)
	return item
}

func (s *fieldSet[T]) set(name string, item *T) {
	if item == nil {
		item = new(T)
	}
	if s.items == nil {
		s.items = make(map[string]*T)
	}
	if _, ok := s.items[name]; !ok {
		s.names = append(s.names, name)
	}
	s.items[name] = item
}

func (s *fieldSet[T]) remove(name string) {
	if _, ok := s.items[name]; !ok {
		return
	}
	delete(s.items, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

func (s *fieldSet[T]) list() []string {
	if len(s.names) == 0 {
		return nil
	}
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

func (s *fieldSet[T]) len() int {
	return len(s.names)
}

func (s *fieldSet[T]) clone(cloneItem func(*T) *T) fieldSet[T] {
	out := fieldSet[T]{}
	for _, name := range s.names {
		out.set(name, cloneItem(s.items[name]))
	}
	return out
}

func (s *fieldSet[T]) toMap(itemToMap func(*T) map[string]any) map[string]any {
	if len(s.names) == 0 {
		return nil
	}
	out := make(map[string]any, len(s.names))
	for _, name := range s.names {
		if m := itemToMap(s.items[name]); m != nil {
			out[name] = m
		} else {
			out[name] = nil
		}
	}
	return out
}
