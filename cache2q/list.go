package cache2q

// orderedList is an intrusive doubly linked list of *entry. head is the
// coldest (least recently promoted) member, tail is the warmest. All
// operations are O(1) given a direct *entry handle.
type orderedList struct {
	head, tail *entry
	n          int
}

// pushTail appends e as the new warmest member.
func (l *orderedList) pushTail(e *entry) {
	e.prev = l.tail
	e.next = nil
	if l.tail != nil {
		l.tail.next = e
	}
	l.tail = e
	if l.head == nil {
		l.head = e
	}
	l.n++
}

// pushHead prepends e as the new coldest member.
func (l *orderedList) pushHead(e *entry) {
	e.next = l.head
	e.prev = nil
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
	l.n++
}

// remove detaches e from the list. e must currently be a member.
func (l *orderedList) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next = nil, nil
	l.n--
}

// moveToTail re-positions e (already a member) as the new warmest member.
func (l *orderedList) moveToTail(e *entry) {
	if l.tail == e {
		return
	}
	l.remove(e)
	l.pushTail(e)
}

func (l *orderedList) len() int { return l.n }
