package split

import (
	"fmt"
	"time"

	"github.com/matzehuels/docktree/pkg/placeholder"
)

// EventKind names what happened to a tree.
type EventKind uint8

const (
	EventInserted EventKind = iota
	EventRemoved
	EventCollapsed
	EventFilled
	EventStacked
	EventSelected
	EventDividerMoved
	EventPlaceholderAdded
	EventPlaceholderRemoved
	EventPruned
	EventReplaced
)

var eventNames = [...]string{
	"inserted", "removed", "collapsed", "filled", "stacked", "selected",
	"divider-moved", "placeholder-added", "placeholder-removed", "pruned", "replaced",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Event describes one completed change. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Node    NodeID
	Content ContentID
	Token   placeholder.Token
}

// Listener is notified about tree changes.
type Listener interface {
	OnTreeEvent(Event)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(Event)

// OnTreeEvent implements Listener.
func (f ListenerFunc) OnTreeEvent(e Event) { f(e) }

type listenerEntry struct{ l Listener }

// AddListener registers l and returns a function removing it again.
func (t *Tree) AddListener(l Listener) (remove func()) {
	e := &listenerEntry{l: l}
	t.mu.Lock()
	t.listeners = append(t.listeners, e)
	t.mu.Unlock()
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, x := range t.listeners {
			if x == e {
				t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// batch collects what one edit did while the lock is held.
type batch struct {
	op        string
	events    []Event
	collapses int
}

func (b *batch) add(kind EventKind, id NodeID) *Event {
	b.events = append(b.events, Event{Kind: kind, Node: id})
	return &b.events[len(b.events)-1]
}

// edit runs fn under the write lock and publishes its events afterwards.
// fn must validate before it mutates so that a failed edit changes nothing.
func (t *Tree) edit(op string, fn func(b *batch) error) error {
	start := time.Now()
	b := &batch{op: op}
	t.mu.Lock()
	err := fn(b)
	t.mu.Unlock()
	if err == errStale {
		return err
	}
	hooks := t.hookSet()
	hooks.OnEdit(op, time.Since(start), err)
	for range b.collapses {
		hooks.OnCollapse(op)
	}
	if err != nil {
		return err
	}
	t.publish(b.events)
	return nil
}

func (t *Tree) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	t.txMu.Lock()
	if t.txDepth > 0 {
		t.pending = append(t.pending, events...)
		t.txMu.Unlock()
		return
	}
	t.txMu.Unlock()
	t.deliver(events)
}

func (t *Tree) deliver(events []Event) {
	t.mu.RLock()
	ls := make([]Listener, len(t.listeners))
	for i, e := range t.listeners {
		ls[i] = e.l
	}
	t.mu.RUnlock()
	for _, e := range events {
		for _, l := range ls {
			l.OnTreeEvent(e)
		}
	}
}

func (t *Tree) begin() {
	t.txMu.Lock()
	t.txDepth++
	t.txMu.Unlock()
}

func (t *Tree) end() {
	t.txMu.Lock()
	t.txDepth--
	if t.txDepth > 0 {
		t.txMu.Unlock()
		return
	}
	events := t.pending
	t.pending = nil
	t.txMu.Unlock()
	t.deliver(events)
}

// Transaction runs fn with listener notification deferred until the outermost
// transaction returns. Edits inside fn stay individually atomic; events of
// edits that completed are delivered even when fn returns an error.
func (t *Tree) Transaction(fn func() error) error {
	t.begin()
	defer t.end()
	return fn()
}

// EnsureNotHidden selects content in every tree that holds it. All trees are
// inside a transaction until every selection is done, so no listener sees a
// state where only some of them changed.
func EnsureNotHidden(c ContentID, trees ...*Tree) error {
	for _, t := range trees {
		t.begin()
	}
	defer func() {
		for _, t := range trees {
			t.end()
		}
	}()
	for _, t := range trees {
		if _, ok := t.LeafOf(c); !ok {
			continue
		}
		if err := t.Select(c); err != nil {
			return err
		}
	}
	return nil
}
