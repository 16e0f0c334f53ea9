package history

import (
	"github.com/kobzarvs/gridedit/internal/logger"
	"github.com/kobzarvs/gridedit/internal/textbuf"
)

// DefaultCapacity bounds both the undo and the redo stack.
const DefaultCapacity = 100

// Recorded keeps two bounded stacks of ActionLists: history (undoable) and
// undone (redoable). Overflow silently drops the oldest entry.
type Recorded struct {
	history *deque[ActionList]
	undone  *deque[ActionList]
}

// NewRecorded returns an empty history holding at most capacity steps per
// stack. A non-positive capacity means DefaultCapacity.
func NewRecorded(capacity int) *Recorded {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorded{
		history: newDeque[ActionList](capacity),
		undone:  newDeque[ActionList](capacity),
	}
}

func (r *Recorded) Capacity() int { return r.history.Cap() }

// Record adds an action that has just been applied to the buffer. It
// extends the newest list when that list is empty or ends with an action
// of the same kind; otherwise it starts a new list. Any redo state is lost.
func (r *Recorded) Record(a Action) {
	r.undone.Clear()
	if front, ok := r.history.Front(); ok {
		if last, ok := front.last(); !ok || last.Kind == a.Kind {
			*front = append(*front, a)
			logger.Debug("history merge", "action", a.String(), "size", len(*front))
			return
		}
	}
	r.push(ActionList{a})
	logger.Debug("history record", "action", a.String())
}

// RecordList records actions that were applied together as one undo step,
// whatever their kinds. The step is closed so later actions never merge
// into it.
func (r *Recorded) RecordList(l ActionList) {
	if len(l) == 0 {
		return
	}
	r.undone.Clear()
	r.Bump()
	front, _ := r.history.Front()
	*front = append(*front, l...)
	r.Bump()
	logger.Debug("history record list", "actions", len(l))
}

// Bump closes the newest list so the next Record starts a new one.
func (r *Recorded) Bump() {
	if front, ok := r.history.Front(); ok && len(*front) == 0 {
		return
	}
	r.push(ActionList{})
}

func (r *Recorded) push(l ActionList) {
	if evicted, ok := r.history.PushFront(l); ok {
		logger.Debug("history evict", "actions", len(evicted))
	}
}

// Undo reverts the newest non-empty list, applying inverses last to first,
// and moves it to the redo stack. It returns the position of the last
// inverted action.
func (r *Recorded) Undo(buf *textbuf.TextBuffer) (textbuf.Position, bool) {
	list, ok := r.popNonEmpty()
	if !ok {
		return textbuf.Position{}, false
	}
	r.undone.PushFront(list.Clone())
	var pos textbuf.Position
	for i := len(list) - 1; i >= 0; i-- {
		inv := list[i].Invert()
		inv.Apply(buf)
		pos = inv.Pos
	}
	logger.Debug("history undo", "actions", len(list))
	return pos, true
}

// Redo re-applies the newest undone list in its original order and moves it
// back onto the history stack as a closed step. It returns the position of
// the last action.
func (r *Recorded) Redo(buf *textbuf.TextBuffer) (textbuf.Position, bool) {
	list, ok := r.undone.PopFront()
	if !ok {
		return textbuf.Position{}, false
	}
	var pos textbuf.Position
	for _, a := range list {
		a.Apply(buf)
		pos = a.Pos
	}
	r.push(list)
	r.Bump()
	logger.Debug("history redo", "actions", len(list))
	return pos, true
}

func (r *Recorded) popNonEmpty() (ActionList, bool) {
	for {
		list, ok := r.history.PopFront()
		if !ok {
			return nil, false
		}
		if len(list) > 0 {
			return list, true
		}
	}
}

func (r *Recorded) CanUndo() bool { return r.Len() > 0 }

func (r *Recorded) CanRedo() bool { return r.undone.Len() > 0 }

// Len is the number of undo steps available.
func (r *Recorded) Len() int {
	n := 0
	for i := 0; i < r.history.Len(); i++ {
		if len(r.history.At(i)) > 0 {
			n++
		}
	}
	return n
}

// RedoLen is the number of redo steps available.
func (r *Recorded) RedoLen() int { return r.undone.Len() }

// Reset drops both stacks.
func (r *Recorded) Reset() {
	r.history.Clear()
	r.undone.Clear()
}
