package view

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/alumnos/core/student"
)

// ListController owns the fetched collection of students and the delete confirmation workflow.
// The collection is only ever replaced by a full fetch, never patched.
type ListController struct {
	gw      student.Gateway
	opts    Options
	failMsg func(error) string

	mu       sync.Mutex
	state    State // Loading | Ready[[]student.Student] | Failed
	fetching bool
	refetch  bool
	waiters  []chan struct{}
	pending  *student.Student
	deleting bool
	notices  noticeBoard
	closed   bool
}

// NewListController starts fetching the collection right away.
func NewListController(gw student.Gateway, opts Options) (*ListController, error) {
	return newListController(gw, opts, func(err error) string {
		return student.LoadErrorMessage(err, student.MsgListFailed)
	})
}

func newListController(gw student.Gateway, opts Options, failMsg func(error) string) (*ListController, error) {
	if err := checkGateway(gw); err != nil {
		return nil, errors.Wrap(err, "creating list controller")
	}
	c := &ListController{
		gw:      gw,
		opts:    opts.withDefaults(),
		failMsg: failMsg,
		state:   Loading{},
	}
	c.Refresh()
	return c, nil
}

// State returns Loading, Ready[[]student.Student] or Failed.
func (c *ListController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Students returns the collection of the last successful fetch, if the controller is Ready.
func (c *ListController) Students() ([]student.Student, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ready, ok := c.state.(Ready[[]student.Student])
	if !ok {
		return nil, false
	}
	students := make([]student.Student, len(ready.Data))
	copy(students, ready.Data)
	return students, true
}

// Refresh re-fetches the collection. The returned channel is closed once the state settles.
// A refresh requested while a fetch is in flight does not start a second request; the
// outstanding result is discarded and one more fetch follows it.
func (c *ListController) Refresh() <-chan struct{} {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return closedChan()
	}
	c.state = Loading{}
	if c.fetching {
		c.refetch = true
	} else {
		c.fetchLocked()
	}
	return c.settledLocked()
}

// Settled returns a channel closed once no fetch is in flight.
func (c *ListController) Settled() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settledLocked()
}

func (c *ListController) settledLocked() <-chan struct{} {
	if c.closed || !c.fetching {
		return closedChan()
	}
	ch := make(chan struct{})
	c.waiters = append(c.waiters, ch)
	return ch
}

func (c *ListController) fetchLocked() {
	c.fetching = true
	go func() {
		students, err := c.gw.ListStudents(context.Background())
		c.fetched(students, err)
	}()
}

func (c *ListController) fetched(students []student.Student, err error) {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.refetch {
		c.refetch = false
		c.fetchLocked()
		return
	}

	c.fetching = false
	if err != nil {
		c.opts.Logger.Error("listing students", err)
		c.state = Failed{Err: err, Message: c.failMsg(err)}
	} else {
		c.state = Ready[[]student.Student]{Data: students}
	}
	c.releaseWaitersLocked()
}

func (c *ListController) releaseWaitersLocked() {
	for _, ch := range c.waiters {
		close(ch)
	}
	c.waiters = nil
}

// RequestDelete asks for confirmation before deleting s. Nothing is sent to the gateway yet.
func (c *ListController) RequestDelete(s student.Student) {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.deleting {
		return
	}
	c.pending = &s
}

// CancelDelete drops the pending confirmation. It does nothing while a delete is in flight.
func (c *ListController) CancelDelete() {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deleting {
		return
	}
	c.pending = nil
}

// PendingDelete returns the student awaiting confirmation, if any.
func (c *ListController) PendingDelete() (student.Student, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return student.Student{}, false
	}
	return *c.pending, true
}

// Deleting reports whether a confirmed delete is in flight.
func (c *ListController) Deleting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deleting
}

// ConfirmDelete deletes the pending student. Only one delete may be in flight at a time:
// further calls fail with ErrDeleteInFlight until it completes.
// The returned channel is closed once the delete, and the refresh following a success, are done.
func (c *ListController) ConfirmDelete() (<-chan struct{}, error) {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return nil, ErrClosed
	case c.deleting:
		return nil, ErrDeleteInFlight
	case c.pending == nil:
		return nil, ErrNoPendingDelete
	}

	c.deleting = true
	target := *c.pending
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := c.gw.DeleteStudent(context.Background(), target.ID)
		if refreshed := c.deleted(target, err); refreshed {
			<-c.Refresh()
		}
	}()
	return done, nil
}

// deleted applies the outcome of a delete and reports whether a refresh is due.
func (c *ListController) deleted(target student.Student, err error) bool {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.deleting = false
	if c.closed {
		return false
	}
	c.pending = nil
	if err != nil {
		c.opts.Logger.Error("deleting student", err, map[string]interface{}{"id": target.ID})
		c.notices.show(Notice{Variant: Danger, Message: student.DeleteErrorMessage(err)}, c.opts.NoticeTTL, c.clearNotice)
		return false
	}
	c.notices.show(Notice{Variant: Success, Message: student.DeletedMessage(target)}, c.opts.NoticeTTL, c.clearNotice)
	return true
}

// Notice returns the transient notice currently shown, if any.
func (c *ListController) Notice() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notices.current()
}

func (c *ListController) clearNotice(seq int) {
	c.mu.Lock()
	cleared := !c.closed && c.notices.clear(seq)
	c.mu.Unlock()
	if cleared {
		c.notify()
	}
}

// Close tears the controller down: timers stop and late results are discarded.
func (c *ListController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.notices.stop()
	c.releaseWaitersLocked()
}

func (c *ListController) notify() {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed && c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}
