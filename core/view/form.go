package view

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/alumnos/core/student"
)

// FormController drives the create and edit screens.
// An edit form loads its record first; only a Ready form accepts edits and submits.
type FormController struct {
	gw   student.Gateway
	mode student.Mode
	id   int
	opts Options

	mu         sync.Mutex
	state      State // Loading | Ready[student.Draft] | Failed
	loaded     chan struct{}
	submitting bool
	succeeded  bool
	notices    noticeBoard
	navTimer   timer
	navigate   chan struct{}
	closed     bool
}

// NewCreateForm returns a Ready form holding an empty draft.
func NewCreateForm(gw student.Gateway, opts Options) (*FormController, error) {
	c, err := newForm(gw, student.ModeCreate, 0, opts)
	if err != nil {
		return nil, err
	}
	c.state = Ready[student.Draft]{}
	close(c.loaded)
	return c, nil
}

// NewEditForm starts loading student id. The form becomes Ready with the record's values,
// or Failed when the record cannot be fetched.
func NewEditForm(gw student.Gateway, id int, opts Options) (*FormController, error) {
	c, err := newForm(gw, student.ModeEdit, id, opts)
	if err != nil {
		return nil, err
	}
	go func() {
		s, err := gw.GetStudent(context.Background(), id)
		c.fetched(s, err)
	}()
	return c, nil
}

func newForm(gw student.Gateway, mode student.Mode, id int, opts Options) (*FormController, error) {
	if err := checkGateway(gw); err != nil {
		return nil, errors.Wrapf(err, "creating %s form", mode)
	}
	return &FormController{
		gw:       gw,
		mode:     mode,
		id:       id,
		opts:     opts.withDefaults(),
		state:    Loading{},
		loaded:   make(chan struct{}),
		navigate: make(chan struct{}),
	}, nil
}

func (c *FormController) fetched(s student.Student, err error) {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	defer close(c.loaded)
	if c.closed {
		return
	}
	if err != nil {
		c.opts.Logger.Error("loading student", err, map[string]interface{}{"id": c.id})
		c.state = Failed{Err: err, Message: student.LoadErrorMessage(err, student.MsgLoadFailed)}
		return
	}
	c.state = Ready[student.Draft]{Data: student.DraftFromStudent(s)}
}

// Mode tells whether the form creates or edits.
func (c *FormController) Mode() student.Mode { return c.mode }

// ID is the edited student's id; 0 for create forms.
func (c *FormController) ID() int { return c.id }

// Loaded returns a channel closed once the form has left Loading.
func (c *FormController) Loaded() <-chan struct{} { return c.loaded }

// State returns Loading, Ready[student.Draft] or Failed.
func (c *FormController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Draft returns the current values, if the form is Ready.
func (c *FormController) Draft() (student.Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ready, ok := c.state.(Ready[student.Draft])
	return ready.Data, ok
}

// Set updates one field of the draft.
func (c *FormController) Set(field, value string) error {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	ready, ok := c.state.(Ready[student.Draft])
	if !ok {
		return ErrNotReady
	}
	if err := ready.Data.Set(field, value); err != nil {
		return err
	}
	c.state = ready
	return nil
}

// Submitting reports whether a create or update is in flight.
func (c *FormController) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Succeeded reports whether the last submit went through.
func (c *FormController) Succeeded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.succeeded
}

// Submit validates the draft and sends it to the gateway.
// A draft failing validation is not sent: the error is returned and shown as a notice.
// The returned channel is closed once the gateway call completes.
func (c *FormController) Submit() (<-chan struct{}, error) {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	ready, ok := c.state.(Ready[student.Draft])
	if !ok {
		return nil, ErrNotReady
	}
	if c.submitting {
		return nil, ErrSubmitInFlight
	}

	draft := ready.Data
	err := draft.Validate(validate, translator)
	c.state = Ready[student.Draft]{Data: draft}
	if err != nil {
		c.notices.show(Notice{Variant: Danger, Message: student.DraftErrorMessage(err)}, 0, nil)
		return nil, err
	}
	payload, err := draft.Payload()
	if err != nil {
		c.notices.show(Notice{Variant: Danger, Message: student.DraftErrorMessage(err)}, 0, nil)
		return nil, err
	}

	c.submitting = true
	c.succeeded = false
	c.notices.dismiss()
	done := make(chan struct{})
	go func() {
		defer close(done)
		var err error
		if c.mode == student.ModeEdit {
			_, err = c.gw.UpdateStudent(context.Background(), c.id, payload)
		} else {
			_, err = c.gw.CreateStudent(context.Background(), payload)
		}
		c.submitted(draft, err)
	}()
	return done, nil
}

func (c *FormController) submitted(draft student.Draft, err error) {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.submitting = false
	if c.closed {
		return
	}
	if err != nil {
		c.opts.Logger.Error("saving student", err, map[string]interface{}{"mode": c.mode.String(), "id": c.id})
		c.notices.show(Notice{Variant: Danger, Message: student.FormErrorMessage(err, c.mode, draft)}, 0, nil)
		return
	}

	msg := student.MsgCreated
	if c.mode == student.ModeEdit {
		msg = student.MsgUpdated
	}
	c.succeeded = true
	c.notices.show(Notice{Variant: Success, Message: msg}, 0, nil)
	if c.navTimer == nil {
		c.navTimer = afterFunc(c.opts.RedirectDelay, c.signalNavigate)
	}
}

func (c *FormController) signalNavigate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case <-c.navigate:
	default:
		close(c.navigate)
	}
}

// Navigate returns a channel closed RedirectDelay after a successful submit,
// when the screen should move on to the list.
func (c *FormController) Navigate() <-chan struct{} { return c.navigate }

// Notice returns the message of the last submit, if any.
func (c *FormController) Notice() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notices.current()
}

// DismissNotice hides the current notice.
func (c *FormController) DismissNotice() {
	defer c.notify()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices.dismiss()
}

// Close tears the form down: a pending navigation is cancelled and late results are discarded.
func (c *FormController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.notices.stop()
	if c.navTimer != nil {
		c.navTimer.Stop()
	}
}

func (c *FormController) notify() {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed && c.opts.OnChange != nil {
		c.opts.OnChange()
	}
}
