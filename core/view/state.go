// Package view holds the controllers behind the admin screens: the student list,
// the create/edit form and the dashboard.
//
// Controllers talk to a student.Gateway on background goroutines and are safe for
// concurrent use. A controller that has been closed discards any late result.
package view

import (
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/alumnos/core"
	"github.com/trezcool/alumnos/core/student"
)

const (
	DefaultNoticeTTL     = 3 * time.Second
	DefaultRedirectDelay = 1500 * time.Millisecond
)

var (
	ErrClosed          = errors.New("controller closed")
	ErrNotReady        = errors.New("form is not ready")
	ErrNoPendingDelete = errors.New("no delete pending confirmation")
	ErrDeleteInFlight  = errors.New("a delete is already in progress")
	ErrSubmitInFlight  = errors.New("a submit is already in progress")

	// validator shared by all forms
	validate, translator = core.NewValidator()
)

// State is one of Loading, Ready[T] or Failed.
type State interface {
	state()
}

type (
	Loading struct{}

	Ready[T any] struct {
		Data T
	}

	Failed struct {
		Err     error
		Message string // human readable
	}
)

func (Loading) state()  {}
func (Ready[T]) state() {}
func (Failed) state()   {}

type Variant string

const (
	Success Variant = "success"
	Danger  Variant = "danger"
)

// Notice is a transient message shown near the action that triggered it.
type Notice struct {
	Variant Variant
	Message string
}

// Options configure a controller.
type Options struct {
	NoticeTTL     time.Duration // list notices auto-clear after this long
	RedirectDelay time.Duration // forms signal navigation this long after a successful submit
	Logger        core.Logger
	OnChange      func() // called after every state change, never with a lock held
}

// OptionsFromConfig builds controller Options from the app configuration.
func OptionsFromConfig(conf *core.Config, logger core.Logger) Options {
	return Options{
		NoticeTTL:     conf.UI.NoticeTTL,
		RedirectDelay: conf.UI.RedirectDelay,
		Logger:        logger,
	}
}

func (o Options) withDefaults() Options {
	if o.NoticeTTL <= 0 {
		o.NoticeTTL = DefaultNoticeTTL
	}
	if o.RedirectDelay <= 0 {
		o.RedirectDelay = DefaultRedirectDelay
	}
	if o.Logger == nil {
		o.Logger = core.NopLogger{}
	}
	return o
}

func checkGateway(gw student.Gateway) error {
	if gw == nil {
		return errors.New("gateway is required")
	}
	return vala.BeginValidation().Validate(
		vala.IsNotNil(gw, "gateway"),
	).Check()
}

type timer interface {
	Stop() bool
}

var afterFunc = func(d time.Duration, f func()) timer { return time.AfterFunc(d, f) } // mockable

// noticeBoard holds the current notice and its pending auto-clear. Callers hold the controller lock.
type noticeBoard struct {
	notice *Notice
	timer  timer
	seq    int
}

// show replaces the current notice. When ttl > 0, clear(seq) is scheduled after ttl.
func (b *noticeBoard) show(n Notice, ttl time.Duration, clear func(seq int)) {
	b.stop()
	b.seq++
	b.notice = &n
	if ttl > 0 && clear != nil {
		seq := b.seq
		b.timer = afterFunc(ttl, func() { clear(seq) })
	}
}

// clear drops the notice unless it was replaced since seq was issued.
func (b *noticeBoard) clear(seq int) bool {
	if seq != b.seq || b.notice == nil {
		return false
	}
	b.notice = nil
	b.timer = nil
	return true
}

func (b *noticeBoard) dismiss() {
	b.stop()
	b.seq++
	b.notice = nil
}

func (b *noticeBoard) stop() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *noticeBoard) current() (Notice, bool) {
	if b.notice == nil {
		return Notice{}, false
	}
	return *b.notice, true
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
