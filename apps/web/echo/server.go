package echoweb

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/trezcool/alumnos/core"
	"github.com/trezcool/alumnos/core/student"
	"github.com/trezcool/alumnos/core/view"
)

type (
	Options struct {
		Address        string
		AppName        string
		Debug          bool
		TestMode       bool
		DisableReqLogs bool
		Gateway        student.Gateway
		Logger         core.Logger
		UI             view.Options
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
		list *view.ListController
	}
)

var _ Server = (*server)(nil)

// NewServer returns the admin web UI. Pages are rendered server side from the view controllers.
func NewServer(opts *Options) (Server, error) {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	opts.UI.Logger = opts.Logger
	if opts.UI.RedirectDelay <= 0 {
		opts.UI.RedirectDelay = view.DefaultRedirectDelay
	}

	rndr, err := newRenderer()
	if err != nil {
		return nil, errors.Wrap(err, "loading templates")
	}
	// one list controller for the whole app, so notices outlive the request that raised them
	list, err := view.NewListController(opts.Gateway, opts.UI)
	if err != nil {
		return nil, errors.Wrap(err, "creating list controller")
	}

	s := &server{
		opts: opts,
		app:  echo.New(),
		list: list,
	}
	s.app.Renderer = rndr
	s.setup()
	return s, nil
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.opts.Debug || s.opts.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.page)
	s.app.Debug = s.opts.Debug

	registerPages(s.app, s.opts.Gateway, s.opts.UI, s.list, s.page)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	s.list.Close()
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
