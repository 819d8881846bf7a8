package echoweb

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alumnos/core/student"
	"github.com/trezcool/alumnos/core/view"
)

const listPath = "/alumnos"

type pageFunc func(title, active string, data interface{}) *page

func (s *server) page(title, active string, data interface{}) *page {
	return &page{
		AppName: s.opts.AppName,
		Title:   title,
		Active:  active,
		Year:    time.Now().Year(),
		Data:    data,
	}
}

type pages struct {
	gw      student.Gateway
	opts    view.Options
	list    *view.ListController
	newPage pageFunc
}

func registerPages(app *echo.Echo, gw student.Gateway, opts view.Options, list *view.ListController, newPage pageFunc) {
	p := pages{
		gw:      gw,
		opts:    opts,
		list:    list,
		newPage: newPage,
	}

	app.GET("/", p.dashboard)

	lg := app.Group(listPath)
	lg.GET("", p.students)
	lg.GET("/:id/eliminar", p.requestDelete)
	lg.POST("/eliminar", p.confirmDelete)
	lg.POST("/eliminar/cancelar", p.cancelDelete)

	app.GET("/crear", p.createForm)
	app.POST("/crear", p.create)
	app.GET("/editar/:id", p.editForm)
	app.POST("/editar/:id", p.update)
}

// Handlers

func (p *pages) dashboard(ctx echo.Context) error {
	d, err := view.NewDashboard(p.gw, p.opts)
	if err != nil {
		return errors.Wrap(err, "creating dashboard")
	}
	defer d.Close()
	if err := wait(ctx.Request().Context(), d.Settled()); err != nil {
		return err
	}

	var data dashboardData
	code := http.StatusOK
	switch st := d.State().(type) {
	case view.Ready[student.Stats]:
		data.Stats = &st.Data
	case view.Failed:
		code = http.StatusBadGateway
		data.Error = st.Message
	}
	return ctx.Render(code, "dashboard.html", p.newPage("Dashboard", "", data))
}

func (p *pages) students(ctx echo.Context) error {
	if err := wait(ctx.Request().Context(), p.list.Refresh()); err != nil {
		return err
	}

	var data listData
	code := http.StatusOK
	switch st := p.list.State().(type) {
	case view.Ready[[]student.Student]:
		data.Students = st.Data
	case view.Failed:
		code = http.StatusBadGateway
		data.Error = st.Message
	}
	if s, ok := p.list.PendingDelete(); ok {
		data.Pending = &s
	}
	data.Deleting = p.list.Deleting()

	pg := p.newPage("Gestión de Alumnos", "alumnos", data)
	if n, ok := p.list.Notice(); ok {
		pg.Notice = &n
	}
	return ctx.Render(code, "list.html", pg)
}

func (p *pages) requestDelete(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	students, ok := p.list.Students()
	if !ok {
		if err := wait(ctx.Request().Context(), p.list.Refresh()); err != nil {
			return err
		}
		students, _ = p.list.Students()
	}
	for _, s := range students {
		if s.ID == id {
			p.list.RequestDelete(s)
			break
		}
	}
	return ctx.Redirect(http.StatusSeeOther, listPath)
}

func (p *pages) cancelDelete(ctx echo.Context) error {
	p.list.CancelDelete()
	return ctx.Redirect(http.StatusSeeOther, listPath)
}

func (p *pages) confirmDelete(ctx echo.Context) error {
	done, err := p.list.ConfirmDelete()
	switch {
	case err == view.ErrNoPendingDelete || err == view.ErrDeleteInFlight:
		return ctx.Redirect(http.StatusSeeOther, listPath)
	case err != nil:
		return errors.Wrap(err, "confirming delete")
	}
	if err := wait(ctx.Request().Context(), done); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, listPath)
}

func (p *pages) createForm(ctx echo.Context) error {
	form, err := view.NewCreateForm(p.gw, p.opts)
	if err != nil {
		return errors.Wrap(err, "creating form")
	}
	defer form.Close()
	return p.renderForm(ctx, http.StatusOK, form)
}

func (p *pages) create(ctx echo.Context) error {
	form, err := view.NewCreateForm(p.gw, p.opts)
	if err != nil {
		return errors.Wrap(err, "creating form")
	}
	defer form.Close()
	return p.submit(ctx, form)
}

func (p *pages) editForm(ctx echo.Context) error {
	form, err := p.loadEditForm(ctx)
	if err != nil {
		return err
	}
	defer form.Close()
	if failed, ok := form.State().(view.Failed); ok {
		return p.renderLoadError(ctx, failed)
	}
	return p.renderForm(ctx, http.StatusOK, form)
}

func (p *pages) update(ctx echo.Context) error {
	form, err := p.loadEditForm(ctx)
	if err != nil {
		return err
	}
	defer form.Close()
	if failed, ok := form.State().(view.Failed); ok {
		return p.renderLoadError(ctx, failed)
	}
	return p.submit(ctx, form)
}

func (p *pages) loadEditForm(ctx echo.Context) (*view.FormController, error) {
	id, err := paramID(ctx)
	if err != nil {
		return nil, err
	}
	form, err := view.NewEditForm(p.gw, id, p.opts)
	if err != nil {
		return nil, errors.Wrap(err, "creating form")
	}
	if err := wait(ctx.Request().Context(), form.Loaded()); err != nil {
		form.Close()
		return nil, err
	}
	return form, nil
}

// submit copies the posted fields into form and submits it.
// On success the page shows the notice and moves on to the list after RedirectDelay.
func (p *pages) submit(ctx echo.Context, form *view.FormController) error {
	for _, fld := range student.DraftFields {
		if err := form.Set(fld, ctx.FormValue(fld)); err != nil {
			return errors.Wrapf(err, "setting %s", fld)
		}
	}

	done, err := form.Submit()
	if err != nil {
		var vErr *student.ValidationError
		if errors.As(err, &vErr) {
			return p.renderForm(ctx, http.StatusBadRequest, form)
		}
		return errors.Wrap(err, "submitting form")
	}
	if err := wait(ctx.Request().Context(), done); err != nil {
		return err
	}

	if !form.Succeeded() {
		return p.renderForm(ctx, http.StatusBadRequest, form)
	}
	code := http.StatusOK
	if form.Mode() == student.ModeCreate {
		code = http.StatusCreated
	}
	return p.renderForm(ctx, code, form, newRedirect(p.opts.RedirectDelay, listPath))
}

func (p *pages) renderForm(ctx echo.Context, code int, form *view.FormController, redir ...*redirect) error {
	draft, _ := form.Draft()
	data := formData{Draft: draft, Action: "/crear"}
	title := "Crear Alumno"
	active := "crear"
	if form.Mode() == student.ModeEdit {
		data.Editing = true
		data.Action = fmt.Sprintf("/editar/%d", form.ID())
		title = "Editar Alumno"
		active = "alumnos"
	}

	pg := p.newPage(title, active, data)
	if n, ok := form.Notice(); ok {
		pg.Notice = &n
	}
	if len(redir) > 0 {
		pg.Redirect = redir[0]
	}
	return ctx.Render(code, "form.html", pg)
}

func (p *pages) renderLoadError(ctx echo.Context, failed view.Failed) error {
	code := http.StatusBadGateway
	if student.IsNotFound(failed.Err) {
		code = http.StatusNotFound
	}
	return ctx.Render(code, "error.html", p.newPage("Editar Alumno", "alumnos", errorData{Message: failed.Message}))
}

func wait(ctx context.Context, ch <-chan struct{}) error {
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for the api")
	}
}

func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}
