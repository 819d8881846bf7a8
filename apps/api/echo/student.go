package echoapi

import (
	"net/http"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alumnos/core"
	"github.com/trezcool/alumnos/core/student"
)

// StudentRequest is the body of create & update calls.
type StudentRequest struct {
	Nombre          string   `json:"nombre" validate:"required"`
	NumeroDocumento string   `json:"numero_documento" validate:"required"`
	Nota1           *float64 `json:"nota1" validate:"required,grade"`
	Nota2           *float64 `json:"nota2" validate:"required,grade"`
	Nota3           *float64 `json:"nota3" validate:"required,grade"`
}

func (r *StudentRequest) Validate(validate *validator.Validate, translator ut.Translator) error {
	r.Nombre = core.CleanString(r.Nombre)
	r.NumeroDocumento = core.CleanString(r.NumeroDocumento)

	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return errors.Wrap(err, "validating student")
	}
	return core.NewValidationError(nil, core.TranslateFieldErrors(vErrs, translator)...)
}

func (r StudentRequest) payload() student.Payload {
	return student.Payload{
		Nombre:          r.Nombre,
		NumeroDocumento: r.NumeroDocumento,
		Nota1:           *r.Nota1,
		Nota2:           *r.Nota2,
		Nota3:           *r.Nota3,
	}
}

type studentApi struct {
	gw         student.Gateway
	validate   *validator.Validate
	translator ut.Translator
}

func registerStudentAPI(g *echo.Group, gw student.Gateway, validate *validator.Validate, translator ut.Translator) {
	api := studentApi{
		gw:         gw,
		validate:   validate,
		translator: translator,
	}

	sg := g.Group("/alumnos")
	sg.GET("", api.query)
	sg.POST("", api.create)

	// detail endpoints
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.gw.ListStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	var ord Ordering
	ord.Bind(ctx)
	ord.Sort(students)
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) create(ctx echo.Context) error {
	data, err := api.bind(ctx)
	if err != nil {
		return err
	}
	s, err := api.gw.CreateStudent(ctx.Request().Context(), data.payload())
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	s, err := api.gw.GetStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	data, err := api.bind(ctx)
	if err != nil {
		return err
	}
	s, err := api.gw.UpdateStudent(ctx.Request().Context(), id, data.payload())
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx)
	if err != nil {
		return err
	}
	if err := api.gw.DeleteStudent(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) bind(ctx echo.Context) (StudentRequest, error) {
	var data StudentRequest
	if err := ctx.Bind(&data); err != nil {
		return data, errors.Wrap(err, "binding to StudentRequest")
	}
	if err := data.Validate(api.validate, api.translator); err != nil {
		return data, err
	}
	return data, nil
}

func paramID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}
