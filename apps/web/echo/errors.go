package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alumnos/core"
	"github.com/trezcool/alumnos/core/student"
)

const msgPageNotFound = "Página no encontrada."

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler rendering errors as an HTML page.
func newAppHTTPErrorHandler(logger core.Logger, newPage pageFunc) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if code == http.StatusNotFound {
				message = msgPageNotFound
			} else {
				message = http.StatusText(code)
			}
		case *student.NotFoundError:
			code = http.StatusNotFound
			message = student.LoadErrorMessage(origErr, student.MsgLoadFailed)
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			logger.Error(message, errors.Wrap(err, message), map[string]interface{}{
				"method": ctx.Request().Method, "path": ctx.Request().URL.Path,
			})
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.Render(code, "error.html", newPage("Error", "", errorData{Message: message}))
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
