package echoweb

import (
	"embed"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/alumnos/core/student"
	"github.com/trezcool/alumnos/core/view"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageNames = []string{"dashboard.html", "list.html", "form.html", "error.html"}

var funcs = template.FuncMap{
	"promedio": student.FormatPromedio,
	"badge": func(p *student.Decimal) string {
		if p == nil {
			return student.BadgeVariant(0)
		}
		return student.BadgeVariant(p.Float())
	},
	"grade": func(d student.Decimal) string {
		return strconv.FormatFloat(d.Float(), 'f', -1, 64)
	},
	"fixed2": func(f float64) string {
		return strconv.FormatFloat(f, 'f', 2, 64)
	},
	"inc": func(i int) int { return i + 1 },
}

type (
	// page wraps the data of every rendered screen.
	page struct {
		AppName  string
		Title    string
		Active   string // highlighted nav link
		Year     int
		Notice   *view.Notice
		Redirect *redirect
		Data     interface{}
	}

	redirect struct {
		Seconds string
		URL     string
	}

	dashboardData struct {
		Stats *student.Stats
		Error string
	}

	listData struct {
		Students []student.Student
		Pending  *student.Student
		Deleting bool
		Error    string
	}

	formData struct {
		Editing bool
		Action  string
		Draft   student.Draft
	}

	errorData struct {
		Message string
	}
)

func newRedirect(after time.Duration, url string) *redirect {
	return &redirect{Seconds: strconv.FormatFloat(after.Seconds(), 'f', -1, 64), URL: url}
}

// renderer is an echo.Renderer; every page is executed inside the shared layout.
type renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*renderer)(nil)

func newRenderer() (*renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing layout")
	}
	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := layout.Clone()
		if err != nil {
			return nil, errors.Wrapf(err, "cloning layout for %s", name)
		}
		if _, err := tmpl.ParseFS(templatesFS, "templates/"+name); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", name)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
