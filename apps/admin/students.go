package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/alumnos/core/student"
	"github.com/trezcool/alumnos/core/view"
)

// dashboard prints the aggregates of the whole collection.
func (cli *commandLine) dashboard() error {
	d, err := view.NewDashboard(cli.gw, cli.opts)
	if err != nil {
		return err
	}
	defer d.Close()
	<-d.Settled()

	var stats student.Stats
	switch st := d.State().(type) {
	case view.Ready[student.Stats]:
		stats = st.Data
	case view.Failed:
		return errors.New(st.Message)
	}

	fmt.Fprintf(cli.out, "Total Alumnos: %d\n", stats.Total)
	fmt.Fprintf(cli.out, "Promedio General: %.2f\n", stats.PromedioGeneral)

	fmt.Fprintln(cli.out, "\nTop 3 Mejores Estudiantes:")
	if len(stats.Mejores) == 0 {
		fmt.Fprintln(cli.out, "  No hay alumnos registrados.")
	}
	for i, s := range stats.Mejores {
		fmt.Fprintf(cli.out, "  #%d %s (Documento: %s) %s\n", i+1, s.Nombre, s.NumeroDocumento, student.FormatPromedio(s.Promedio))
	}

	fmt.Fprintln(cli.out, "\nEstudiantes que Necesitan Apoyo:")
	if len(stats.EnRiesgo) == 0 {
		fmt.Fprintln(cli.out, "  ¡Excelente! Todos los estudiantes tienen un rendimiento satisfactorio.")
	}
	for _, s := range stats.EnRiesgo {
		fmt.Fprintf(cli.out, "  %s (Documento: %s) %s\n", s.Nombre, s.NumeroDocumento, student.FormatPromedio(s.Promedio))
	}

	fmt.Fprintf(cli.out, "\nRendimiento Excelente: %d\nRendimiento Bueno: %d\nNecesitan Apoyo: %d\n",
		stats.Excelentes, stats.Buenos, len(stats.EnRiesgo))
	return nil
}

// list prints the collection as a table.
func (cli *commandLine) list() error {
	lc, err := view.NewListController(cli.gw, cli.opts)
	if err != nil {
		return err
	}
	defer lc.Close()
	<-lc.Settled()

	var students []student.Student
	switch st := lc.State().(type) {
	case view.Ready[[]student.Student]:
		students = st.Data
	case view.Failed:
		return errors.New(st.Message)
	}
	if len(students) == 0 {
		fmt.Fprintln(cli.out, "No hay alumnos registrados.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNombre\tDocumento\tNota 1\tNota 2\tNota 3\tPromedio")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\t%g\t%g\t%s\n",
			s.ID, s.Nombre, s.NumeroDocumento, s.Nota1.Float(), s.Nota2.Float(), s.Nota3.Float(), student.FormatPromedio(s.Promedio))
	}
	return w.Flush()
}

func (cli *commandLine) create(draft student.Draft) error {
	form, err := view.NewCreateForm(cli.gw, cli.opts)
	if err != nil {
		return err
	}
	defer form.Close()

	for _, fld := range student.DraftFields {
		val, _ := draft.Get(fld)
		if err := form.Set(fld, val); err != nil {
			return err
		}
	}
	return cli.submit(form)
}

// edit applies changes to the stored student and prints what changed.
func (cli *commandLine) edit(id int, changes map[string]string) error {
	form, err := view.NewEditForm(cli.gw, id, cli.opts)
	if err != nil {
		return err
	}
	defer form.Close()
	<-form.Loaded()
	if failed, ok := form.State().(view.Failed); ok {
		return errors.New(failed.Message)
	}

	before, _ := form.Draft()
	for fld, val := range changes {
		if err := form.Set(fld, val); err != nil {
			return err
		}
	}
	after, _ := form.Draft()

	if err := cli.submit(form); err != nil {
		return err
	}
	diff, err := draftDiff(id, before, after)
	if err != nil {
		return errors.Wrap(err, "diffing student")
	}
	fmt.Fprint(cli.out, diff)
	return nil
}

// submit sends the form and reports its notice: on stdout when it succeeds, as the error otherwise.
func (cli *commandLine) submit(form *view.FormController) error {
	done, err := form.Submit()
	if err != nil {
		if n, ok := form.Notice(); ok {
			return errors.New(n.Message)
		}
		return err
	}
	<-done

	n, _ := form.Notice()
	if !form.Succeeded() {
		return errors.New(n.Message)
	}
	fmt.Fprintln(cli.out, n.Message)
	return nil
}

func draftDiff(id int, before, after student.Draft) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(renderDraft(before)),
		B:        difflib.SplitLines(renderDraft(after)),
		FromFile: fmt.Sprintf("alumno/%d (antes)", id),
		ToFile:   fmt.Sprintf("alumno/%d (después)", id),
		Context:  len(student.DraftFields),
	})
}

func renderDraft(d student.Draft) string {
	var sb strings.Builder
	for _, fld := range student.DraftFields {
		val, _ := d.Get(fld)
		fmt.Fprintf(&sb, "%s: %s\n", fld, val)
	}
	return sb.String()
}

// delete removes a student once confirmed, either by -yes or at the prompt.
func (cli *commandLine) delete(id int, yes bool) error {
	lc, err := view.NewListController(cli.gw, cli.opts)
	if err != nil {
		return err
	}
	defer lc.Close()
	<-lc.Settled()

	students, ok := lc.Students()
	if !ok {
		if failed, ok := lc.State().(view.Failed); ok {
			return errors.New(failed.Message)
		}
	}
	var target *student.Student
	for i := range students {
		if students[i].ID == id {
			target = &students[i]
			break
		}
	}
	if target == nil {
		return errors.Wrapf(errStudentNotFound, "id %d", id)
	}
	lc.RequestDelete(*target)

	if !yes {
		fmt.Fprintf(cli.out, "¿Estás seguro de que deseas eliminar este alumno?\n  %s (Documento: %s)\nEsta acción no se puede deshacer. [s/N]: ",
			target.Nombre, target.NumeroDocumento)
		answer, err := readLineFunc()
		if err != nil {
			lc.CancelDelete()
			return err
		}
		switch strings.ToLower(answer) {
		case "s", "si", "sí", "y", "yes":
		default:
			lc.CancelDelete()
			fmt.Fprintln(cli.out, "Cancelado.")
			return nil
		}
	}

	done, err := lc.ConfirmDelete()
	if err != nil {
		return err
	}
	<-done
	n, _ := lc.Notice()
	if n.Variant == view.Danger {
		return errors.New(n.Message)
	}
	fmt.Fprintln(cli.out, n.Message)
	return nil
}
