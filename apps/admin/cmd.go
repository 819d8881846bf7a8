package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/alumnos/core/student"
	"github.com/trezcool/alumnos/core/view"
)

var (
	isTerminalFunc = term.IsTerminal // mockable
	readLineFunc   = readLine        // mockable

	errHelp            = errors.New("help provided")
	errYesRequired     = errors.New("stdin is not a terminal: pass -yes to confirm the deletion")
	errStudentNotFound = errors.New("student not found")
)

type commandLine struct {
	gw   student.Gateway
	opts view.Options
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  dashboard - print the dashboard statistics")
	fmt.Fprintln(cli.out, "  list - list all students")
	fmt.Fprintln(cli.out, "  create -nombre NOMBRE -documento DOC -nota1 N -nota2 N -nota3 N - create a student")
	fmt.Fprintln(cli.out, "  edit -id ID [-nombre ...] [-documento ...] [-nota1 ...] [-nota2 ...] [-nota3 ...] - update a student")
	fmt.Fprintln(cli.out, "  delete -id ID [-yes] - delete a student, after confirmation")
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// draftFlags binds one flag per Draft field.
func draftFlags(fs *flag.FlagSet) map[string]*string {
	return map[string]*string{
		student.FieldNombre:          fs.String("nombre", "", "The student's full name."),
		student.FieldNumeroDocumento: fs.String("documento", "", "The student's document number. Must be unique."),
		student.FieldNota1:           fs.String("nota1", "", "First grade (0-5)."),
		student.FieldNota2:           fs.String("nota2", "", "Second grade (0-5)."),
		student.FieldNota3:           fs.String("nota3", "", "Third grade (0-5)."),
	}
}

// flagField maps a flag name to its Draft field.
func flagField(name string) string {
	if name == "documento" {
		return student.FieldNumeroDocumento
	}
	return name
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "dashboard":
		if err := parse(cli.flagSet("dashboard"), args[2:]); err != nil {
			return err
		}
		return cli.dashboard()

	case "list":
		if err := parse(cli.flagSet("list"), args[2:]); err != nil {
			return err
		}
		return cli.list()

	case "create":
		createCmd := cli.flagSet("create")
		values := draftFlags(createCmd)
		if err := parse(createCmd, args[2:]); err != nil {
			return err
		}
		draft := student.Draft{}
		for fld, val := range values {
			if err := draft.Set(fld, *val); err != nil {
				return err
			}
		}
		return cli.create(draft)

	case "edit":
		editCmd := cli.flagSet("edit")
		id := editCmd.Int("id", 0, "The student's ID.")
		values := draftFlags(editCmd)
		if err := parse(editCmd, args[2:]); err != nil {
			return err
		}
		if *id <= 0 {
			editCmd.Usage()
			return errHelp
		}
		changes := make(map[string]string)
		editCmd.Visit(func(f *flag.Flag) {
			if f.Name != "id" {
				changes[flagField(f.Name)] = *values[flagField(f.Name)]
			}
		})
		if len(changes) == 0 {
			editCmd.Usage()
			return errHelp
		}
		return cli.edit(*id, changes)

	case "delete":
		deleteCmd := cli.flagSet("delete")
		id := deleteCmd.Int("id", 0, "The student's ID.")
		yes := deleteCmd.Bool("yes", false, "Do not ask for confirmation.")
		if err := parse(deleteCmd, args[2:]); err != nil {
			return err
		}
		if *id <= 0 {
			deleteCmd.Usage()
			return errHelp
		}
		if !*yes && !isTerminalFunc(int(os.Stdin.Fd())) {
			return errYesRequired
		}
		return cli.delete(*id, *yes)

	default:
		cli.printUsage()
		return errHelp
	}
}

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
