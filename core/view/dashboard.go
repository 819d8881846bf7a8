package view

import (
	"github.com/trezcool/alumnos/core/student"
)

// Dashboard shows the aggregates of the whole collection.
type Dashboard struct {
	list *ListController
}

// NewDashboard starts fetching the collection right away.
func NewDashboard(gw student.Gateway, opts Options) (*Dashboard, error) {
	list, err := newListController(gw, opts, func(error) string { return student.MsgStatsFailed })
	if err != nil {
		return nil, err
	}
	return &Dashboard{list: list}, nil
}

// State returns Loading, Ready[student.Stats] or Failed.
func (d *Dashboard) State() State {
	switch st := d.list.State().(type) {
	case Ready[[]student.Student]:
		return Ready[student.Stats]{Data: student.BuildStats(st.Data)}
	default:
		return st
	}
}

func (d *Dashboard) Refresh() <-chan struct{} { return d.list.Refresh() }

func (d *Dashboard) Settled() <-chan struct{} { return d.list.Settled() }

func (d *Dashboard) Close() { d.list.Close() }
