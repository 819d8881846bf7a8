package inmemdb

import (
	"sync"

	"github.com/trezcool/alumnos/core/student"
)

type (
	DB struct {
		student *studentTable
	}

	studentTable struct {
		sync.RWMutex
		table map[int]*student.Student
		pkSeq int
	}
)

func Open() (*DB, error) {
	db := &DB{
		student: &studentTable{table: make(map[int]*student.Student)},
	}
	return db, nil
}
