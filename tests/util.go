package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/alumnos/core/student"
	inmemdb "github.com/trezcool/alumnos/storage/inmem"
)

const waitTimeout = 2 * time.Second

// Gateway is an in-memory student.Gateway that counts calls.
// Setting one of the hooks replaces the matching operation.
type Gateway struct {
	student.Gateway

	ListFunc   func(ctx context.Context) ([]student.Student, error)
	GetFunc    func(ctx context.Context, id int) (student.Student, error)
	CreateFunc func(ctx context.Context, p student.Payload) (student.Student, error)
	UpdateFunc func(ctx context.Context, id int, p student.Payload) (student.Student, error)
	DeleteFunc func(ctx context.Context, id int) error

	mu    sync.Mutex
	calls map[string]int
}

func NewGateway(t *testing.T) *Gateway {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return &Gateway{
		Gateway: inmemdb.NewStudentGateway(db),
		calls:   make(map[string]int),
	}
}

// Calls returns how many times op ("list", "get", "create", "update", "delete") was invoked.
func (gw *Gateway) Calls(op string) int {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	return gw.calls[op]
}

func (gw *Gateway) record(op string) {
	gw.mu.Lock()
	defer gw.mu.Unlock()
	gw.calls[op]++
}

func (gw *Gateway) ListStudents(ctx context.Context) ([]student.Student, error) {
	gw.record("list")
	if gw.ListFunc != nil {
		return gw.ListFunc(ctx)
	}
	return gw.Gateway.ListStudents(ctx)
}

func (gw *Gateway) GetStudent(ctx context.Context, id int) (student.Student, error) {
	gw.record("get")
	if gw.GetFunc != nil {
		return gw.GetFunc(ctx, id)
	}
	return gw.Gateway.GetStudent(ctx, id)
}

func (gw *Gateway) CreateStudent(ctx context.Context, p student.Payload) (student.Student, error) {
	gw.record("create")
	if gw.CreateFunc != nil {
		return gw.CreateFunc(ctx, p)
	}
	return gw.Gateway.CreateStudent(ctx, p)
}

func (gw *Gateway) UpdateStudent(ctx context.Context, id int, p student.Payload) (student.Student, error) {
	gw.record("update")
	if gw.UpdateFunc != nil {
		return gw.UpdateFunc(ctx, id, p)
	}
	return gw.Gateway.UpdateStudent(ctx, id, p)
}

func (gw *Gateway) DeleteStudent(ctx context.Context, id int) error {
	gw.record("delete")
	if gw.DeleteFunc != nil {
		return gw.DeleteFunc(ctx, id)
	}
	return gw.Gateway.DeleteStudent(ctx, id)
}

// CreateStudent stores a student through gw, failing the test on error.
func CreateStudent(t *testing.T, gw student.Gateway, nombre, doc string, nota1, nota2, nota3 float64) student.Student {
	s, err := gw.CreateStudent(context.Background(), student.Payload{
		Nombre:          nombre,
		NumeroDocumento: doc,
		Nota1:           nota1,
		Nota2:           nota2,
		Nota3:           nota3,
	})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return s
}

// Wait blocks until ch is closed, failing the test if it takes too long.
func Wait(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting")
	}
}
