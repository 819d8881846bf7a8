package student

import "context"

// Gateway is the remote store of Students.
// Failures are reported as *TransportError, *ServerError, *ValidationError or *NotFoundError.
type Gateway interface {
	ListStudents(ctx context.Context) ([]Student, error)
	GetStudent(ctx context.Context, id int) (Student, error)
	CreateStudent(ctx context.Context, p Payload) (Student, error)
	UpdateStudent(ctx context.Context, id int, p Payload) (Student, error)
	DeleteStudent(ctx context.Context, id int) error
}
