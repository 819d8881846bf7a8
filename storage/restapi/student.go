package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/tidwall/gjson"

	"github.com/trezcool/alumnos/core"
	"github.com/trezcool/alumnos/core/student"
)

const (
	collectionPath  = "/api/alumnos/"
	requestIDHeader = "X-Request-ID"
	defaultTimeout  = 30 * time.Second
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // optional; overrides Timeout
	Logger     core.Logger
}

type studentGateway struct {
	baseURL string
	client  *rest.Client
	logger  core.Logger
}

var _ student.Gateway = (*studentGateway)(nil)

// NewStudentGateway returns a student.Gateway talking to the alumnos REST API at opts.BaseURL.
func NewStudentGateway(opts Options) (student.Gateway, error) {
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(opts.BaseURL, "BaseURL"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "configuring student gateway")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}

	return &studentGateway{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/"),
		client:  &rest.Client{HTTPClient: httpClient},
		logger:  logger,
	}, nil
}

func (gw *studentGateway) ListStudents(ctx context.Context) ([]student.Student, error) {
	res, err := gw.send(ctx, "listing students", rest.Get, collectionPath, nil)
	if err != nil {
		return nil, err
	}
	students := make([]student.Student, 0)
	if err := decode(res, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (gw *studentGateway) GetStudent(ctx context.Context, id int) (student.Student, error) {
	res, err := gw.send(ctx, "getting student", rest.Get, detailPath(id), nil)
	if err != nil {
		return student.Student{}, withID(err, id)
	}
	var s student.Student
	if err := decode(res, &s); err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (gw *studentGateway) CreateStudent(ctx context.Context, p student.Payload) (student.Student, error) {
	res, err := gw.send(ctx, "creating student", rest.Post, collectionPath, p)
	if err != nil {
		return student.Student{}, err
	}
	var s student.Student
	if err := decode(res, &s); err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (gw *studentGateway) UpdateStudent(ctx context.Context, id int, p student.Payload) (student.Student, error) {
	res, err := gw.send(ctx, "updating student", rest.Put, detailPath(id), p)
	if err != nil {
		return student.Student{}, withID(err, id)
	}
	var s student.Student
	if err := decode(res, &s); err != nil {
		return student.Student{}, err
	}
	return s, nil
}

func (gw *studentGateway) DeleteStudent(ctx context.Context, id int) error {
	_, err := gw.send(ctx, "deleting student", rest.Delete, detailPath(id), nil)
	return withID(err, id)
}

// send performs one request and classifies any failure. No retries.
func (gw *studentGateway) send(ctx context.Context, op string, method rest.Method, path string, body interface{}) (*rest.Response, error) {
	reqID := uuid.New().String()
	req := rest.Request{
		Method:  method,
		BaseURL: gw.baseURL + path,
		Headers: map[string]string{
			"Accept":        "application/json",
			requestIDHeader: reqID,
		},
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		req.Body = data
		req.Headers["Content-Type"] = "application/json"
	}

	res, err := gw.client.SendWithContext(ctx, req)
	if err != nil {
		gw.logger.Error(op+": no response", err, map[string]interface{}{
			"request_id": reqID, "method": string(method), "path": path,
		})
		return nil, &student.TransportError{Op: op, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		err := classify(res)
		gw.logger.Warn(fmt.Sprintf("%s: status %d", op, res.StatusCode), map[string]interface{}{
			"request_id": reqID, "method": string(method), "path": path, "body": res.Body,
		})
		return nil, err
	}
	return res, nil
}

// classify maps a non-2xx response to a typed error.
// Only a 400 carrying a JSON object is read as field errors.
func classify(res *rest.Response) error {
	if res.StatusCode == http.StatusNotFound {
		return &student.NotFoundError{Detail: gjson.Get(res.Body, "detail").String()}
	}
	if res.StatusCode == http.StatusBadRequest {
		if flds, ok := parseFieldErrors(res.Body); ok && len(flds) > 0 {
			return student.NewValidationError(flds...)
		}
	}
	return &student.ServerError{StatusCode: res.StatusCode, Body: res.Body}
}

// parseFieldErrors reads a {field: [messages]} object, keeping the fields in document order.
// A field may also carry a single string message.
func parseFieldErrors(body string) ([]student.FieldError, bool) {
	if !gjson.Valid(body) {
		return nil, false
	}
	res := gjson.Parse(body)
	if !res.IsObject() {
		return nil, false
	}
	var flds []student.FieldError
	res.ForEach(func(key, value gjson.Result) bool {
		fe := student.FieldError{Field: key.String()}
		if value.IsArray() {
			for _, msg := range value.Array() {
				fe.Messages = append(fe.Messages, msg.String())
			}
		} else {
			fe.Messages = []string{value.String()}
		}
		flds = append(flds, fe)
		return true
	})
	return flds, true
}

func decode(res *rest.Response, dst interface{}) error {
	if err := json.Unmarshal([]byte(res.Body), dst); err != nil {
		return &student.ServerError{StatusCode: res.StatusCode, Body: errors.Wrap(err, "decoding response").Error()}
	}
	return nil
}

func detailPath(id int) string {
	return fmt.Sprintf("%s%d/", collectionPath, id)
}

func withID(err error, id int) error {
	if nf, ok := err.(*student.NotFoundError); ok {
		nf.ID = id
	}
	return err
}
