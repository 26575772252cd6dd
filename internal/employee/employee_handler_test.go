package employee_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shahadat-technovicinity/school-management-system/internal/employee"
	employeeerrors "github.com/shahadat-technovicinity/school-management-system/internal/employee/errors"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/apperror"
)

type fakeEmployeeService struct {
	GetAllFn     func(ctx context.Context, schoolID string) ([]employee.EmployeeResponse, error)
	GetOptionsFn func(ctx context.Context, schoolID string) ([]employee.EmployeeOption, error)
	GetByIDFn    func(ctx context.Context, schoolID, id string) (employee.EmployeeResponse, error)
	ExistsFn     func(ctx context.Context, schoolID, id string) (bool, error)
}

func (f *fakeEmployeeService) GetAll(ctx context.Context, schoolID string) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx, schoolID)
}
func (f *fakeEmployeeService) GetOptions(ctx context.Context, schoolID string) ([]employee.EmployeeOption, error) {
	return f.GetOptionsFn(ctx, schoolID)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, schoolID, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, schoolID, id)
}
func (f *fakeEmployeeService) Exists(ctx context.Context, schoolID, id string) (bool, error) {
	return f.ExistsFn(ctx, schoolID, id)
}
func (f *fakeEmployeeService) InvalidateOptions(context.Context, string) {}

type listEnvelope struct {
	Ok   bool                        `json:"ok"`
	Data []employee.EmployeeResponse `json:"data"`
	Meta struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
	} `json:"meta"`
}

func newContext(method, target, schoolID string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Set("school_id", schoolID)
	return c, w
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	schoolID := uuid.New().String()
	svc := &fakeEmployeeService{
		GetAllFn: func(ctx context.Context, sid string) ([]employee.EmployeeResponse, error) {
			assert.Equal(t, schoolID, sid)
			return []employee.EmployeeResponse{
				{ID: "1", FullName: "John Doe", Email: "john@example.com", StaffCategory: "Teaching"},
				{ID: "2", FullName: "Jane Doe", Email: "jane@example.com", StaffCategory: "Support"},
				{ID: "3", FullName: "Abdul Karim", Email: "karim@example.com", StaffCategory: "Teaching"},
			}, nil
		},
	}
	h := employee.NewHandler(svc)

	t.Run("sorted by name", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/employees", schoolID)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var env listEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, int64(3), env.Meta.Total)
		assert.Equal(t, "Abdul Karim", env.Data[0].FullName)
		assert.Equal(t, "John Doe", env.Data[2].FullName)
	})

	t.Run("search and category filter", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/employees?q=doe&staff_category=teaching", schoolID)

		h.GetAll(c)

		var env listEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Len(t, env.Data, 1)
		assert.Equal(t, "John Doe", env.Data[0].FullName)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/employees?page=3&page_size=2", schoolID)

		h.GetAll(c)

		var env listEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Empty(t, env.Data)
		assert.Equal(t, 2, env.Meta.TotalPages)
	})
}

func TestEmployeeHandler_GetOptions(t *testing.T) {
	svc := &fakeEmployeeService{
		GetOptionsFn: func(ctx context.Context, sid string) ([]employee.EmployeeOption, error) {
			return []employee.EmployeeOption{{ID: "1", FullName: "Caca", EmployeeNumber: "EMP001"}}, nil
		},
	}
	c, w := newContext(http.MethodGet, "/employees/options", uuid.New().String())

	employee.NewHandler(svc).GetOptions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "EMP001")
}

func TestEmployeeHandler_GetById(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, sid, id string) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}
		c, w := newContext(http.MethodGet, "/employees/x", uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		employee.NewHandler(svc).GetById(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeNotFound)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, sid, got string) (employee.EmployeeResponse, error) {
				assert.Equal(t, id, got)
				return employee.EmployeeResponse{ID: id, FullName: "John"}, nil
			},
		}
		c, w := newContext(http.MethodGet, "/employees/"+id, uuid.New().String())
		c.Params = gin.Params{{Key: "id", Value: id}}

		employee.NewHandler(svc).GetById(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "John")
	})
}
