package employee

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	employeeerrors "github.com/shahadat-technovicinity/school-management-system/internal/employee/errors"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/contextutil"
)

const (
	EmployeeOptionsKeyPrefix = "employees:options:"
	optionsTTL               = 1 * time.Hour
)

func GetEmployeeOptionsKey(schoolID string) string {
	return EmployeeOptionsKeyPrefix + schoolID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	GetAll(ctx context.Context, schoolID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, schoolID string) ([]EmployeeOption, error)
	GetByID(ctx context.Context, schoolID, id string) (EmployeeResponse, error)
	Exists(ctx context.Context, schoolID, id string) (bool, error)
	InvalidateOptions(ctx context.Context, schoolID string)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) GetAll(ctx context.Context, schoolID string) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("school_id", schoolID),
	)
	empls, err := s.repo.FindAllBySchool(ctx, schoolID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context, schoolID string) ([]EmployeeOption, error) {
	cacheKey := GetEmployeeOptionsKey(schoolID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var opts []EmployeeOption
			if json.Unmarshal([]byte(cached), &opts) == nil {
				return opts, nil
			}
		}
	}

	// Concurrent form loads for one school share a single query.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		empls, err := s.repo.FindOptionsBySchool(ctx, schoolID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		opts := make([]EmployeeOption, len(empls))
		for i, e := range empls {
			opts[i] = EmployeeOption{
				ID:             e.ID.String(),
				EmployeeNumber: e.EmployeeNumber,
				FullName:       e.FullName,
			}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(opts); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, optionsTTL).Err(); err != nil {
					s.logger.Warn("cache employee options failed",
						zap.String("key", cacheKey),
						zap.Error(err),
					)
				}
			}
		}

		return opts, nil
	})
	if err != nil {
		s.logger.Error("get employee options failed", zap.String("school_id", schoolID), zap.Error(err))
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, schoolID, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("school_id", schoolID),
		zap.String("employee_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByIDAndSchool(ctx, schoolID, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

// Exists reports whether the employee belongs to the school. A malformed id
// is simply absent.
func (s *service) Exists(ctx context.Context, schoolID, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	ok, err := s.repo.ExistsInSchool(ctx, schoolID, id)
	if err != nil {
		s.logger.Error("employee existence check failed",
			zap.String("school_id", schoolID),
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return false, err
	}
	return ok, nil
}

func (s *service) InvalidateOptions(ctx context.Context, schoolID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(schoolID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             empl.ID.String(),
		EmployeeNumber: empl.EmployeeNumber,
		FullName:       empl.FullName,
		Email:          empl.Email,
		StaffCategory:  empl.StaffCategory,
		EmploymentType: empl.EmploymentType,
		SchoolID:       empl.SchoolID.String(),
		DepartmentID:   uuidToString(empl.DepartmentID),
		PositionID:     uuidToString(empl.PositionID),
	}
	if empl.Department != nil {
		resp.Department = &EmployeeDepartmentResponse{
			ID:   empl.Department.ID.String(),
			Name: empl.Department.Name,
		}
	}
	if empl.Position != nil {
		resp.Position = &EmployeePositionResponse{
			ID:   empl.Position.ID.String(),
			Name: empl.Position.Name,
		}
	}
	return resp
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func uuidToString(v *uuid.UUID) string {
	if v == nil {
		return ""
	}
	return v.String()
}
