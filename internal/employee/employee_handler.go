package employee

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shahadat-technovicinity/school-management-system/internal/shared/apperror"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/response"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	schoolID := c.GetString("school_id")

	var query EmployeeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GetAll(ctx, schoolID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	paged, page, pageSize, total := query.shape(resp)
	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, paged, &meta)
}

func (h *Handler) GetOptions(c *gin.Context) {
	schoolID := c.GetString("school_id")

	resp, err := h.service.GetOptions(c.Request.Context(), schoolID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	ctx := c.Request.Context()
	targetID := c.Param("id")
	schoolID := c.GetString("school_id")
	h.logger.Debug("http get employee by id",
		zap.String("school_id", schoolID),
		zap.String("employee_id", targetID),
	)

	resp, err := h.service.GetByID(ctx, schoolID, targetID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
