package salary

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	salaryerrors "github.com/shahadat-technovicinity/school-management-system/internal/salary/errors"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/apperror"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/response"
)

const idempotencyTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	response.FromError(c, err)
}

func (h *Handler) writeBindError(c *gin.Context, err error) {
	response.FromError(c, apperror.MapValidationError(err))
}

// releaseLock drops the idempotency lock set by middleware.Idempotency.
func (h *Handler) releaseLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		h.rdb.Del(c.Request.Context(), lk)
	}
}

func (h *Handler) rememberResponse(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	ck := c.GetString("idempotency_cache_key")
	if ck == "" {
		return
	}
	if payload, err := json.Marshal(resp); err == nil {
		_ = h.rdb.Set(c.Request.Context(), ck, payload, idempotencyTTL).Err()
	}
}

func (h *Handler) Create(c *gin.Context) {
	defer h.releaseLock(c)

	schoolID := c.GetString("school_id")
	actorID := getActorID(c)

	var req CreateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), schoolID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.rememberResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	schoolID := c.GetString("school_id")

	var query ListSalariesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.writeBindError(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), schoolID, query)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(result.Total, result.Page, result.PerPage)
	response.Success(c, http.StatusOK, result.Items, &meta)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	schoolID := c.GetString("school_id")
	employeeID := c.Param("employee_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))

	result, err := h.service.ListByEmployee(c.Request.Context(), schoolID, employeeID, page, perPage)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(result.Total, result.Page, result.PerPage)
	response.Success(c, http.StatusOK, result.Items, &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	schoolID := c.GetString("school_id")

	resp, err := h.service.GetByID(c.Request.Context(), schoolID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	schoolID := c.GetString("school_id")
	actorID := getActorID(c)

	var req UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), schoolID, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	schoolID := c.GetString("school_id")
	actorID := getActorID(c)

	if err := h.service.Delete(c.Request.Context(), schoolID, actorID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ProcessPayment(c *gin.Context) {
	schoolID := c.GetString("school_id")
	actorID := getActorID(c)

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.ProcessPayment(c.Request.Context(), schoolID, actorID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BulkPay(c *gin.Context) {
	defer h.releaseLock(c)

	schoolID := c.GetString("school_id")
	actorID := getActorID(c)

	var req BulkPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeBindError(c, err)
		return
	}

	resp, err := h.service.BulkPay(c.Request.Context(), schoolID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.rememberResponse(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

// resolvePeriod reads ?month= and falls back to the service's current month.
func (h *Handler) resolvePeriod(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return h.service.CurrentPeriod(), nil
	}
	return ParsePeriod(raw)
}

func (h *Handler) Dashboard(c *gin.Context) {
	schoolID := c.GetString("school_id")

	var q DashboardFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeBindError(c, err)
		return
	}

	period, err := h.resolvePeriod(q.Month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Dashboard(c.Request.Context(), schoolID, DashboardQuery{
		Period: period,
		Dimensions: DimensionFilter{
			Department:     q.Department,
			StaffCategory:  q.StaffCategory,
			EmploymentType: q.EmploymentType,
		},
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Statistics(c *gin.Context) {
	schoolID := c.GetString("school_id")

	period, err := h.resolvePeriod(c.Query("month"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Statistics(c.Request.Context(), schoolID, period)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	schoolID := c.GetString("school_id")

	format := strings.ToLower(c.DefaultQuery("format", ExportFormatCSV))
	if format != ExportFormatCSV && format != ExportFormatXLSX {
		h.writeServiceError(c, salaryerrors.ErrInvalidExportFormat)
		return
	}

	var query ListSalariesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.writeBindError(c, err)
		return
	}

	period, err := h.resolvePeriod(query.Month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	rows, err := h.service.Export(c.Request.Context(), schoolID, query)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if format == ExportFormatXLSX {
		err = WriteXLSX(&buf, rows)
	} else {
		err = WriteCSV(&buf, rows)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+ExportFilename(period, format)+`"`)
	c.Data(http.StatusOK, ExportContentType(format), buf.Bytes())
}

func (h *Handler) DownloadPayslip(c *gin.Context) {
	schoolID := c.GetString("school_id")

	resp, err := h.service.GetByID(c.Request.Context(), schoolID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if resp.PayslipURL == nil || *resp.PayslipURL == "" {
		h.writeServiceError(c, salaryerrors.ErrPayslipNotGenerated)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, *resp.PayslipURL)
}

func (h *Handler) LineItemTypes(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.LineItemTypes(), nil)
}
