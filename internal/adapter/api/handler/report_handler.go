package handler

import (
	"github.com/labstack/echo/v4"

	"scamwatch/internal/infrastructure/ratelimit"
	"scamwatch/internal/usecase"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/response"
	"scamwatch/pkg/utils"
)

type ReportHandler struct {
	reportUseCase       *usecase.ReportUseCase
	verificationUseCase *usecase.VerificationUseCase
	limiter             *ratelimit.RateLimiter
}

func NewReportHandler(
	reportUseCase *usecase.ReportUseCase,
	verificationUseCase *usecase.VerificationUseCase,
	limiter *ratelimit.RateLimiter,
) *ReportHandler {
	return &ReportHandler{
		reportUseCase:       reportUseCase,
		verificationUseCase: verificationUseCase,
		limiter:             limiter,
	}
}

type createReportRequest struct {
	Category    string  `json:"category,omitempty"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required"`
	Lat         float64 `json:"lat" validate:"latitude"`
	Lng         float64 `json:"lng" validate:"longitude"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty" validate:"omitempty,email"`
	Website     string  `json:"website,omitempty"`
	Priority    string  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
}

func (h *ReportHandler) CreateReport(c echo.Context) error {
	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if allowed, _ := h.limiter.Allow(userID, "submit_report"); !allowed {
		return response.Error(c, errors.TooManyRequests("Report submission limit reached, try again later"))
	}

	report, err := h.reportUseCase.CreateReport(c.Request().Context(), userID, usecase.CreateReportInput{
		Category:    req.Category,
		Title:       req.Title,
		Description: req.Description,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Priority:    req.Priority,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, report)
}

func (h *ReportHandler) GetReport(c echo.Context) error {
	report, err := h.reportUseCase.GetReport(c.Request().Context(), c.Param("reportId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}

func (h *ReportHandler) ListReports(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	reports, total, err := h.reportUseCase.ListReports(
		c.Request().Context(),
		c.QueryParam("category"),
		c.QueryParam("status"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reports, total, pagination.Page, pagination.PageSize)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=investigating resolved false_alarm"`
}

func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	report, err := h.reportUseCase.UpdateStatus(c.Request().Context(), c.Param("reportId"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}

type voteRequest struct {
	Vote    string `json:"vote" validate:"required,oneof=confirm deny uncertain"`
	Comment string `json:"comment,omitempty" validate:"max=500"`
}

func (h *ReportHandler) Vote(c echo.Context) error {
	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if allowed, _ := h.limiter.Allow(userID, "vote"); !allowed {
		return response.Error(c, errors.TooManyRequests("Voting limit reached, try again later"))
	}

	report, err := h.verificationUseCase.ApplyVote(c.Request().Context(), c.Param("reportId"), userID, req.Vote, req.Comment)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, report.Verification)
}
