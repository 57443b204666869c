package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"reuseu/internal/usecase"
	"reuseu/pkg/response"
)

// AdminHandler serves listing reports and the moderation endpoints.
type AdminHandler struct {
	reportUseCase *usecase.ReportUseCase
}

func NewAdminHandler(reportUseCase *usecase.ReportUseCase) *AdminHandler {
	return &AdminHandler{reportUseCase: reportUseCase}
}

type reportListingRequest struct {
	Reason      string `json:"reason" validate:"required"`
	Description string `json:"description"`
}

type deleteReportRequest struct {
	ReportID  string `json:"report_id" validate:"required"`
	ListingID string `json:"listing_id" validate:"required"`
}

func (h *AdminHandler) ReportListing(c echo.Context) error {
	var req reportListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	report, err := h.reportUseCase.ReportListing(c.Request().Context(), sessionOf(c), c.Param("id"), req.Reason, req.Description)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, report)
}

func (h *AdminHandler) ListReports(c echo.Context) error {
	reports, err := h.reportUseCase.ListReports(c.Request().Context(), sessionOf(c), c.QueryParam("marketplace"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, reports)
}

func (h *AdminHandler) DeleteReportAndListing(c echo.Context) error {
	var req deleteReportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	result, err := h.reportUseCase.DeleteReportAndListing(c.Request().Context(), sessionOf(c), req.ReportID, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}

func (h *AdminHandler) DismissReport(c echo.Context) error {
	if err := h.reportUseCase.DismissReport(c.Request().Context(), sessionOf(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Report dismissed"})
}

func (h *AdminHandler) ListAudit(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.reportUseCase.ListAudit(c.Request().Context(), sessionOf(c), limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, entries)
}
