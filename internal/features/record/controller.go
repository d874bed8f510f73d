package record

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type RecordController struct {
	RecordService RecordService
}

func NewRecordController(recordService RecordService) *RecordController {
	return &RecordController{
		RecordService: recordService,
	}
}

// RecentScans godoc
// @Summary      Recent scans
// @Description  Newest scans with patient info and Normal/Abnormal status
// @Tags         doctor
// @Produce      json
// @Param        limit query int false "Max results" default(10)
// @Success      200  {array} Scan
// @Router       /api/doctor/recent-scans [get]
func (ctrl *RecordController) RecentScans(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	scans, err := ctrl.RecordService.RecentScans(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch scans",
		})
	}
	if scans == nil {
		scans = []Scan{}
	}
	return c.JSON(scans)
}

// GetScan godoc
// @Summary      Scan detail
// @Tags         doctor
// @Produce      json
// @Param        id path string true "Scan ID"
// @Success      200  {object} Scan
// @Failure      404  {object} map[string]string
// @Router       /api/doctor/scan/{id} [get]
func (ctrl *RecordController) GetScan(c *fiber.Ctx) error {
	scan, err := ctrl.RecordService.ScanByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrScanNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Scan not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch scan"})
	}
	return c.JSON(scan)
}

// RecentPatients godoc
// @Summary      Recently registered patients
// @Tags         doctor
// @Produce      json
// @Param        limit query int false "Max results" default(5)
// @Success      200  {array} PatientSummary
// @Router       /api/doctor/recent-patients [get]
func (ctrl *RecordController) RecentPatients(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "5"), 10, 64)

	patients, err := ctrl.RecordService.RecentPatients(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch patients",
		})
	}
	if patients == nil {
		patients = []PatientSummary{}
	}
	return c.JSON(patients)
}

// ListPatients godoc
// @Summary      Patient directory
// @Tags         doctor
// @Produce      json
// @Param        search query string false "Matches email or full name"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(10)
// @Success      200  {object} map[string]interface{}
// @Router       /api/doctor/patients [get]
func (ctrl *RecordController) ListPatients(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "10"), 10, 64)

	patients, total, err := ctrl.RecordService.ListPatients(c.Context(), c.Query("search"), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch patients",
		})
	}

	return c.JSON(fiber.Map{
		"patients": patients,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// PatientScans lists every scan belonging to one patient.
func (ctrl *RecordController) PatientScans(c *fiber.Ctx) error {
	scans, err := ctrl.RecordService.ScansForPatient(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrScanNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Patient not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch scans"})
	}
	if scans == nil {
		scans = []Scan{}
	}
	return c.JSON(scans)
}
