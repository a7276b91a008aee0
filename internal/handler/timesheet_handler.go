package handler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"kintai-backend/internal/audit"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/reconcile"
	"kintai-backend/internal/repository"
	"kintai-backend/internal/timesheet"
)

type TimesheetHandler struct {
	repo    repository.AttendanceRepository
	users   repository.UserRepository
	staging *ImportStaging
}

func NewTimesheetHandler(repo repository.AttendanceRepository, users repository.UserRepository, staging *ImportStaging) *TimesheetHandler {
	return &TimesheetHandler{repo: repo, users: users, staging: staging}
}

// Export streams the caller's month as the canonical CSV.
func (h *TimesheetHandler) Export(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	year, month, ok := yearMonth(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid year or month"})
	}

	buf, err := h.renderMonthCSV(userID, year, month)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate CSV"})
	}
	audit.Log(c, "csv_export", userID, middleware.UserName(c), fmt.Sprintf("%d/%02d", year, month))

	filename := timesheet.Filename(middleware.UserName(c), year, month, "csv")
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// Import parses an uploaded CSV and reconciles it against storage. With no
// conflicts the batch is applied immediately; otherwise it is staged and the
// conflict list goes back to the client for Resolve.
func (h *TimesheetHandler) Import(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file uploaded"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to open upload"})
	}
	defer file.Close()

	incoming, err := timesheet.Parse(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if incoming.Len() == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "the file contains no attendance data"})
	}

	events, err := h.repo.GetByUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read attendance"})
	}
	existing, err := reconcile.GroupEvents(events)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	conflicts := reconcile.DetectConflicts(existing, incoming)
	if len(conflicts) > 0 {
		token := h.staging.Put(userID, conflicts, incoming)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":   "conflicting records found; submit resolutions to complete the import",
			"token":     token,
			"conflicts": conflicts,
		})
	}

	res := reconcile.NewApplier(h.repo).ApplyUnconditional(userID, incoming)
	audit.Log(c, "csv_import", userID, middleware.UserName(c), fmt.Sprintf("%d records", res.Written))
	return c.JSON(fiber.Map{"message": "import complete", "written": res.Written, "errors": res.Errors})
}

type ResolveImportRequest struct {
	Token       string            `json:"token"`
	Resolutions map[string]string `json:"resolutions"` // conflict key -> keep / overwrite
}

// Resolve completes a staged import with the user's per-conflict choices.
func (h *TimesheetHandler) Resolve(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req ResolveImportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	choices := make(map[string]reconcile.Choice, len(req.Resolutions))
	for key, action := range req.Resolutions {
		switch action {
		case "overwrite":
			choices[key] = reconcile.ChoiceOverwrite
		case "keep", "skip":
			choices[key] = reconcile.ChoiceKeep
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("resolution for %s must be \"keep\" or \"overwrite\"", key),
			})
		}
	}

	// Take is destructive, so the choices are validated first.
	staged, ok := h.staging.Take(req.Token, userID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no pending import for this token"})
	}

	res := reconcile.NewApplier(h.repo).ApplyResolved(userID, staged.conflicts, choices, staged.incoming)
	audit.Log(c, "csv_import_resolved", userID, middleware.UserName(c), fmt.Sprintf("%d records", res.Written))
	return c.JSON(fiber.Map{"message": "import complete", "written": res.Written, "errors": res.Errors})
}

func (h *TimesheetHandler) renderMonthCSV(userID uint, year, month int) (*bytes.Buffer, error) {
	start, end := timesheet.MonthRange(year, month)
	events, err := h.repo.GetByUserAndRange(userID,
		start.Format(reconcile.DateLayout), end.Format(reconcile.DateLayout))
	if err != nil {
		return nil, err
	}

	threshold := reconcile.DefaultOvertimeThreshold
	if user, err := h.users.GetByID(userID); err == nil && user.OvertimeThreshold != "" {
		threshold = user.OvertimeThreshold
	}

	var buf bytes.Buffer
	if err := timesheet.WriteMonth(&buf, events, year, month, threshold); err != nil {
		return nil, err
	}
	return &buf, nil
}

// yearMonth validates the export period: years before 2020 and more than one
// year ahead are rejected, like the export form always has.
func yearMonth(c *fiber.Ctx) (year, month int, ok bool) {
	now := time.Now()
	year = c.QueryInt("year", now.Year())
	month = c.QueryInt("month", int(now.Month()))
	if year < 2020 || year > now.Year()+1 || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}
