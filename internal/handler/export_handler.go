package handler

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"kintai-backend/config"
	"kintai-backend/internal/audit"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/model"
	"kintai-backend/internal/reconcile"
	"kintai-backend/internal/repository"
	"kintai-backend/internal/timesheet"
)

// ExportHandler serves the admin-side timesheet downloads.
type ExportHandler struct {
	repo  repository.AttendanceRepository
	users repository.UserRepository
}

func NewExportHandler(repo repository.AttendanceRepository, users repository.UserRepository) *ExportHandler {
	return &ExportHandler{repo: repo, users: users}
}

// ExportUser streams one user's monthly timesheet as CSV or XLSX,
// selected by the format query parameter.
func (h *ExportHandler) ExportUser(c *fiber.Ctx) error {
	adminID := middleware.UserID(c)

	userID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	user, err := h.users.GetByID(uint(userID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	if ok := h.mayExport(c, user.ID); !ok {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you may not export this user's records"})
	}

	year, month, ok := yearMonth(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid year or month"})
	}

	format := c.Query("format", "csv")
	switch format {
	case "csv":
		data, err := h.renderCSV(user, year, month)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build timesheet"})
		}
		audit.Log(c, "admin_export_single", adminID, middleware.UserName(c),
			fmt.Sprintf("Exported %s %d-%02d (csv)", user.Name, year, month))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="%s"`, timesheet.Filename(user.Name, year, month, "csv")))
		return c.Send(data)
	case "xlsx":
		events, err := h.loadMonth(user.ID, year, month)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load records"})
		}
		book, err := timesheet.WriteMonthXLSX(events, year, month, user.OvertimeThreshold)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build timesheet"})
		}
		buf, err := book.WriteToBuffer()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build timesheet"})
		}
		audit.Log(c, "admin_export_single", adminID, middleware.UserName(c),
			fmt.Sprintf("Exported %s %d-%02d (xlsx)", user.Name, year, month))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="%s"`, timesheet.Filename(user.Name, year, month, "xlsx")))
		return c.Send(buf.Bytes())
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format must be csv or xlsx"})
	}
}

// ExportBulk zips one CSV per user for the month. The superadmin gets every
// user, a regular admin their managed users plus themselves.
func (h *ExportHandler) ExportBulk(c *fiber.Ctx) error {
	adminID := middleware.UserID(c)

	year, month, ok := yearMonth(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid year or month"})
	}

	var targets []model.User
	var err error
	if middleware.IsSuperadmin(c) {
		targets, err = h.users.GetAll()
	} else {
		targets, err = h.users.GetManagedUsers(adminID)
		if err == nil {
			if self, selfErr := h.users.GetByID(adminID); selfErr == nil {
				targets = append(targets, *self)
			}
		}
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list users"})
	}
	if len(targets) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no users to export"})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := range targets {
		user := &targets[i]
		data, err := h.renderCSV(user, year, month)
		if err != nil {
			zw.Close()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build timesheet"})
		}
		f, err := zw.Create(timesheet.Filename(user.Name, year, month, "csv"))
		if err != nil {
			zw.Close()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build archive"})
		}
		if _, err := f.Write(data); err != nil {
			zw.Close()
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build archive"})
		}
	}
	if err := zw.Close(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build archive"})
	}

	audit.Log(c, "admin_export_bulk", adminID, middleware.UserName(c),
		fmt.Sprintf("Exported %d users for %d-%02d", len(targets), year, month))
	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, timesheet.BulkFilename(year, month)))
	return c.Send(buf.Bytes())
}

// AuditLog lets the superadmin download the raw audit trail.
func (h *ExportHandler) AuditLog(c *fiber.Ctx) error {
	path := config.AuditLogPath()
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no audit log yet"})
	}
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="audit.log"`)
	return c.SendFile(path)
}

func (h *ExportHandler) loadMonth(userID uint, year, month int) ([]model.Attendance, error) {
	start, end := timesheet.MonthRange(year, month)
	return h.repo.GetByUserAndRange(userID,
		start.Format(reconcile.DateLayout), end.Format(reconcile.DateLayout))
}

func (h *ExportHandler) renderCSV(user *model.User, year, month int) ([]byte, error) {
	events, err := h.loadMonth(user.ID, year, month)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := timesheet.WriteMonth(&buf, events, year, month, user.OvertimeThreshold); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *ExportHandler) mayExport(c *fiber.Ctx, userID uint) bool {
	if middleware.IsSuperadmin(c) {
		return true
	}
	adminID := middleware.UserID(c)
	if adminID == userID {
		return true
	}
	ok, err := h.users.IsManagedBy(adminID, userID)
	return err == nil && ok
}
