package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"kintai-backend/internal/audit"
	"kintai-backend/internal/middleware"
	"kintai-backend/internal/model"
	"kintai-backend/internal/reconcile"
	"kintai-backend/internal/repository"
	"kintai-backend/internal/timesheet"
)

const maxNoteLength = 500

type AttendanceHandler struct {
	repo  repository.AttendanceRepository
	users repository.UserRepository
}

func NewAttendanceHandler(repo repository.AttendanceRepository, users repository.UserRepository) *AttendanceHandler {
	return &AttendanceHandler{repo: repo, users: users}
}

type PunchRequest struct {
	Kind      string `json:"kind"`      // in / out
	Timestamp string `json:"timestamp"` // optional; current time when empty
	Note      string `json:"note"`
}

// Punch records a clock action. When the same (day, kind) already holds a
// record, nothing is written: the handler answers 409 with both versions so
// the client can ask the user and call ResolvePunch.
func (h *AttendanceHandler) Punch(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req PunchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Kind != model.KindIn && req.Kind != model.KindOut {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be \"in\" or \"out\""})
	}
	if len(req.Note) > maxNoteLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "note must be at most 500 characters"})
	}

	punchedAt := parsePunchTimestamp(req.Timestamp)
	date := punchedAt.Format(reconcile.DateLayout)

	existing, err := h.dayRecord(userID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read attendance"})
	}

	incoming := reconcile.Entry{
		Timestamp: punchedAt.Format(reconcile.TimestampLayout),
		Time:      punchedAt.Format("15:04"),
		Note:      req.Note,
	}
	if prior := existing.Entry(date, req.Kind); prior != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":    "a record of this kind already exists for this day",
			"date":     date,
			"kind":     req.Kind,
			"existing": prior,
			"incoming": incoming,
		})
	}

	if err := h.repo.InsertEvent(userID, incoming.Timestamp, req.Kind, req.Note); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record punch"})
	}
	audit.Log(c, punchAction(req.Kind), userID, middleware.UserName(c), "")

	return c.JSON(fiber.Map{
		"message":   "punch recorded",
		"date":      date,
		"kind":      req.Kind,
		"timestamp": incoming.Timestamp,
	})
}

type ResolvePunchRequest struct {
	Action    string `json:"action"` // keep / overwrite
	Kind      string `json:"kind"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note"`
}

// ResolvePunch settles the 409 from Punch.
func (h *AttendanceHandler) ResolvePunch(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req ResolvePunchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Kind != model.KindIn && req.Kind != model.KindOut {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be \"in\" or \"out\""})
	}

	switch req.Action {
	case "keep":
		return c.JSON(fiber.Map{"message": "existing record kept"})
	case "overwrite":
		ts, err := reconcile.ParseTimestamp(normalizeFormTimestamp(req.Timestamp))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid timestamp"})
		}
		incoming := reconcile.NewDaySet()
		incoming.Set(ts.Format(reconcile.DateLayout), req.Kind, reconcile.Entry{
			Timestamp: ts.Format(reconcile.TimestampLayout),
			Time:      ts.Format("15:04"),
			Note:      req.Note,
		})
		res := reconcile.NewApplier(h.repo).ApplyUnconditional(userID, incoming)
		if len(res.Errors) > 0 {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to record punch", "details": res.Errors})
		}
		audit.Log(c, punchAction(req.Kind), userID, middleware.UserName(c), "overwrite")
		return c.JSON(fiber.Map{"message": "punch recorded (overwritten)"})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action must be \"keep\" or \"overwrite\""})
	}
}

// Logs returns the caller's month as day records with weekday and overtime
// annotations, one element per calendar day.
func (h *AttendanceHandler) Logs(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	now := time.Now()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "month must be 1-12"})
	}

	start, end := timesheet.MonthRange(year, month)
	events, err := h.repo.GetByUserAndRange(userID,
		start.Format(reconcile.DateLayout), end.Format(reconcile.DateLayout))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read attendance"})
	}
	days, err := reconcile.GroupEvents(events)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	threshold := h.overtimeThreshold(userID)
	var logs []fiber.Map
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(reconcile.DateLayout)
		rec := days.Get(date)

		entry := fiber.Map{
			"date":     date,
			"weekday":  reconcile.WeekdayName(day),
			"in":       nil,
			"out":      nil,
			"overtime": "",
		}
		if rec != nil {
			var inTime string
			if rec.In != nil {
				entry["in"] = rec.In
				inTime = rec.In.Time
			}
			if rec.Out != nil {
				entry["out"] = rec.Out
				entry["overtime"] = reconcile.CalculateOvertime(rec.Out.Time, threshold, inTime)
			}
		}
		logs = append(logs, entry)
	}

	return c.JSON(fiber.Map{"year": year, "month": month, "logs": logs})
}

type UpdateLogRequest struct {
	InTime  string `json:"in_time"`
	OutTime string `json:"out_time"`
	Note    string `json:"note"`
}

// UpdateLog edits one day. Blank times keep the stored entry; the write runs
// through the same delete-then-insert protocol as imports, so duplicate rows
// on that day are healed as a side effect.
func (h *AttendanceHandler) UpdateLog(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	date := c.Params("date")
	if _, err := time.Parse(reconcile.DateLayout, date); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date"})
	}

	var req UpdateLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Note) > maxNoteLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "note must be at most 500 characters"})
	}

	existing, err := h.dayRecord(userID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read attendance"})
	}

	incoming := reconcile.NewDaySet()
	for _, side := range []struct {
		submitted string
		kind      string
	}{{req.InTime, model.KindIn}, {req.OutTime, model.KindOut}} {
		switch {
		case side.submitted != "":
			clock := reconcile.NormalizeTime(side.submitted)
			if !reconcile.IsValidTime(clock) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + side.kind + " time"})
			}
			incoming.Set(date, side.kind, reconcile.Entry{
				Timestamp: date + "T" + clock + ":00",
				Time:      clock,
				Note:      req.Note,
			})
		case existing.Entry(date, side.kind) != nil:
			// Blank field keeps what is stored, but picks up the new note.
			kept := *existing.Entry(date, side.kind)
			if req.Note != "" {
				kept.Note = req.Note
			}
			incoming.Set(date, side.kind, kept)
		}
	}

	res := reconcile.NewApplier(h.repo).ApplyUnconditional(userID, incoming)
	if len(res.Errors) > 0 {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update day", "details": res.Errors})
	}
	audit.Log(c, "attendance_edit", userID, middleware.UserName(c), date)

	return c.JSON(fiber.Map{"message": "day updated", "written": res.Written})
}

func (h *AttendanceHandler) dayRecord(userID uint, date string) (*reconcile.DaySet, error) {
	next, _ := time.Parse(reconcile.DateLayout, date)
	events, err := h.repo.GetByUserAndRange(userID, date, next.AddDate(0, 0, 1).Format(reconcile.DateLayout))
	if err != nil {
		return nil, err
	}
	return reconcile.GroupEvents(events)
}

func (h *AttendanceHandler) overtimeThreshold(userID uint) string {
	user, err := h.users.GetByID(userID)
	if err != nil || user.OvertimeThreshold == "" {
		return reconcile.DefaultOvertimeThreshold
	}
	return user.OvertimeThreshold
}

// parsePunchTimestamp accepts the client's datetime-local value; anything it
// cannot read falls back to the current time, like the punch form always has.
func parsePunchTimestamp(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	if t, err := reconcile.ParseTimestamp(normalizeFormTimestamp(s)); err == nil {
		return t
	}
	return time.Now()
}

// normalizeFormTimestamp appends the seconds a datetime-local input omits.
func normalizeFormTimestamp(s string) string {
	if len(s) == len("2006-01-02T15:04") {
		return s + ":00"
	}
	return s
}

func punchAction(kind string) string {
	if kind == model.KindIn {
		return "punch_in"
	}
	return "punch_out"
}
