// Package audit appends security-relevant events to a plain-text log file.
// The line format is stable: the file is downloadable as-is from the admin
// area, so it stays a fixed layout instead of going through a logging
// framework.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"kintai-backend/config"
)

// Log records one event. Logging never fails the request it documents; on
// error it gives up silently.
func Log(c *fiber.Ctx, action string, userID uint, userName, details string) {
	path := config.AuditLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}

	ip, device, osName := "N/A", "N/A", "N/A"
	if c != nil {
		ip = c.IP()
		device, osName = ClientInfo(c.Get("User-Agent"))
	}

	name := userName
	if name == "" {
		name = "N/A"
	}
	id := "N/A"
	if userID != 0 {
		id = fmt.Sprintf("%d", userID)
	}

	line := fmt.Sprintf("[%s] %s | User: %s (ID: %s) | IP: %s | Device: %s/%s",
		time.Now().Format("2006-01-02T15:04:05"), action, name, id, ip, device, osName)
	if details != "" {
		line += " | Details: " + details
	}
	line += "\n"

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(line)
}

// ClientInfo guesses device class and OS from a User-Agent header.
func ClientInfo(userAgent string) (device, osName string) {
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "android"):
		osName = "Android"
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ios"):
		osName = "iOS"
	case strings.Contains(ua, "windows"):
		osName = "Windows"
	case strings.Contains(ua, "mac os x"), strings.Contains(ua, "macintosh"):
		osName = "macOS"
	case strings.Contains(ua, "linux"):
		osName = "Linux"
	default:
		osName = "Unknown"
	}

	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		device = "tablet"
	case strings.Contains(ua, "iphone"),
		strings.Contains(ua, "android") && strings.Contains(ua, "mobile"):
		device = "smartphone"
	default:
		device = "pc"
	}
	return device, osName
}
