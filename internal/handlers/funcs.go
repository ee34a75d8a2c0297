package handlers

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"hipaa-audit/internal/compliance"
)

// FuncMap — функции, доступные во всех шаблонах.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"fileIcon":    fileIcon,
		"fileSize":    fileSize,
		"maskEmail":   maskEmail,
		"maskPhone":   maskPhone,
		"band":        compliance.BandFor,
		"statusClass": statusClass,
		"date":        formatDate,
		"datetime":    formatDateTime,
		"dateValue":   dateValue,
		"pct":         func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	}
}

var fileIcons = map[string]string{
	"pdf":  "bi-file-pdf",
	"doc":  "bi-file-word",
	"docx": "bi-file-word",
	"xls":  "bi-file-excel",
	"xlsx": "bi-file-excel",
	"ppt":  "bi-file-ppt",
	"pptx": "bi-file-ppt",
	"jpg":  "bi-file-image",
	"jpeg": "bi-file-image",
	"png":  "bi-file-image",
	"gif":  "bi-file-image",
	"txt":  "bi-file-text",
	"zip":  "bi-file-zip",
	"rar":  "bi-file-zip",
	"mp4":  "bi-file-play",
	"avi":  "bi-file-play",
	"mov":  "bi-file-play",
}

// fileIcon — css-класс иконки по расширению.
func fileIcon(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if icon, ok := fileIcons[ext]; ok {
		return icon
	}
	return "bi-file"
}

func fileSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f TB", size)
}

func maskEmail(email string) string {
	runes := []rune(email)
	atIdx := -1
	for i, r := range runes {
		if r == '@' {
			atIdx = i
			break
		}
	}
	if atIdx <= 0 {
		return "***"
	}
	prefix := runes[:atIdx]
	domain := string(runes[atIdx:])
	if len(prefix) <= 2 {
		return string(prefix) + "***" + domain
	}
	return string(prefix[:2]) + "***" + domain
}

// maskPhone оставляет две последние цифры.
func maskPhone(phone string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return "***"
	}
	return strings.Repeat("*", n-2) + string(runes[n-2:])
}

func statusClass(status compliance.Status) string {
	switch status {
	case compliance.StatusCompliant:
		return "status-compliant"
	case compliance.StatusNotCompliant:
		return "status-noncompliant"
	case compliance.StatusNotApplicable:
		return "status-na"
	default:
		return "status-pending"
	}
}

// formatDate принимает time.Time и *time.Time; nil печатается как "-".
func formatDate(v interface{}) string {
	return formatTime(v, "2006-01-02")
}

func formatDateTime(v interface{}) string {
	return formatTime(v, "2006-01-02 15:04")
}

func formatTime(v interface{}, layout string) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "-"
		}
		return t.Format(layout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format(layout)
	}
	return "-"
}

// dateValue — значение для <input type="date">.
func dateValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
