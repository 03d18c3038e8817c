package mailbox

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestHasSpreadsheetExt(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"report.xlsx", true},
		{"Отчет за неделю.XLSX", true},
		{"legacy.xls", true},
		{"export.csv", true},
		{"readme.pdf", false},
		{"archive.zip", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := hasSpreadsheetExt(tt.name); got != tt.want {
			t.Errorf("hasSpreadsheetExt(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSaveAttachments_SpreadsheetOnly(t *testing.T) {
	raw := strings.Join([]string{
		"From: no-reply@business.auto.ru",
		"To: bot@example.com",
		"Subject: Weekly report",
		"MIME-Version: 1.0",
		`Content-Type: multipart/mixed; boundary="BOUNDARY"`,
		"",
		"--BOUNDARY",
		"Content-Type: text/plain",
		"",
		"See attached.",
		"--BOUNDARY",
		"Content-Type: application/octet-stream",
		`Content-Disposition: attachment; filename="report.xlsx"`,
		"",
		"fake spreadsheet bytes",
		"--BOUNDARY",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="invoice.pdf"`,
		"",
		"fake pdf bytes",
		"--BOUNDARY--",
		"",
	}, "\r\n")

	dir := t.TempDir()
	c := New("imap.example.com:993", "user", "pass", "no-reply@business.auto.ru", dir)

	files, err := c.saveAttachments(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("saveAttachments failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("Expected only the spreadsheet attachment, got %v", files)
	}
	if filepath.Base(files[0]) != "report.xlsx" {
		t.Errorf("Saved file = %q, want report.xlsx", files[0])
	}
}

func TestSafeFilename(t *testing.T) {
	if got := safeFilename("../etc/passwd.xlsx"); strings.Contains(got, "/") {
		t.Errorf("safeFilename left a path separator in %q", got)
	}
	if got := safeFilename(`dir\file.xlsx`); strings.Contains(got, `\`) {
		t.Errorf("safeFilename left a backslash in %q", got)
	}
	if got := safeFilename("report.xlsx"); got != "report.xlsx" {
		t.Errorf("safeFilename(%q) = %q, want unchanged", "report.xlsx", got)
	}
}
