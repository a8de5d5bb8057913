package match

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		dateText  string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantZero  bool
	}{
		{
			name:      "Compact 20251221",
			dateText:  "20251221",
			wantYear:  2025,
			wantMonth: time.December,
			wantDay:   21,
		},
		{
			name:      "Compact float 20251221.0",
			dateText:  "20251221.0",
			wantYear:  2025,
			wantMonth: time.December,
			wantDay:   21,
		},
		{
			name:      "ISO 2025-12-21",
			dateText:  "2025-12-21",
			wantYear:  2025,
			wantMonth: time.December,
			wantDay:   21,
		},
		{
			name:      "Slash month first 02/15/2026",
			dateText:  "02/15/2026",
			wantYear:  2026,
			wantMonth: time.February,
			wantDay:   15,
		},
		{
			name:      "Slash single digits 2/5/2026",
			dateText:  "2/5/2026",
			wantYear:  2026,
			wantMonth: time.February,
			wantDay:   5,
		},
		{
			name:      "Dot day first 21.12.2025",
			dateText:  "21.12.2025",
			wantYear:  2025,
			wantMonth: time.December,
			wantDay:   21,
		},
		{
			name:      "RFC3339 keeps the calendar day",
			dateText:  "2024-10-16T22:30:00Z",
			wantYear:  2024,
			wantMonth: time.October,
			wantDay:   16,
		},
		{
			name:      "ISO single digits 2025-1-5",
			dateText:  "2025-1-5",
			wantYear:  2025,
			wantMonth: time.January,
			wantDay:   5,
		},
		{
			name:      "Month name zero padded Mar 03 2026",
			dateText:  "Mar 03 2026",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   3,
		},
		{
			name:      "Dot zero padded 05.01.2025",
			dateText:  "05.01.2025",
			wantYear:  2025,
			wantMonth: time.January,
			wantDay:   5,
		},
		{
			name:      "Month name Mar 13 2026",
			dateText:  "Mar 13 2026",
			wantYear:  2026,
			wantMonth: time.March,
			wantDay:   13,
		},
		{
			name:      "Surrounding whitespace",
			dateText:  "  2025-01-02 ",
			wantYear:  2025,
			wantMonth: time.January,
			wantDay:   2,
		},
		{
			name:     "Empty string",
			dateText: "",
			wantZero: true,
		},
		{
			name:     "Invalid format",
			dateText: "Not a date",
			wantZero: true,
		},
		{
			name:     "Impossible day",
			dateText: "20250231",
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.dateText)

			if tt.wantZero {
				if !got.IsZero() {
					t.Errorf("ParseDate(%q) = %v, want zero time", tt.dateText, got)
				}
				return
			}

			if got.Year() != tt.wantYear {
				t.Errorf("ParseDate(%q).Year() = %d, want %d", tt.dateText, got.Year(), tt.wantYear)
			}
			if got.Month() != tt.wantMonth {
				t.Errorf("ParseDate(%q).Month() = %v, want %v", tt.dateText, got.Month(), tt.wantMonth)
			}
			if got.Day() != tt.wantDay {
				t.Errorf("ParseDate(%q).Day() = %d, want %d", tt.dateText, got.Day(), tt.wantDay)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseDate(%q) location = %v, want UTC", tt.dateText, got.Location())
			}
		})
	}
}

func TestDateFromID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"20251221-M-NextGen_Finals-F-Alexander_Blockx-Learner_Tien", "2025-12-21"},
		{"20241016-W-Almaty-R16-A_B-C_D", "2024-10-16"},
		{"20241016", "2024-10-16"},
		{"2024-M-X", ""},
		{"202410161-M", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := FormatDate(DateFromID(tt.id)); got != tt.want {
				t.Errorf("DateFromID(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "" {
		t.Errorf("FormatDate(zero) = %q, want empty", got)
	}
	d := time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2025-03-04" {
		t.Errorf("FormatDate() = %q, want 2025-03-04", got)
	}
}
