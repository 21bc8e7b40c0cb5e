package extractor

import "testing"

func TestParsePDFDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "full timestamp with offset",
			raw:  "D:20240131120000+07'00'",
			want: "2024-01-31T12:00:00Z",
		},
		{
			name: "date only",
			raw:  "D:20240131",
			want: "2024-01-31T00:00:00Z",
		},
		{
			name: "utc marker",
			raw:  "D:20231205093015Z",
			want: "2023-12-05T09:30:15Z",
		},
		{
			name: "unparseable value passes through",
			raw:  "last tuesday",
			want: "last tuesday",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parsePDFDate(tt.raw); got != tt.want {
				t.Errorf("parsePDFDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCountHeadings(t *testing.T) {
	// Body text at 10pt dominates by character count, two lines at 14pt
	// clear the ratio, the 11pt line does not.
	fonts := fontHistogram{10: 500, 14: 30, 11: 40}
	lines := []float64{14, 10, 10, 11, 10, 14, 10}

	if got := countHeadings(fonts, lines); got != 2 {
		t.Errorf("countHeadings = %d, want 2", got)
	}
}

func TestCountHeadingsEmpty(t *testing.T) {
	if got := countHeadings(fontHistogram{}, nil); got != 0 {
		t.Errorf("countHeadings = %d, want 0", got)
	}
}
