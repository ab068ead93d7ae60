package stt

import "testing"

func TestJoinSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		expected string
	}{
		{
			name:     "empty input",
			segments: nil,
			expected: "",
		},
		{
			name: "simple join",
			segments: []Segment{
				{Text: "Patient reports"},
				{Text: "mild headache"},
			},
			expected: "Patient reports mild headache",
		},
		{
			name: "skips empty and whitespace-only segments",
			segments: []Segment{
				{Text: "Take"},
				{Text: "   "},
				{Text: ""},
				{Text: "ibuprofen"},
			},
			expected: "Take ibuprofen",
		},
		{
			name: "collapses internal whitespace",
			segments: []Segment{
				{Text: "  Follow   up\tin "},
				{Text: " two\nweeks  "},
			},
			expected: "Follow up in two weeks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JoinSegments(tt.segments)
			if got != tt.expected {
				t.Errorf("JoinSegments() = %q, want %q", got, tt.expected)
			}
		})
	}
}
