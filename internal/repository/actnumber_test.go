package repository

import (
	"testing"

	"github.com/nurpe/smeta-acts/internal/model"
)

func TestFormatActNumber(t *testing.T) {
	tests := []struct {
		actType model.ActType
		year    int
		seq     int
		want    string
	}{
		{model.ActTypeClient, 2025, 1, "ACT-CL-2025-001"},
		{model.ActTypeClient, 2025, 42, "ACT-CL-2025-042"},
		{model.ActTypeSpecialist, 2024, 7, "ACT-SP-2024-007"},
		{model.ActTypeSpecialist, 2025, 1000, "ACT-SP-2025-1000"},
	}
	for _, tt := range tests {
		if got := formatActNumber(tt.actType, tt.year, tt.seq); got != tt.want {
			t.Errorf("formatActNumber(%s, %d, %d) = %q, want %q", tt.actType, tt.year, tt.seq, got, tt.want)
		}
	}
}

func TestTrailingSeq(t *testing.T) {
	tests := []struct {
		number string
		want   int
	}{
		{"ACT-CL-2025-001", 1},
		{"ACT-SP-2025-042", 42},
		{"ACT-CL-2025-1000", 1000},
		{"nonsense", 0},
		{"ACT-CL-2025-", 0},
		{"ACT-CL-2025-xyz", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := trailingSeq(tt.number); got != tt.want {
			t.Errorf("trailingSeq(%q) = %d, want %d", tt.number, got, tt.want)
		}
	}
}

func TestNextActNumber(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{
			name:     "empty history starts at one",
			existing: nil,
			want:     "ACT-CL-2025-001",
		},
		{
			name:     "continues after max",
			existing: []string{"ACT-CL-2025-001", "ACT-CL-2025-003", "ACT-CL-2025-002"},
			want:     "ACT-CL-2025-004",
		},
		{
			name:     "cancelled act numbers are not reused",
			existing: []string{"ACT-CL-2025-005"},
			want:     "ACT-CL-2025-006",
		},
		{
			name:     "foreign formats ignored",
			existing: []string{"legacy", "ACT-CL-2025-002"},
			want:     "ACT-CL-2025-003",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextActNumber(tt.existing, model.ActTypeClient, 2025); got != tt.want {
				t.Errorf("nextActNumber = %q, want %q", got, tt.want)
			}
		})
	}
}
