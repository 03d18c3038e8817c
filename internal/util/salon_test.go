package util

import "testing"

func TestShortSalon(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Known pattern",
			input: "Июль ЕКБ Совхозная",
			want:  "EKT",
		},
		{
			name:  "Known pattern with surrounding whitespace",
			input: "  ИЮЛЬ ЧЛБ Копейское  ",
			want:  "CHL",
		},
		{
			name:  "General prefix after specific depots",
			input: "июль екб",
			want:  "EKT",
		},
		{
			name:  "Latin pattern",
			input: "OMODA новые",
			want:  "OMODA",
		},
		{
			name:  "Unmatched name falls back to 3-letter prefix",
			input: "Автоцентр Запад",
			want:  "АВТ",
		},
		{
			name:  "Short unmatched name",
			input: "Юг",
			want:  "ЮГ",
		},
		{
			name:  "Empty name",
			input: "",
			want:  "???",
		},
		{
			name:  "Whitespace only",
			input: "   ",
			want:  "???",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortSalon(tt.input); got != tt.want {
				t.Errorf("ShortSalon(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShortSalonFromAPI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "API code",
			input: "ekb_main",
			want:  "EKT",
		},
		{
			name:  "API code uppercase",
			input: "CHEL",
			want:  "CHL",
		},
		{
			name:  "Falls back to name table",
			input: "Июль КРД",
			want:  "KRD",
		},
		{
			name:  "Empty",
			input: "",
			want:  "???",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortSalonFromAPI(tt.input); got != tt.want {
				t.Errorf("ShortSalonFromAPI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
