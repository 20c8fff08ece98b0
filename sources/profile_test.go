package sources

import (
	"strings"
	"testing"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		trainNo  string
		date     string
		expected string
	}{
		{
			name:     "ntes substitutes train and date",
			profile:  NTES(""),
			trainNo:  "12951",
			date:     "15-01-2024",
			expected: "https://enquiry.indianrail.gov.in/mntes/?opt=TrainRunning&subOpt=FindTrain&trainNo=12951&date=15-01-2024",
		},
		{
			name:     "railyatri ignores the date",
			profile:  RailYatri(""),
			trainNo:  "12951",
			date:     "15-01-2024",
			expected: "https://www.railyatri.in/live-train-status/12951",
		},
		{
			name:     "etrain path template",
			profile:  ETrain(""),
			trainNo:  "12951",
			date:     "15-01-2024",
			expected: "https://etrain.info/train/12951/live",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.BuildURL(tt.trainNo, tt.date); got != tt.expected {
				t.Errorf("BuildURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildURLEscapesValues(t *testing.T) {
	got := NTES("").BuildURL("12 951&x=1", "15-01-2024")
	if strings.Contains(got, " ") || strings.Contains(got, "&x=1") {
		t.Errorf("BuildURL() did not escape the train number: %q", got)
	}
}

func TestDefaultsOrder(t *testing.T) {
	profiles := Defaults()
	want := []string{"ntes", "railyatri", "etrain"}
	if len(profiles) != len(want) {
		t.Fatalf("Defaults() returned %d profiles, want %d", len(profiles), len(want))
	}
	for i, p := range profiles {
		if p.Key != want[i] {
			t.Errorf("Defaults()[%d] = %q, want %q", i, p.Key, want[i])
		}
	}
	if !profiles[0].DateIndexed {
		t.Error("ntes must be date-indexed")
	}
	if profiles[1].DateIndexed || profiles[2].DateIndexed {
		t.Error("fallback providers must not be date-indexed")
	}
}

func TestProfilesCarryBrowserHeaders(t *testing.T) {
	for _, p := range Defaults() {
		if p.Headers["Accept-Language"] == "" {
			t.Errorf("%s profile missing Accept-Language header", p.Key)
		}
		if p.Headers["Upgrade-Insecure-Requests"] != "1" {
			t.Errorf("%s profile missing Upgrade-Insecure-Requests header", p.Key)
		}
	}
}
