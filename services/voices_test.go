package services

import "testing"

func TestVoiceForCharacter(t *testing.T) {
	tests := []struct {
		characterID string
		wantVoice   string
		wantSpeed   float64
		wantPitch   float64
	}{
		{"jane", "claire", 1.0, 1.0},
		{"mike", "james", 0.95, 0.9},
		{"sarah", "emma", 1.05, 1.1},
		{"unknown", "claire", 1.0, 1.0},
		{"", "claire", 1.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.characterID, func(t *testing.T) {
			profile := VoiceForCharacter(tt.characterID)
			if profile.VoiceID != tt.wantVoice {
				t.Errorf("VoiceID = %q, want %q", profile.VoiceID, tt.wantVoice)
			}
			if profile.Speed != tt.wantSpeed {
				t.Errorf("Speed = %v, want %v", profile.Speed, tt.wantSpeed)
			}
			if profile.Pitch != tt.wantPitch {
				t.Errorf("Pitch = %v, want %v", profile.Pitch, tt.wantPitch)
			}
		})
	}
}
