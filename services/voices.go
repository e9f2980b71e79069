package services

// VoiceProfile holds the Murf voice and prosody parameters for one character.
type VoiceProfile struct {
	VoiceID string
	Speed   float64
	Pitch   float64
}

// Static voice mapping, one entry per known character. Unknown character IDs
// fall back to defaultVoice.
var characterVoices = map[string]VoiceProfile{
	"jane":  {VoiceID: "claire", Speed: 1.0, Pitch: 1.0},
	"mike":  {VoiceID: "james", Speed: 0.95, Pitch: 0.9},
	"sarah": {VoiceID: "emma", Speed: 1.05, Pitch: 1.1},
}

var defaultVoice = VoiceProfile{VoiceID: "claire", Speed: 1.0, Pitch: 1.0}

// VoiceForCharacter resolves a character ID to its configured voice profile,
// falling back to the default voice for unrecognized characters.
func VoiceForCharacter(characterID string) VoiceProfile {
	if profile, ok := characterVoices[characterID]; ok {
		return profile
	}
	return defaultVoice
}
