package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const murfBaseURL = "https://api.murf.ai/v1"

// MurfClient converts interviewer text into synthesized speech through the
// Murf voice API. Unlike the generation client, errors here propagate to the
// caller: losing audio is acceptable, silently returning bad data is not. The
// orchestrator degrades to a text-only turn when synthesis fails.
type MurfClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type MurfRequest struct {
	Text    string  `json:"text"`
	VoiceID string  `json:"voice_id"`
	Speed   float64 `json:"speed"`
	Pitch   float64 `json:"pitch"`
}

type MurfResponse struct {
	AudioFile string `json:"audioFile"`
}

// NewMurfClient constructs the synthesis client. It refuses construction when
// no API key is configured.
func NewMurfClient(apiKey string) (*MurfClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("murf API key is required")
	}
	return &MurfClient{
		apiKey:  apiKey,
		baseURL: murfBaseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// GenerateSpeech synthesizes text with the voice configured for the given
// character and returns the URL of the generated audio.
func (m *MurfClient) GenerateSpeech(ctx context.Context, text string, characterID string) (string, error) {
	profile := VoiceForCharacter(characterID)

	request := MurfRequest{
		Text:    text,
		VoiceID: profile.VoiceID,
		Speed:   profile.Speed,
		Pitch:   profile.Pitch,
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := m.baseURL + "/speech/generate"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("murf API error: %d - %s", resp.StatusCode, string(body))
	}

	var murfResp MurfResponse
	if err := json.NewDecoder(resp.Body).Decode(&murfResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if murfResp.AudioFile == "" {
		return "", fmt.Errorf("murf API returned no audio file")
	}

	slog.Info("Generated audio from Murf", "character_id", characterID, "voice_id", profile.VoiceID, "text_length", len(text))
	return murfResp.AudioFile, nil
}

// DownloadAudio fetches a synthesized audio resource. Used by the auxiliary
// save-to-storage path only, never on the interview critical path.
func (m *MurfClient) DownloadAudio(ctx context.Context, audioURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", audioURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audio download error: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	slog.Info("Downloaded synthesized audio", "url", audioURL, "size", len(data))
	return data, nil
}
