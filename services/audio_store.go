package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// AudioStore provides filesystem-based storage for synthesized audio. Saving
// audio locally is an auxiliary capability off the interview critical path:
// greeting lines are deterministic per character and interview type, so their
// audio can be kept across sessions instead of re-synthesized every time.
type AudioStore struct {
	dir   string
	mutex sync.RWMutex
}

// NewAudioStore creates an audio store rooted at the given directory.
func NewAudioStore(dir string) *AudioStore {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("Failed to create audio store directory", "dir", dir, "error", err)
	}
	return &AudioStore{dir: dir}
}

// storeKey creates a unique key based on text and voice ID.
func (s *AudioStore) storeKey(text, voiceID string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%s", text, voiceID)))
	return hex.EncodeToString(hash[:])
}

func (s *AudioStore) storePath(key string) string {
	return filepath.Join(s.dir, key+".mp3")
}

// Get returns previously stored audio for the given text and voice, if any.
func (s *AudioStore) Get(text, voiceID string) ([]byte, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	path := s.storePath(s.storeKey(text, voiceID))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	slog.Info("Audio store hit", "voice_id", voiceID, "size", len(data))
	return data, true
}

// Put stores audio data for the given text and voice.
func (s *AudioStore) Put(text, voiceID string, data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	path := s.storePath(s.storeKey(text, voiceID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		slog.Error("Failed to write audio store entry", "path", path, "error", err)
		return fmt.Errorf("failed to write audio store entry: %w", err)
	}

	slog.Info("Audio stored", "voice_id", voiceID, "size", len(data))
	return nil
}

// SaveFromURL downloads a synthesized audio resource and persists it. Download
// failures are logged and returned but never affect the session that produced
// the audio locator.
func (s *AudioStore) SaveFromURL(ctx context.Context, downloader AudioDownloader, text, characterID, audioURL string) error {
	if downloader == nil {
		return fmt.Errorf("audio downloader not available")
	}

	data, err := downloader.DownloadAudio(ctx, audioURL)
	if err != nil {
		slog.Error("Failed to download audio for storage", "error", err, "url", audioURL)
		return err
	}

	profile := VoiceForCharacter(characterID)
	return s.Put(text, profile.VoiceID, data)
}
