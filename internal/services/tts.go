package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// stylePreset tunes the synthesis voice per interviewer style.
type stylePreset struct {
	Voice  string `json:"voice"`
	Rate   string `json:"rate"`
	Pitch  string `json:"pitch"`
	Volume string `json:"volume"`
}

var ttsStylePresets = map[string]stylePreset{
	"academic":      {Voice: "en-US-GuyNeural", Rate: "-10%", Pitch: "-10%", Volume: "+0%"},
	"friendly":      {Voice: "en-US-JennyNeural", Rate: "+0%", Pitch: "+0%", Volume: "+0%"},
	"high_pressure": {Voice: "en-US-GuyNeural", Rate: "+20%", Pitch: "+10%", Volume: "+10%"},
}

// TtsService talks to the speech-synthesis microservice over HTTP.
type TtsService struct {
	baseURL string
	http    *http.Client
}

func NewTtsService(baseURL string) *TtsService {
	return &TtsService{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Synthesize renders the text with the preset for the given style and
// returns the URL of the stored audio. Unknown styles fall back to the
// friendly preset.
func (s *TtsService) Synthesize(ctx context.Context, text, style string) (string, error) {
	preset, ok := ttsStylePresets[style]
	if !ok {
		preset = ttsStylePresets["friendly"]
	}

	payload, err := json.Marshal(struct {
		Text string `json:"text"`
		stylePreset
	}{Text: text, stylePreset: preset})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/synthesize", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("tts %s: %s", resp.Status, string(body))
	}

	var out struct {
		AudioURL string `json:"audio_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("tts decode: %w", err)
	}
	if out.AudioURL == "" {
		return "", fmt.Errorf("tts returned no audio URL")
	}
	return out.AudioURL, nil
}
