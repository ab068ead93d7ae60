// Package audio normalizes uploaded recordings into the canonical WAV
// container consumed by the transcription providers.
package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"

	"medical-audio-processor/internal/observability/logging"
	"medical-audio-processor/internal/observability/metrics"
)

// Codec transcodes src into a WAV file at dst.
type Codec func(ctx context.Context, src, dst string) error

// Normalizer converts non-canonical audio containers to WAV.
type Normalizer struct {
	codec      Codec
	sampleRate int
	metrics    *metrics.Metrics
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithCodec overrides the transcoder, used by tests.
func WithCodec(c Codec) Option {
	return func(n *Normalizer) { n.codec = c }
}

// NewNormalizer creates a Normalizer targeting mono WAV at the given
// sample rate, transcoding with ffmpeg by default.
func NewNormalizer(sampleRate int, opts ...Option) *Normalizer {
	n := &Normalizer{
		sampleRate: sampleRate,
		metrics:    metrics.DefaultMetrics,
	}
	n.codec = n.ffmpegCodec
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// convertible extensions, lower-case with dot.
var convertible = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
}

// EnsureWAV returns a WAV path for the given audio file. MP3, M4A and
// FLAC inputs are transcoded to a sibling .wav path; an existing
// destination is reused without re-invoking the codec. On transcode
// failure the original path is returned unchanged so the caller can
// still attempt transcription (graceful degradation, not an error).
func (n *Normalizer) EnsureWAV(ctx context.Context, audioPath string) string {
	logger := logging.WithComponent("audio")

	ext := strings.ToLower(filepath.Ext(audioPath))
	if !convertible[ext] {
		return audioPath
	}

	wavPath := strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".wav"
	if _, err := os.Stat(wavPath); err == nil {
		logger.Debug().Str("wavPath", wavPath).Msg("Reusing existing converted file")
		return wavPath
	}

	if err := n.codec(ctx, audioPath, wavPath); err != nil {
		logger.Warn().
			Err(err).
			Str("audioPath", audioPath).
			Msg("Audio conversion failed, returning original path")
		n.metrics.RecordConversion("error")
		// Remove a half-written destination so a retry is not fooled
		// by the existence check.
		os.Remove(wavPath)
		return audioPath
	}

	logger.Info().
		Str("from", filepath.Base(audioPath)).
		Str("to", filepath.Base(wavPath)).
		Msg("Converted audio to WAV")
	n.metrics.RecordConversion("success")
	return wavPath
}

// ffmpegCodec shells out to ffmpeg for the actual transcode.
func (n *Normalizer) ffmpegCodec(ctx context.Context, src, dst string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y", "-i", src,
		"-ac", "1", "-ar", fmt.Sprintf("%d", n.sampleRate),
		"-f", "wav",
		dst,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Probe validates that path holds a readable WAV stream.
func Probe(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	d.ReadInfo()
	if !d.IsValidFile() {
		return fmt.Errorf("not a valid WAV file: %s", path)
	}
	return nil
}
