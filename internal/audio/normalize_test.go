package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("fake audio"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestEnsureWAV_PassthroughForWAV(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "visit.wav")
	writeFile(t, src)

	calls := 0
	n := NewNormalizer(16000, WithCodec(func(ctx context.Context, src, dst string) error {
		calls++
		return nil
	}))

	got := n.EnsureWAV(context.Background(), src)
	if got != src {
		t.Errorf("expected passthrough for .wav, got %s", got)
	}
	if calls != 0 {
		t.Errorf("expected codec not invoked for .wav, got %d calls", calls)
	}
}

func TestEnsureWAV_ConvertsMP3(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "visit.mp3")
	writeFile(t, src)

	calls := 0
	n := NewNormalizer(16000, WithCodec(func(ctx context.Context, src, dst string) error {
		calls++
		writeFile(t, dst)
		return nil
	}))

	got := n.EnsureWAV(context.Background(), src)
	want := filepath.Join(dir, "visit.wav")
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	if calls != 1 {
		t.Errorf("expected 1 codec call, got %d", calls)
	}
}

func TestEnsureWAV_Idempotent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "visit.m4a")
	writeFile(t, src)

	calls := 0
	n := NewNormalizer(16000, WithCodec(func(ctx context.Context, src, dst string) error {
		calls++
		writeFile(t, dst)
		return nil
	}))

	first := n.EnsureWAV(context.Background(), src)
	second := n.EnsureWAV(context.Background(), src)

	if first != second {
		t.Errorf("expected same output path, got %s vs %s", first, second)
	}
	if calls != 1 {
		t.Errorf("expected codec invoked once, got %d calls", calls)
	}
}

func TestEnsureWAV_CodecFailure_ReturnsOriginal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "visit.flac")
	writeFile(t, src)

	n := NewNormalizer(16000, WithCodec(func(ctx context.Context, src, dst string) error {
		return errors.New("codec exploded")
	}))

	got := n.EnsureWAV(context.Background(), src)
	if got != src {
		t.Errorf("expected original path on failure, got %s", got)
	}
}

func TestEnsureWAV_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "visit.MP3")
	writeFile(t, src)

	calls := 0
	n := NewNormalizer(16000, WithCodec(func(ctx context.Context, src, dst string) error {
		calls++
		writeFile(t, dst)
		return nil
	}))

	got := n.EnsureWAV(context.Background(), src)
	if filepath.Ext(got) != ".wav" {
		t.Errorf("expected .wav output for uppercase extension, got %s", got)
	}
	if calls != 1 {
		t.Errorf("expected 1 codec call, got %d", calls)
	}
}

func TestProbe_RejectsNonWAV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.wav")
	writeFile(t, path)

	if err := Probe(path); err == nil {
		t.Error("expected error probing non-WAV bytes")
	}
}
