// Package e2e contains end-to-end tests for the framegrab CLI.
package e2e

import (
	"bytes"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/user/framegrab/internal/testvideo"
)

// getBinaryName returns the test binary name with platform-specific extension
func getBinaryName() string {
	if runtime.GOOS == "windows" {
		return "framegrab-test.exe"
	}
	return "framegrab-test"
}

// getBinaryPath returns the path to execute the test binary
// If FRAMEGRAB_BINARY env var is set, use that instead (for CI with pre-built binaries)
func getBinaryPath(t *testing.T) string {
	if path := os.Getenv("FRAMEGRAB_BINARY"); path != "" {
		return path
	}
	return filepath.Join(getProjectRoot(t), getBinaryName())
}

// buildCLI builds the CLI unless a pre-built binary is provided.
func buildCLI(t *testing.T) {
	t.Helper()
	if os.Getenv("FRAMEGRAB_E2E") != "1" {
		t.Skip("Skipping E2E test (set FRAMEGRAB_E2E=1 to run)")
	}
	if os.Getenv("FRAMEGRAB_BINARY") != "" {
		return
	}

	root := getProjectRoot(t)
	buildCmd := exec.Command("go", "build", "-o", getBinaryName(), "./cmd/framegrab")
	buildCmd.Dir = root
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI: %v\n%s", err, out)
	}
	t.Cleanup(func() { os.Remove(filepath.Join(root, getBinaryName())) })
}

// writeFixture writes a 10-frame 16x8 video (frame n has luma 100+n) to dir.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "input.mp4")
	data := testvideo.MustBuild(t, testvideo.AudioTrack(10), testvideo.I420Video(16, 8, 10, 100))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(getBinaryPath(t), args...)
	cmd.Env = append(os.Environ(), "LANG=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// TestGrabCommand extracts a frame as PNG
func TestGrabCommand(t *testing.T) {
	buildCLI(t)
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "frame.png")

	// flags must come before the input argument in urfave/cli
	stdout, stderr, err := run(t, "grab", "-t", "0.35", "-o", output, input)
	if err != nil {
		t.Fatalf("Grab command failed: %v\nstdout: %s\nstderr: %s", err, stdout, stderr)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("Output file not found: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("Expected 16x8, got %dx%d", b.Dx(), b.Dy())
	}
}

// TestGrabPPMWithResize writes binary PPM at a smaller width
func TestGrabPPMWithResize(t *testing.T) {
	buildCLI(t)
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "frame.ppm")

	if _, stderr, err := run(t, "grab", "-t", "0", "-W", "8", "-o", output, input); err != nil {
		t.Fatalf("Grab command failed: %v\nstderr: %s", err, stderr)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("Output file not found: %v", err)
	}
	header := "P6\n8 4\n255\n"
	if !strings.HasPrefix(string(data), header) {
		t.Errorf("Unexpected PPM header: %q", data[:min(len(data), 16)])
	}
	if len(data) != len(header)+8*4*3 {
		t.Errorf("Unexpected PPM size: %d", len(data))
	}
}

// TestGrabWithSummaryAndDebug writes the summary and debug files
func TestGrabWithSummaryAndDebug(t *testing.T) {
	buildCLI(t)
	dir := t.TempDir()
	input := writeFixture(t, dir)
	debugDir := filepath.Join(dir, "debug")
	summary := filepath.Join(dir, "summary.md")

	_, stderr, err := run(t, "grab",
		"-t", "100",
		"-o", filepath.Join(dir, "frame.jpg"),
		"--summary", summary,
		"--debug", "--debug-dir", debugDir,
		"--quiet",
		input,
	)
	if err != nil {
		t.Fatalf("Grab command failed: %v\nstderr: %s", err, stderr)
	}

	content, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("Summary not found: %v", err)
	}
	for _, want := range []string{"# Frame Extraction Summary", "| Format | JPEG |", "Requested time is past the last frame"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("Summary missing %q", want)
		}
	}

	for _, name := range []string{"streams.json", "result.json", "frame.png"} {
		if _, err := os.Stat(filepath.Join(debugDir, name)); err != nil {
			t.Errorf("Debug file %s not found: %v", name, err)
		}
	}
}

// TestGrabFailure reports a classified error and exits non-zero
func TestGrabFailure(t *testing.T) {
	buildCLI(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "audio.mp4")
	if err := os.WriteFile(input, testvideo.MustBuild(t, testvideo.AudioTrack(3)), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	_, stderr, err := run(t, "grab", "-o", filepath.Join(dir, "frame.png"), "--quiet", input)
	if err == nil {
		t.Fatal("Expected grab to fail for a file without video")
	}
	if !strings.Contains(stderr, "video") {
		t.Errorf("Unexpected error output: %s", stderr)
	}
}

// TestProbeCommand lists streams and marks the selected one
func TestProbeCommand(t *testing.T) {
	buildCLI(t)
	input := writeFixture(t, t.TempDir())

	stdout, stderr, err := run(t, "probe", "--quiet", input)
	if err != nil {
		t.Fatalf("Probe command failed: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "* #1 video I420 16x8") {
		t.Errorf("Unexpected probe output: %s", stdout)
	}
	if !strings.Contains(stdout, "#0 audio") {
		t.Errorf("Audio stream missing from probe output: %s", stdout)
	}
}

// TestVersionCommand tests the version flag and subcommand
func TestVersionCommand(t *testing.T) {
	buildCLI(t)

	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatalf("Version flag failed: %v", err)
	}
	if !strings.Contains(out, "framegrab version") {
		t.Errorf("Unexpected version output: %s", out)
	}

	out, _, err = run(t, "version")
	if err != nil {
		t.Fatalf("Version command failed: %v", err)
	}
	if !strings.Contains(out, "Codecs: mjpeg") {
		t.Errorf("Unexpected version output: %s", out)
	}
}

func getProjectRoot(t *testing.T) string {
	// Start from current working directory and find go.mod
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}
