package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/cwbudde/pixelscan/internal/errs"
	"github.com/cwbudde/pixelscan/internal/scan"
)

// parseThreshold reads a threshold argument. Unreadable values are
// invalid arguments; negative values clamp to zero.
func parseThreshold(arg string) (float32, error) {
	t, err := strconv.ParseFloat(arg, 32)
	if err != nil {
		return 0, errs.Newf(errs.InvalidArgument, "unreadable threshold %q", arg)
	}
	if t < 0 {
		slog.Warn("Negative threshold clamped to zero", "threshold", t)
		t = 0
	}
	return float32(t), nil
}

// parseIndex reads a non-negative shape index argument.
func parseIndex(arg string) (int, error) {
	i, err := strconv.Atoi(arg)
	if err != nil || i < 0 {
		return 0, errs.Newf(errs.InvalidArgument, "unreadable shape index %q", arg)
	}
	return i, nil
}

// loadScan reads a serialized scan from disk.
func loadScan(path string) (*scan.PixelScan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IoFailure, fmt.Errorf("failed to open scan file: %w", err))
	}
	defer f.Close()

	ps, err := scan.Read(f)
	if err != nil {
		return nil, err
	}
	slog.Info("Loaded scan", "path", path, "shapes", len(ps.Shapes()))
	return ps, nil
}

// saveScan serializes a scan to disk.
func saveScan(path string, ps *scan.PixelScan) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoFailure, fmt.Errorf("failed to create scan file: %w", err))
	}
	defer f.Close()

	if err := ps.Serialize(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.IoFailure, fmt.Errorf("failed to close scan file: %w", err))
	}
	return nil
}

// saveSVG emits a scan's SVG document to disk.
func saveSVG(path string, ps *scan.PixelScan) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.IoFailure, fmt.Errorf("failed to create SVG file: %w", err))
	}
	defer f.Close()

	if err := ps.ToSVG(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.IoFailure, fmt.Errorf("failed to close SVG file: %w", err))
	}
	return nil
}
