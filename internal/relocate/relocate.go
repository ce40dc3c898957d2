package relocate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"karaokeds/internal/fileutil"
	"karaokeds/internal/pairing"
)

var (
	// ErrRelocation marks any failure to move a pair into the indexed layout.
	ErrRelocation = errors.New("relocation failed")
	// ErrDestinationExists indicates an indexed file already occupies the target path.
	ErrDestinationExists = errors.New("destination already exists")
)

// MoveFunc moves a single file.
type MoveFunc func(src, dst string) error

// Relocator moves file pairs into <videos>/<index>.<video_ext> and
// <tracks>/<index>.<caption_ext>.
type Relocator struct {
	VideosDir  string
	TracksDir  string
	VideoExt   string
	CaptionExt string
	AllowCopy  bool

	// Move overrides the filesystem move; nil uses fileutil.Move.
	Move MoveFunc
}

// VideoDestination returns the indexed video path for index.
func (r *Relocator) VideoDestination(index int) string {
	return filepath.Join(r.VideosDir, strconv.Itoa(index)+"."+r.VideoExt)
}

// CaptionDestination returns the indexed caption-track path for index.
func (r *Relocator) CaptionDestination(index int) string {
	return filepath.Join(r.TracksDir, strconv.Itoa(index)+"."+r.CaptionExt)
}

// Available reports whether both indexed destinations for index are free.
func (r *Relocator) Available(index int) error {
	if index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrRelocation, index)
	}
	for _, dst := range []string{r.VideoDestination(index), r.CaptionDestination(index)} {
		if err := ensureAbsent(dst); err != nil {
			return fmt.Errorf("%w: %w", ErrRelocation, err)
		}
	}
	return nil
}

// Relocate moves the video, then the caption. If the caption move fails the
// video is moved back to its intake path before the error is returned.
func (r *Relocator) Relocate(index int, pair pairing.FilePair) error {
	if err := r.Available(index); err != nil {
		return err
	}
	videoDst := r.VideoDestination(index)
	captionDst := r.CaptionDestination(index)

	for _, dir := range []string{r.VideosDir, r.TracksDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create %q: %w", ErrRelocation, dir, err)
		}
	}

	move := r.mover()
	if err := move(pair.VideoPath, videoDst); err != nil {
		return fmt.Errorf("%w: move video %q: %w", ErrRelocation, pair.VideoFile, err)
	}
	if err := move(pair.CaptionPath, captionDst); err != nil {
		moveErr := fmt.Errorf("%w: move caption %q: %w", ErrRelocation, pair.CaptionFile, err)
		if rbErr := move(videoDst, pair.VideoPath); rbErr != nil {
			return errors.Join(moveErr, fmt.Errorf("roll back video to %q: %w", pair.VideoPath, rbErr))
		}
		return moveErr
	}
	return nil
}

func (r *Relocator) mover() MoveFunc {
	if r.Move != nil {
		return r.Move
	}
	allowCopy := r.AllowCopy
	return func(src, dst string) error {
		return fileutil.Move(src, dst, allowCopy)
	}
}

func ensureAbsent(path string) error {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %q", ErrDestinationExists, path)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("stat %q: %w", path, err)
	}
}
