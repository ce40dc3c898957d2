package pairing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrVideoMissing indicates the caption file has no matching video yet.
var ErrVideoMissing = errors.New("video file missing")

// FilePair is a caption file and its verified video sibling.
type FilePair struct {
	Name
	CaptionFile string
	VideoFile   string
	CaptionPath string
	VideoPath   string
}

// ExistsFunc reports whether a regular file exists at path.
type ExistsFunc func(path string) (bool, error)

// Locator derives file pairs from caption names in a single intake directory.
type Locator struct {
	Dir        string
	CaptionExt string
	VideoExt   string
	Exists     ExistsFunc
}

// Locate decomposes captionFile and verifies its video sibling exists in the
// intake directory. It returns ErrNotCaption, ErrUnparseableName, or
// ErrVideoMissing (wrapped) when the file cannot be paired.
func (l Locator) Locate(captionFile string) (FilePair, error) {
	name, err := ParseCaptionName(captionFile, l.CaptionExt)
	if err != nil {
		return FilePair{}, err
	}

	videoFile := name.VideoFileName(l.VideoExt)
	videoPath := filepath.Join(l.Dir, videoFile)
	exists := l.Exists
	if exists == nil {
		exists = RegularFileExists
	}
	ok, err := exists(videoPath)
	if err != nil {
		return FilePair{}, fmt.Errorf("check video %q: %w", videoFile, err)
	}
	if !ok {
		return FilePair{}, fmt.Errorf("%w: expected %q", ErrVideoMissing, videoFile)
	}

	return FilePair{
		Name:        name,
		CaptionFile: captionFile,
		VideoFile:   videoFile,
		CaptionPath: filepath.Join(l.Dir, captionFile),
		VideoPath:   videoPath,
	}, nil
}

// RegularFileExists is the default existence predicate.
func RegularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
