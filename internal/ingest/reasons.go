package ingest

import (
	"errors"

	"karaokeds/internal/catalog"
	"karaokeds/internal/fileutil"
	"karaokeds/internal/pairing"
	"karaokeds/internal/relocate"
)

// Reason is a stable code describing why a file did not advance.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonUnparseableName     Reason = "unparseable_name"
	ReasonVideoMissing        Reason = "video_missing"
	ReasonLocateFailed        Reason = "locate_failed"
	ReasonCatalogAppendFailed Reason = "catalog_append_failed"
	ReasonRelocationFailed    Reason = "relocation_failed"
)

// ReasonFor maps a per-file error to its reason code.
func ReasonFor(err error) Reason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, pairing.ErrUnparseableName):
		return ReasonUnparseableName
	case errors.Is(err, pairing.ErrVideoMissing):
		return ReasonVideoMissing
	case errors.Is(err, catalog.ErrAppend):
		return ReasonCatalogAppendFailed
	case errors.Is(err, relocate.ErrRelocation):
		return ReasonRelocationFailed
	default:
		return ReasonLocateFailed
	}
}

func hintFor(reason Reason, err error) string {
	switch reason {
	case ReasonUnparseableName:
		return "rename the caption to '<title> [<id>].<language>.<ext>'"
	case ReasonVideoMissing:
		return "place the matching video in the intake directory and rerun"
	case ReasonCatalogAppendFailed:
		return "check that the catalog file exists and is writable"
	case ReasonRelocationFailed:
		if errors.Is(err, relocate.ErrDestinationExists) {
			return "an indexed file already occupies this index; move it back to intake or catalog it, then rerun"
		}
		if fileutil.IsCrossDevice(err) {
			return "set ingest.allow_copy_fallback or keep raw and indexed dirs on one filesystem"
		}
		return "run 'karaokeds catalog check' to locate the orphaned catalog row"
	default:
		return "check intake directory permissions"
	}
}
