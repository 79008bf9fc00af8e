package domain

import (
	"errors"
	"fmt"
)

// ErrTimeMissing is returned when a data request is attempted without
// a time specification. A time is mandatory for every ERA5 request.
var ErrTimeMissing = errors.New("time not available")

// DownloadError indicates that the download collaborator returned
// without producing the expected file on disk.
type DownloadError struct {
	Target string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("ERA5 download failed: %s", e.Target)
}
