package medialibrary

import "errors"

var (
	ErrNotSignedIn         = errors.New("not signed in")
	ErrSubmitInProgress    = errors.New("a save is already in progress")
	ErrNoItem              = errors.New("no item loaded")
	ErrUploadsDisabled     = errors.New("no uploader configured")
	ErrUnsupportedMedia    = errors.New("unsupported media type")
	ErrUploadTooLarge      = errors.New("upload exceeds size limit")
	ErrInvalidYouTubeVideo = errors.New("invalid youtube reference")
)
