package services

import (
	"errors"
	"fmt"
	"mime"
	"strings"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// ErrNotMP4 rejects uploads that are not exactly one MP4 video
var ErrNotMP4 = errors.New("only a single MP4 video can be edited")

// AcceptUpload picks the video that starts an editing session. Exactly one file is
// accepted and its media type must be video/mp4; parameters such as codecs are ignored.
func AcceptUpload(files []entities.UploadFile) (entities.UploadFile, error) {
	if len(files) != 1 {
		return entities.UploadFile{}, fmt.Errorf("%w: got %d files", ErrNotMP4, len(files))
	}

	f := files[0]
	mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(f.MIMEType))
	if err != nil || mediaType != entities.VideoMIMEType {
		return entities.UploadFile{}, fmt.Errorf("%w: %s has type %q", ErrNotMP4, f.Name, f.MIMEType)
	}

	return f, nil
}
