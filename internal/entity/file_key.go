package entity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrMalformedKey marks an object key that does not follow the
// {group}/{patient}/{category}/{name}.{ext} layout. Such events are
// rejected before any ingestion work happens.
var ErrMalformedKey = errors.New("malformed object key")

// FileKey is the decomposed form of an uploaded object's key.
type FileKey struct {
	SimulationGroupId uuid.UUID
	PatientId         uuid.UUID
	Category          FileCategory
	FileName          string
	FileType          string
	Raw               string
}

func ParseFileKey(key string) (FileKey, error) {
	segments := strings.Split(key, "/")
	if len(segments) != 4 {
		return FileKey{}, fmt.Errorf("%w: expected 4 segments, got %d", ErrMalformedKey, len(segments))
	}

	groupId, err := uuid.Parse(segments[0])
	if err != nil {
		return FileKey{}, fmt.Errorf("%w: simulation group id %q", ErrMalformedKey, segments[0])
	}
	patientId, err := uuid.Parse(segments[1])
	if err != nil {
		return FileKey{}, fmt.Errorf("%w: patient id %q", ErrMalformedKey, segments[1])
	}
	category, err := ParseFileCategory(segments[2])
	if err != nil {
		return FileKey{}, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}

	filename := segments[3]
	dot := strings.LastIndex(filename, ".")
	if dot <= 0 || dot == len(filename)-1 {
		return FileKey{}, fmt.Errorf("%w: filename %q has no extension", ErrMalformedKey, filename)
	}

	return FileKey{
		SimulationGroupId: groupId,
		PatientId:         patientId,
		Category:          category,
		FileName:          filename[:dot],
		FileType:          strings.ToLower(filename[dot+1:]),
		Raw:               key,
	}, nil
}
