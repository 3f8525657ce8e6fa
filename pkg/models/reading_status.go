package models

import (
	"github.com/pkg/errors"
)

// ReadingStatus is stored as its integer rank so that "reading" sorts before
// "done".
type ReadingStatus int

const (
	ReadingStatusNone ReadingStatus = iota
	ReadingStatusReading
	ReadingStatusDone
)

const (
	//tygo:emit export type ReadingStatusName = typeof ReadingStatusNameNone | typeof ReadingStatusNameReading | typeof ReadingStatusNameDone;
	ReadingStatusNameNone    = "none"
	ReadingStatusNameReading = "reading"
	ReadingStatusNameDone    = "done"
)

func (s ReadingStatus) String() string {
	switch s {
	case ReadingStatusReading:
		return ReadingStatusNameReading
	case ReadingStatusDone:
		return ReadingStatusNameDone
	default:
		return ReadingStatusNameNone
	}
}

func ParseReadingStatus(name string) (ReadingStatus, error) {
	switch name {
	case ReadingStatusNameNone:
		return ReadingStatusNone, nil
	case ReadingStatusNameReading:
		return ReadingStatusReading, nil
	case ReadingStatusNameDone:
		return ReadingStatusDone, nil
	}
	return ReadingStatusNone, errors.Errorf("unknown reading status %q", name)
}

func (s ReadingStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ReadingStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseReadingStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
