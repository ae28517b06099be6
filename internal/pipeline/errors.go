package pipeline

import (
	"errors"

	"saleseda/internal/clean"
	"saleseda/internal/dataset"
)

// Kind is the failure class of a run.
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindMalformedInput
	KindInvalidDate
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindMalformedInput:
		return "MalformedInput"
	case KindInvalidDate:
		return "InvalidDate"
	default:
		return "Other"
	}
}

// Classify maps err to its failure class. A nil error is KindOther.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		return KindNotFound
	case errors.Is(err, dataset.ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, clean.ErrInvalidDate):
		return KindInvalidDate
	default:
		return KindOther
	}
}

const notFoundMessage = "Error: The CSV file was not found. Please check the file path."

// Message is the line shown to the operator when a run fails.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if Classify(err) == KindNotFound {
		return notFoundMessage
	}
	return "An error occurred: " + err.Error()
}
