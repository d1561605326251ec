package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidRecords is the sentinel wrapped by InvalidRecordsError.
var ErrInvalidRecords = errors.New("invalid records")

// Record kinds reported by InvalidRecordsError.
const (
	RecordsCouriers = "couriers"
	RecordsOrders   = "orders"
)

// InvalidRecordsError lists every record of a bulk create that failed
// validation. The batch is rejected as a whole.
type InvalidRecordsError struct {
	Kind     string
	IDs      []int64
	Messages []string
}

func (e *InvalidRecordsError) Error() string {
	return fmt.Sprintf("%s: %s %v", ErrInvalidRecords, e.Kind, e.IDs)
}

func (e *InvalidRecordsError) Unwrap() error {
	return ErrInvalidRecords
}

// add records a failed id once, with one message per underlying error.
func (e *InvalidRecordsError) add(id int64, err error) {
	if !slices.Contains(e.IDs, id) {
		e.IDs = append(e.IDs, id)
	}

	label := strings.TrimSuffix(e.Kind, "s")
	for _, inner := range flatten(err) {
		e.Messages = append(e.Messages, fmt.Sprintf("%s %d: %v", label, id, inner))
	}
}

func (e *InvalidRecordsError) orNil() error {
	if len(e.IDs) == 0 {
		return nil
	}
	return e
}

// flatten expands errors.Join trees into their leaves.
func flatten(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}

	var leaves []error
	for _, inner := range joined.Unwrap() {
		leaves = append(leaves, flatten(inner)...)
	}
	return leaves
}
