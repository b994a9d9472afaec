package partition

import "fmt"

// OverflowError indicates that a per-worker count or offset cannot be
// represented in the integer width used to communicate it.
type OverflowError struct {
	Worker int
	Field  string
	Value  int64
	Limit  int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("partition: worker %d %s %d exceeds transport limit %d", e.Worker, e.Field, e.Value, e.Limit)
}
