package domain

import "fmt"

// Kind identifies what a tracked work session was spent on.
type Kind string

const (
	KindBuilding  Kind = "building"
	KindDebugging Kind = "debugging"
	KindLearning  Kind = "learning"
)

// ParseKind validates a string coming from the API or the database.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindBuilding, KindDebugging, KindLearning:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown session kind %q", s)
}

func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil
}
