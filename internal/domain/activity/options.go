package activity

// DefaultListLimit applies when ListOptions.Limit is zero.
const DefaultListLimit = 50

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	Type  *Type
	Limit int
}
