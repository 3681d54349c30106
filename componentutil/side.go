package componentutil

// Side selects the input or output columns of a component.
type Side string

const (
	Input  Side = "input"
	Output Side = "output"
)

// String returns the string representation of the side.
func (s Side) String() string {
	return string(s)
}
