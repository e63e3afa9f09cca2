package memutils

// Validatable is anything that can check its own internal consistency, such as a segment table.
// DebugValidate acts upon it.
type Validatable interface {
	Validate() error
}
