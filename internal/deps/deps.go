package deps

// Status reports the availability of one external binary.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}
