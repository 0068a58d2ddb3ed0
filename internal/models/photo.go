package models

// Photo pairs a stored image file with an optional in-memory display
// representation. Filepath is unique within its owner's namespace and is
// the only field mirrored to persistent storage; WebviewPath is filled in
// on load with a data URL and is never authoritative.
type Photo struct {
	Filepath    string `json:"filepath"`
	WebviewPath string `json:"-"`
}
