package model

// SnackItem is an entry of the concession catalog.  The catalog is loaded
// from fixtures at startup and never changes while the process runs.
type SnackItem struct {
	ID    string `json:"id" yaml:"id"`       // catalog id, referenced by snack selections
	Name  string `json:"name" yaml:"name"`   // display name
	Price int64  `json:"price" yaml:"price"` // unit price in UGX
	Image string `json:"image" yaml:"image"` // image URL
}
