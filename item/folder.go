package item

// Folder is a node of the container's folder tree.
type Folder struct {
	Name string

	// ItemCount is the number of items the container reports for the
	// folder. The first non-zero count seen is used as a progress total.
	ItemCount int

	Items   []*Item
	Folders []*Folder
}
