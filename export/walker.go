package export

import (
	"path"
	"strings"

	"github.com/zostay/go-pstmail/item"
)

var segmentReplacer = strings.NewReplacer("/", "_", "\\", "_")

// Segment turns a folder name from the container into one safe path segment.
// Separators become underscores, and names that would mean the current or
// parent folder are replaced outright.
func Segment(name string) string {
	name = segmentReplacer.Replace(name)
	switch name {
	case "", ".", "..":
		return "_"
	}
	return name
}

// FolderWalker is a function called for each folder of a folder tree. The name
// is the slash-separated path of the folder below the root, which is "". Each
// element of the path is the folder's name passed through Segment.
type FolderWalker func(depth int, name string, f *item.Folder) error

// Walk performs a depth first, pre-order traversal of the folder tree starting
// with root itself. If the FolderWalker returns an error, then processing
// stops immediately and the error is returned.
func (w FolderWalker) Walk(root *item.Folder) error {
	type folder struct {
		depth  int
		name   string
		folder *item.Folder
	}

	openStack := make([]folder, 0, 10)

	pushStack := func(depth int, name string, f *item.Folder) {
		for i := len(f.Folders) - 1; i >= 0; i-- {
			sub := f.Folders[i]
			if sub == nil {
				continue
			}
			openStack = append(openStack, folder{depth, path.Join(name, Segment(sub.Name)), sub})
		}
	}

	popStack := func() folder {
		end := len(openStack) - 1
		f := openStack[end]
		openStack = openStack[:end]
		return f
	}

	openStack = append(openStack, folder{0, "", root})
	for len(openStack) > 0 {
		f := popStack()
		if err := w(f.depth, f.name, f.folder); err != nil {
			return err
		}
		pushStack(f.depth+1, f.name, f.folder)
	}

	return nil
}
