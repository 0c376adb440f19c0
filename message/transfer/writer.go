package transfer

import "io"

// writer is an internal helper to make wrapping easier.
type writer struct {
	io.Writer
	io.Closer
}

// Close will close the nested closer, if there is one.
func (w *writer) Close() error {
	if w.Closer != nil {
		return w.Closer.Close()
	}
	return nil
}

// writerOnly hides any Close method of the wrapped writer so that closing an
// encoder never closes the destination.
type writerOnly struct {
	io.Writer
}
