package render

// CompiledFilter is a filter compiled by a backend, to be passed to
// PopLayer. The zero value is valid and applies no filter.
type CompiledFilter struct {
	ri     Interface
	handle CompiledFilterHandle
}

// NewCompiledFilter wraps a handle returned by ri.CompileFilter.
func NewCompiledFilter(ri Interface, handle CompiledFilterHandle) CompiledFilter {
	return CompiledFilter{ri: ri, handle: handle}
}

// Handle returns the backend handle, or zero.
func (f CompiledFilter) Handle() CompiledFilterHandle { return f.handle }

// Valid reports whether f holds a backend filter.
func (f CompiledFilter) Valid() bool { return f.handle != 0 }

// Release frees the backend filter. It is a no-op on invalid filters.
func (f *CompiledFilter) Release() {
	if f.handle != 0 {
		f.ri.ReleaseFilter(f.handle)
	}
	*f = CompiledFilter{}
}

// Handles returns the valid handles of filters, in order.
func Handles(filters []CompiledFilter) []CompiledFilterHandle {
	out := make([]CompiledFilterHandle, 0, len(filters))
	for _, f := range filters {
		if f.Valid() {
			out = append(out, f.handle)
		}
	}
	return out
}
