package model

// Field is an unrecognized tag kept verbatim.
type Field struct {
	Tag  string
	Body string
}

// Fields is an ordered multimap of tag to bodies. Insertion order and
// repetition are preserved so unknown tags can be written back as read.
type Fields []Field

// Add appends a body under tag.
func (f *Fields) Add(tag, body string) {
	*f = append(*f, Field{Tag: tag, Body: body})
}

// Values returns every body stored under tag, in insertion order.
func (f Fields) Values(tag string) []string {
	var out []string
	for _, fld := range f {
		if fld.Tag == tag {
			out = append(out, fld.Body)
		}
	}
	return out
}

// Tags returns the distinct tags in order of first appearance.
func (f Fields) Tags() []string {
	seen := make(map[string]bool)
	var out []string
	for _, fld := range f {
		if !seen[fld.Tag] {
			seen[fld.Tag] = true
			out = append(out, fld.Tag)
		}
	}
	return out
}
