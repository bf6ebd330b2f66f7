package csv

// Field is a single delimited value. Quoted records whether the field
// was enclosed in quote characters in the source; it is the only way
// to tell an intentionally quoted empty field from an absent value.
type Field struct {
	Text   string
	Quoted bool
}

// Record is an ordered group of fields terminated by a line boundary.
// Field order and count are exactly as scanned; nothing is dropped,
// padded, or reordered.
type Record struct {
	// Fields holds the record's values in source order.
	Fields []Field
	// Ordinal is the record's 1-based sequence number among yielded
	// records. Skipped comment and empty lines do not consume
	// ordinals.
	Ordinal int64
	// StartLine is the 1-based physical line the record started on.
	StartLine int64
	// Comment marks a comment record (CommentRead mode only). Its
	// single field holds the comment text.
	Comment bool
}

// Len returns the number of fields.
func (r Record) Len() int {
	return len(r.Fields)
}

// Get returns the text of the field at index i.
func (r Record) Get(i int) (string, bool) {
	if i < 0 || i >= len(r.Fields) {
		return "", false
	}
	return r.Fields[i].Text, true
}

// Texts returns the field texts as a fresh slice.
func (r Record) Texts() []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Text
	}
	return out
}

// RecordHandler receives the fields of each record as they are
// assembled. For every record the calls arrive in order: BeginRecord,
// AddField once per field, EndRecord.
type RecordHandler interface {
	BeginRecord(startLine int64)
	AddField(text string, quoted bool)
	EndRecord(comment bool)
}

// Header gives name-addressable access to records. Duplicate names
// are preserved; resolution happens at lookup time.
type Header struct {
	names []string
}

// NewHeader builds a Header from column names.
func NewHeader(names []string) Header {
	return Header{names: append([]string(nil), names...)}
}

// HeaderFromRecord builds a Header from a record's field texts,
// typically the first record of a stream.
func HeaderFromRecord(rec Record) Header {
	return NewHeader(rec.Texts())
}

// Names returns the column names in source order, duplicates
// included.
func (h Header) Names() []string {
	return append([]string(nil), h.names...)
}

// Index returns the position of the first column with the given name.
func (h Header) Index(name string) (int, bool) {
	for i, n := range h.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Bind pairs a record with this header for name-based access.
func (h Header) Bind(rec Record) NamedRecord {
	return NamedRecord{header: h, rec: rec}
}

// NamedRecord is a name-addressable view over a Record.
type NamedRecord struct {
	header Header
	rec    Record
}

// Get returns the value of the first column with the given name.
func (n NamedRecord) Get(name string) (string, bool) {
	i, ok := n.header.Index(name)
	if !ok {
		return "", false
	}
	return n.rec.Get(i)
}

// GetAll returns the values of every column with the given name, in
// source order.
func (n NamedRecord) GetAll(name string) []string {
	var out []string
	for i, col := range n.header.names {
		if col != name {
			continue
		}
		if v, ok := n.rec.Get(i); ok {
			out = append(out, v)
		}
	}
	return out
}

// Record returns the underlying record.
func (n NamedRecord) Record() Record {
	return n.rec
}
