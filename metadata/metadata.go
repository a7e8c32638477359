// Package metadata contains the key-values record that accompanies every document being extracted.
package metadata

const (
	// ContentType is the declared or detected media type of a document.
	ContentType = "content-type"
	// ResourceName is the name of a document within its container, such as the name of an archive entry.
	ResourceName = "resource-name"
)

// Metadata maps names to one or more string values.
//
// Names are listed in the order they were first added. The zero value is ready to use. Metadata is not thread-safe.
type Metadata struct {
	names  []string
	values map[string][]string
}

// New returns an empty Metadata.
func New() *Metadata {
	return &Metadata{}
}

// Set replaces all values of name with the single given value.
func (m *Metadata) Set(name, value string) {
	m.put(name, []string{value})
}

// Add appends value to the values of name.
func (m *Metadata) Add(name, value string) {
	m.put(name, append(m.values[name], value))
}

// Get returns the first value of name, or empty string if there is none.
func (m *Metadata) Get(name string) string {
	if vs := m.values[name]; len(vs) != 0 {
		return vs[0]
	}

	return ""
}

// Values returns a copy of all values of name.
func (m *Metadata) Values(name string) []string {
	return append([]string(nil), m.values[name]...)
}

// Names returns the names in insertion order.
func (m *Metadata) Names() []string {
	return append([]string(nil), m.names...)
}

// Len returns the number of names.
func (m *Metadata) Len() int {
	return len(m.names)
}

func (m *Metadata) put(name string, values []string) {
	if m.values == nil {
		m.values = make(map[string][]string)
	}

	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}

	m.values[name] = values
}
