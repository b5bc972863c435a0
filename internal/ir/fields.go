package ir

// Field is one key/value pair in a declaration body. Values may be Go
// scalars, []any lists, nested Fields, Reference, or Expression.
type Field struct {
	Key   string
	Value any
}

// Fields is an insertion-ordered field list. Order is significant: it is the
// order the emitter writes arguments in, and it is what makes two synthesis
// passes over the same graph byte-identical.
type Fields []Field

// Set replaces the value for key if present, otherwise appends.
func (f *Fields) Set(key string, value any) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: value})
}

// Get returns the value for key.
func (f Fields) Get(key string) (any, bool) {
	for i := range f {
		if f[i].Key == key {
			return f[i].Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f.Get(key)
	return ok
}
