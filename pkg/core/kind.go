package core

// Kind is the scalar kind held by a frame column.
type Kind int

// Kind constants. KindUnknown is never produced by frame constructors but
// is accepted everywhere a Kind is mapped.
const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindTimestamp
	KindCategory
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindInt:       "int64",
	KindFloat:     "float64",
	KindString:    "string",
	KindBool:      "bool",
	KindTimestamp: "timestamp",
	KindCategory:  "category",
}

// String returns the dtype tag of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// Kinds lists every known kind, KindUnknown included.
func Kinds() []Kind {
	return []Kind{KindUnknown, KindInt, KindFloat, KindString, KindBool, KindTimestamp, KindCategory}
}
