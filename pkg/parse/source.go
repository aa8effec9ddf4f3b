package parse

// Source describes a piece of source code to parse.
type Source struct {
	Name string
	Code string
}

// SourceForTest returns a Source used for testing and ad hoc evaluation.
func SourceForTest(code string) Source {
	return Source{Name: "[test]", Code: code}
}
