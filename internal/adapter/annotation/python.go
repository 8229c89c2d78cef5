package annotation

var pythonRules = []rule{
	{hasPrefix("def "), "Defines a new function"},
	{hasPrefix("class "), "Defines a new class"},
	{hasPrefix("import ", "from "), "Imports a required module"},
}

type PythonRules struct{}

func NewPythonRules() *PythonRules { return &PythonRules{} }

func (PythonRules) Name() string             { return "python" }
func (PythonRules) Extensions() []string     { return []string{".py"} }
func (PythonRules) Marker() (string, string) { return "#", "" }
func (PythonRules) Qualifies(string) bool    { return false }

func (PythonRules) Comment(trimmed string) string {
	return firstMatch(pythonRules, trimmed, "Adds Python logic")
}
