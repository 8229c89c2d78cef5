package annotation

// repositoryBaseSuffix marks types extending a data-access base interface.
const repositoryBaseSuffix = "Repository"

var javaRules = []rule{
	{allOf(contains("class "), contains("{")), "Defines a new class"},
	{allOf(containsAny("public ", "private ", "protected "), contains("(", ")")), "Defines a method"},
	{contains("extends", repositoryBaseSuffix), "Extends a repository interface to add data access"},
	{containsAny("private final", "private "), "Declares a class member field"},
	{hasPrefix("import "), "Imports a required library"},
	{contains("List<", "find"), "Adds a list query method"},
}

var javaInsertionPoints = anyOf(
	containsAny("public ", "private ", "protected ", "class ", "interface ", "@Override"),
	contains("extends", repositoryBaseSuffix),
)

// JavaRules covers Java and the C-family declarations it shares syntax with.
type JavaRules struct{}

func NewJavaRules() *JavaRules { return &JavaRules{} }

func (JavaRules) Name() string                  { return "java" }
func (JavaRules) Extensions() []string          { return []string{".java"} }
func (JavaRules) Marker() (string, string)      { return "//", "" }
func (JavaRules) Qualifies(trimmed string) bool { return javaInsertionPoints(trimmed) }

func (JavaRules) Comment(trimmed string) string {
	return firstMatch(javaRules, trimmed, "Adds code logic")
}
