package annotation

var javaScriptRules = []rule{
	{anyOf(contains("function "), contains("const ", "=>")), "Defines a new function"},
	{containsAny("const ", "let ", "var "), "Declares a variable"},
	{containsAny("useState", "useEffect"), "Uses a React hook"},
	{containsAny("onClick", "onChange", "onSubmit"), "Defines an event handler"},
}

var javaScriptInsertionPoints = anyOf(
	hasPrefix("function ", "const ", "let "),
	containsAny("=>", "useState", "useEffect"),
)

// JavaScriptRules covers JavaScript, TypeScript and their JSX variants.
type JavaScriptRules struct{}

func NewJavaScriptRules() *JavaScriptRules { return &JavaScriptRules{} }

func (JavaScriptRules) Name() string                  { return "javascript" }
func (JavaScriptRules) Extensions() []string          { return []string{".js", ".ts", ".jsx", ".tsx"} }
func (JavaScriptRules) Marker() (string, string)      { return "//", "" }
func (JavaScriptRules) Qualifies(trimmed string) bool { return javaScriptInsertionPoints(trimmed) }

func (JavaScriptRules) Comment(trimmed string) string {
	return firstMatch(javaScriptRules, trimmed, "Adds JavaScript logic")
}
