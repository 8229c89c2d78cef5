package annotation

var cssRules = []rule{
	{hasPrefix("."), "Styles a CSS class"},
	{hasPrefix("#"), "Styles an ID selector"},
	{allOf(contains(":"), not(contains("/*"))), "Defines style properties"},
}

type CSSRules struct{}

func NewCSSRules() *CSSRules { return &CSSRules{} }

func (CSSRules) Name() string             { return "css" }
func (CSSRules) Extensions() []string     { return []string{".css", ".scss"} }
func (CSSRules) Marker() (string, string) { return "/*", "*/" }
func (CSSRules) Qualifies(string) bool    { return false }

func (CSSRules) Comment(trimmed string) string {
	return firstMatch(cssRules, trimmed, "Adds CSS styles")
}
