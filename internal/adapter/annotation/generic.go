package annotation

const genericComment = "Code change"

// GenericRules is the fallback for extensions without a dedicated family.
// It never marks insertion points.
type GenericRules struct{}

func NewGenericRules() *GenericRules { return &GenericRules{} }

func (GenericRules) Name() string             { return "generic" }
func (GenericRules) Extensions() []string     { return nil }
func (GenericRules) Marker() (string, string) { return "//", "" }
func (GenericRules) Qualifies(string) bool    { return false }
func (GenericRules) Comment(string) string    { return genericComment }

// MarkupRules gives HTML and Vue templates their own comment markers.
type MarkupRules struct{}

func NewMarkupRules() *MarkupRules { return &MarkupRules{} }

func (MarkupRules) Name() string             { return "markup" }
func (MarkupRules) Extensions() []string     { return []string{".html", ".vue"} }
func (MarkupRules) Marker() (string, string) { return "<!--", "-->" }
func (MarkupRules) Qualifies(string) bool    { return false }
func (MarkupRules) Comment(string) string    { return genericComment }
