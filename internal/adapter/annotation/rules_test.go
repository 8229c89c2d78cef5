package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestJavaRules_Priority(t *testing.T) {
	j := NewJavaRules()
	tests := []struct {
		line string
		want string
	}{
		{"public class Foo {", "Defines a new class"},
		{"public void bar() {", "Defines a method"},
		{"private int count() {", "Defines a method"},
		{"public interface UserRepository extends JpaRepository<User, Long> {", "Extends a repository interface to add data access"},
		{"private final UserService users;", "Declares a class member field"},
		{"private String name;", "Declares a class member field"},
		{"import java.util.List;", "Imports a required library"},
		{"List<User> findAll();", "Adds a list query method"},
		{"return 42;", "Adds code logic"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, j.Comment(tt.line))
		})
	}
}

func TestJavaRules_Qualifies(t *testing.T) {
	j := NewJavaRules()
	assert.True(t, j.Qualifies("public void bar() {"))
	assert.True(t, j.Qualifies("class Foo {"))
	assert.True(t, j.Qualifies("@Override"))
	assert.True(t, j.Qualifies("interface Shape {"))
	assert.True(t, j.Qualifies("UserRepository extends CrudRepository<User, Long> {"))
	assert.False(t, j.Qualifies("return x;"))
	assert.False(t, j.Qualifies("import java.util.List;"))
}

func TestJavaScriptRules(t *testing.T) {
	js := NewJavaScriptRules()
	tests := []struct {
		line string
		want string
	}{
		{"function render() {", "Defines a new function"},
		{"const onSave = () => {", "Defines a new function"},
		{"const [count, setCount] = useState(0);", "Declares a variable"},
		{"let total = 0;", "Declares a variable"},
		{"useEffect(() => load(), []);", "Uses a React hook"},
		{"<button onClick={save}>", "Defines an event handler"},
		{"return null;", "Adds JavaScript logic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, js.Comment(tt.line), tt.line)
	}

	assert.True(t, js.Qualifies("function render() {"))
	assert.True(t, js.Qualifies("items.map(i => i.id)"))
	assert.False(t, js.Qualifies("var legacy = 1;"))
	assert.False(t, js.Qualifies("return null;"))
}

func TestPythonRules(t *testing.T) {
	py := NewPythonRules()
	assert.Equal(t, "Defines a new function", py.Comment("def run(self):"))
	assert.Equal(t, "Defines a new class", py.Comment("class Worker:"))
	assert.Equal(t, "Imports a required module", py.Comment("import os"))
	assert.Equal(t, "Imports a required module", py.Comment("from typing import List"))
	assert.Equal(t, "Adds Python logic", py.Comment("x = 1"))
	assert.False(t, py.Qualifies("def run(self):"))

	open, closing := py.Marker()
	assert.Equal(t, "#", open)
	assert.Empty(t, closing)
}

func TestCSSRules(t *testing.T) {
	css := NewCSSRules()
	assert.Equal(t, "Styles a CSS class", css.Comment(".card {"))
	assert.Equal(t, "Styles an ID selector", css.Comment("#header {"))
	assert.Equal(t, "Defines style properties", css.Comment("color: red;"))
	assert.Equal(t, "Adds CSS styles", css.Comment("a:hover /* link */"))
	assert.Equal(t, "Adds CSS styles", css.Comment("}"))

	open, closing := css.Marker()
	assert.Equal(t, "/*", open)
	assert.Equal(t, "*/", closing)
}

func TestEngine_Dispatch(t *testing.T) {
	e := NewEngine()

	assert.Equal(t, "java", e.RulesFor("src/Foo.java").Name())
	assert.Equal(t, "java", e.RulesFor("src/Foo.JAVA").Name())
	assert.Equal(t, "javascript", e.RulesFor("web/App.tsx").Name())
	assert.Equal(t, "python", e.RulesFor("tool.py").Name())
	assert.Equal(t, "css", e.RulesFor("site.scss").Name())
	assert.Equal(t, "markup", e.RulesFor("index.html").Name())
	assert.Equal(t, "generic", e.RulesFor("main.go").Name())

	assert.True(t, e.Supported("a/b/c.vue"))
	assert.False(t, e.Supported("main.rs"))
}

func TestEngine_CommentForLine(t *testing.T) {
	e := NewEngine()

	got, ok := e.CommentForLine("    public void bar() {", "Foo.java")
	assert.True(t, ok)
	assert.Equal(t, "Defines a method", got)

	got, ok = e.CommentForLine("fn main() {", "main.rs")
	assert.True(t, ok)
	assert.Equal(t, "Code change", got)

	for _, line := range []string{"", "   ", "// note", "  /* block */"} {
		_, ok := e.CommentForLine(line, "Foo.java")
		assert.False(t, ok, "line %q", line)
	}
}

func TestEngine_CommentForLineIsPure(t *testing.T) {
	e := NewEngine()
	paths := []string{"Foo.java", "app.ts", "x.py", "s.css", "i.html", "m.go", "README"}

	rapid.Check(t, func(t *rapid.T) {
		line := rapid.String().Draw(t, "line")
		path := rapid.SampledFrom(paths).Draw(t, "path")

		c1, ok1 := e.CommentForLine(line, path)
		c2, ok2 := e.CommentForLine(line, path)
		if c1 != c2 || ok1 != ok2 {
			t.Fatalf("CommentForLine(%q, %q) not deterministic: %q/%v vs %q/%v", line, path, c1, ok1, c2, ok2)
		}
	})
}
