package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rule(t *testing.T, name string) RewriteRule {
	t.Helper()
	for _, r := range ConversionRules {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no rule named %q", name)
	return RewriteRule{}
}

func TestConversionRules(t *testing.T) {
	tests := []struct {
		rule     string
		input    string
		expected string
	}{
		{"comments", `<div>{/* hidden */}text</div>`, `<div>text</div>`},
		{"class-attribute", `<div className="a">`, `<div class="a">`},
		{"label-target", `<label htmlFor="email">`, `<label for="email">`},
		{"motion-open", `<motion.div animate="x">`, `<div animate="x">`},
		{"motion-close", `</motion.div >`, `</div>`},
		{"presence-open", `<AnimatePresence mode="wait"><p>`, `<p>`},
		{"presence-close", `</p></AnimatePresence>`, `</p>`},
		{"fragments", `<><p>a</p></>`, `<p>a</p>`},
		{"template-literal", "<a class={`btn ${size}`}>", `<a class="btn ${size}">`},
		{"double-quoted-literal", `<p>{"hello"}</p>`, `<p>"hello"</p>`},
		{"single-quoted-literal", `<img alt={'logo'}>`, `<img alt="logo">`},
		{"event-handlers", `<button onClick={() => { open() }}>Go</button>`, `<button>Go</button>`},
		{"refs", `<div ref={containerRef}>`, `<div>`},
		{"object-props", `<div style={{ color: "red" }} id="x">`, `<div id="x">`},
		{"self-closing void", `<img src="a.png" />`, `<img src="a.png">`},
		{"self-closing element", `<Spacer size="2"/>`, `<Spacer size="2"></Spacer>`},
		{"self-closing bare", `<br/>`, `<br>`},
		{"attribute-interpolation", `<img src={hero.image}>`, `<img src="{{hero_image}}">`},
		{"interpolation", `<h1>{title} {cta.label}</h1>`, `<h1>{{title}} {{cta_label}}</h1>`},
		{"interpolation keeps placeholders", `<h1>{{title}}</h1>`, `<h1>{{title}}</h1>`},
		{"whitespace", "<p>\n    a\t b\n</p>", "<p> a b </p>"},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			name := tt.rule
			switch name {
			case "self-closing void", "self-closing element", "self-closing bare":
				name = "self-closing"
			case "interpolation keeps placeholders":
				name = "interpolation"
			}
			assert.Equal(t, tt.expected, rule(t, name).Apply(tt.input))
		})
	}
}

func TestExtractReturnBlock(t *testing.T) {
	t.Run("formatted", func(t *testing.T) {
		source := "function A() {\n  return (\n    <button onClick={() => go(1)}>x</button>\n  );\n}"
		block, ok := ExtractReturnBlock(source)
		require.True(t, ok)
		assert.Equal(t, "<button onClick={() => go(1)}>x</button>", block)
	})

	t.Run("compact", func(t *testing.T) {
		block, ok := ExtractReturnBlock("const A = () => { return (<p>hi</p>); }")
		require.True(t, ok)
		assert.Equal(t, "<p>hi</p>", block)
	})

	t.Run("bare jsx", func(t *testing.T) {
		source := "export default function Hero({ title }) {\n  return <section className=\"hero\"><h1>{title}</h1></section>;\n}"
		block, ok := ExtractReturnBlock(source)
		require.True(t, ok)
		assert.Equal(t, `<section className="hero"><h1>{title}</h1></section>`, block)
	})

	t.Run("bare jsx without semicolon", func(t *testing.T) {
		block, ok := ExtractReturnBlock("function A() {\n  return <p>hi</p>\n}")
		require.True(t, ok)
		assert.Equal(t, "<p>hi</p>", block)
	})

	t.Run("callback return before component return", func(t *testing.T) {
		source := `function List({ list }) {
  const items = list.map((i) => {
    return (<li>{i}</li>);
  });
  return (
    <ul className="list">{items}</ul>
  );
}`
		block, ok := ExtractReturnBlock(source)
		require.True(t, ok)
		assert.Equal(t, `<ul className="list">{items}</ul>`, block)
	})

	t.Run("no return block", func(t *testing.T) {
		_, ok := ExtractReturnBlock("export const A = () => <p>hi</p>;")
		assert.False(t, ok)
	})
}

func TestConvert_CallbackReturn(t *testing.T) {
	source := `export default function List({ list }) {
  const items = list.map((i) => {
    return (<li>{i}</li>);
  });
  return (
    <ul className="list">{items}</ul>
  );
}`
	assert.Equal(t, `<ul class="list">{{items}}</ul>`, Convert(source))
}

func TestConvert_BareReturn(t *testing.T) {
	source := `export default function Hero({ title }) {
  return <section className="hero"><h1>{title}</h1></section>;
}`
	assert.Equal(t, `<section class="hero"><h1>{{title}}</h1></section>`, Convert(source))
}

func TestConvert(t *testing.T) {
	source := `export default function Banner({ title, cta }) {
  return (
    <>
      {/* headline */}
      <motion.header className="banner" initial={{ y: -10 }}>
        <h2>{title}</h2>
        <a href={cta.href} onClick={() => track("cta")}>{cta.label}</a>
        <img src="/logo.svg" alt={"Logo"} />
      </motion.header>
    </>
  );
}`
	expected := `<header class="banner"> <h2>{{title}}</h2> <a href="{{cta_href}}">{{cta_label}}</a> <img src="/logo.svg" alt="Logo"> </header>`
	assert.Equal(t, expected, Convert(source))
}

func TestConvert_Fallback(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"no return block", "export const x = 1"},
		{"too short", "function A() { return (<p/>); }"},
		{"no elements", "function A() {\n  return (\n    someCall(argument, anotherArgument)\n  );\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, FallbackMarkup, Convert(tt.source))
		})
	}
}
