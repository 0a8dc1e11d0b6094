package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ops-generator/internal/directive"
	"ops-generator/internal/expand"
)

func bareConfig() GeneratorConfig {
	cfg := DefaultGeneratorConfig()
	cfg.GenerateComments = false

	return cfg
}

func generate(t *testing.T, cfg GeneratorConfig, src string) *GeneratedFile {
	t.Helper()

	file, diags := NewGenerator(cfg).Generate(SourceFile{Content: []byte(src)})
	require.False(t, diags.HasErrors(), "unexpected errors: %v", diags.Error())
	require.NotNil(t, file)

	return file
}

func TestGenerator_Generate_PlainBinary(t *testing.T) {
	src := `define_operator!(+ |a: &Donkey, b: &Diddy| -> Dixie { Dixie(a.bananas + b.bananas) });`

	file := generate(t, bareConfig(), src)

	want := Header + "\n\n" +
		"impl ::core::ops::Add<&Diddy> for &Donkey {\n" +
		"    type Output = Dixie;\n" +
		"\n" +
		"    fn add(self, rhs: &Diddy) -> Self::Output {\n" +
		"        let lhs = self;\n" +
		"        (|a: &Donkey, b: &Diddy| -> Dixie { Dixie(a.bananas + b.bananas) })(lhs, rhs)\n" +
		"    }\n" +
		"}\n"

	assert.Equal(t, want, string(file.Content))
	assert.Equal(t, 1, file.Units)
	assert.Equal(t, "stdin_ops.rs", file.Filename)
}

func TestGenerator_Generate_ExtendedBinaryCompleteness(t *testing.T) {
	src := `define_operator_extended!(+ |a: &Donkey, b: &Diddy| -> Dixie { Dixie(a.bananas + b.bananas) });`

	file := generate(t, bareConfig(), src)
	content := string(file.Content)

	assert.Equal(t, 4, file.Units)

	heads := []string{
		"impl ::core::ops::Add<&Diddy> for &Donkey {",
		"impl ::core::ops::Add<Diddy> for Donkey {",
		"impl ::core::ops::Add<&Diddy> for Donkey {",
		"impl ::core::ops::Add<Diddy> for &Donkey {",
	}

	last := -1

	for _, h := range heads {
		idx := strings.Index(content, h)
		require.GreaterOrEqual(t, idx, 0, "missing %q", h)
		assert.Greater(t, idx, last, "%q out of order", h)
		assert.Equal(t, 1, strings.Count(content, h), "%q emitted more than once", h)

		last = idx
	}

	// Owned values are borrowed before reaching the body.
	assert.Contains(t, content, "})(&lhs, &rhs)")
	assert.Contains(t, content, "})(&lhs, rhs)")
	assert.Contains(t, content, "})(lhs, &rhs)")
	assert.Contains(t, content, "})(lhs, rhs)")
}

func TestGenerator_Generate_ExtendedPartialOwnership(t *testing.T) {
	src := `define_operator_extended!(- |a: Donkey, b: &Diddy| -> Dixie { Dixie(a.bananas - b.bananas) });`

	file := generate(t, bareConfig(), src)
	content := string(file.Content)

	assert.Equal(t, 2, file.Units)
	assert.Contains(t, content, "impl ::core::ops::Sub<&Diddy> for Donkey {")
	assert.Contains(t, content, "impl ::core::ops::Sub<Diddy> for Donkey {")
	assert.NotContains(t, content, "for &Donkey")
}

func TestGenerator_Generate_Commutative(t *testing.T) {
	src := `define_operator_commutative!(+ |a: Donkey, b: i32| -> i32 { a.bananas + b });`

	file := generate(t, bareConfig(), src)
	content := string(file.Content)

	assert.Equal(t, 2, file.Units)
	assert.Contains(t, content, "impl ::core::ops::Add<i32> for Donkey {")
	assert.Contains(t, content, "impl ::core::ops::Add<Donkey> for i32 {")

	// The mirror hands the values back to the body in written order.
	mirrored := content[strings.Index(content, "for i32 {"):]
	assert.Contains(t, mirrored, "(|a: Donkey, b: i32| -> i32 { a.bananas + b })(rhs, lhs)")
}

func TestGenerator_Generate_ExtendedCommutativeYieldsEight(t *testing.T) {
	src := `define_operator_extended_commutative!(* |a: &Donkey, b: &Diddy| -> Dixie { Dixie(a.bananas * b.bananas) });`

	file := generate(t, bareConfig(), src)
	content := string(file.Content)

	assert.Equal(t, 8, file.Units)

	for _, h := range []string{
		"Mul<&Diddy> for &Donkey", "Mul<Diddy> for Donkey", "Mul<&Diddy> for Donkey", "Mul<Diddy> for &Donkey",
		"Mul<&Donkey> for &Diddy", "Mul<Donkey> for Diddy", "Mul<&Donkey> for Diddy", "Mul<Donkey> for &Diddy",
	} {
		assert.Equal(t, 1, strings.Count(content, "impl ::core::ops::"+h+" {"), h)
	}
}

func TestGenerator_Generate_ExtendedAssignment(t *testing.T) {
	src := `define_operator_extended!(+= |a: &mut Donkey, b: &Diddy| { a.bananas += b.bananas; });`

	file := generate(t, bareConfig(), src)

	want := Header + "\n\n" +
		"impl ::core::ops::AddAssign<&Diddy> for Donkey {\n" +
		"    fn add_assign(&mut self, rhs: &Diddy) {\n" +
		"        let lhs = self;\n" +
		"        (|a: &mut Donkey, b: &Diddy| { a.bananas += b.bananas; })(lhs, rhs);\n" +
		"    }\n" +
		"}\n" +
		"\n" +
		"impl ::core::ops::AddAssign<Diddy> for Donkey {\n" +
		"    fn add_assign(&mut self, rhs: Diddy) {\n" +
		"        let lhs = self;\n" +
		"        (|a: &mut Donkey, b: &Diddy| { a.bananas += b.bananas; })(lhs, &rhs);\n" +
		"    }\n" +
		"}\n"

	assert.Equal(t, want, string(file.Content))
	assert.Equal(t, 2, file.Units)
}

func TestGenerator_Generate_ExtendedUnary(t *testing.T) {
	src := `define_operator_extended!(- |a: &Donkey| -> Donkey { Donkey(-a.bananas) });`

	file := generate(t, bareConfig(), src)
	content := string(file.Content)

	assert.Equal(t, 2, file.Units)
	assert.Contains(t, content, "impl ::core::ops::Neg for &Donkey {")
	assert.Contains(t, content, "impl ::core::ops::Neg for Donkey {")
	assert.Contains(t, content, "    fn neg(self) -> Self::Output {")
	assert.Contains(t, content, "(|a: &Donkey| -> Donkey { Donkey(-a.bananas) })(&lhs)")
}

func TestGenerator_Generate_GenericsAndAttributesReplayed(t *testing.T) {
	src := `define_operator_extended_commutative!(+, #[inline] #[must_use]
	<T: Copy + ::core::ops::Add<Output = T>>
	|a: &Barrel<T>, b: &Keg<T>| -> Barrel<T> { Barrel(a.0 + b.0) });`

	file := generate(t, bareConfig(), src)
	content := string(file.Content)

	require.Equal(t, 8, file.Units)
	assert.Equal(t, 8, strings.Count(content, "impl<T: Copy + ::core::ops::Add<Output = T>> ::core::ops::Add<"))
	assert.Equal(t, 8, strings.Count(content, "    #[inline]\n    #[must_use]\n    fn add("))
	assert.Contains(t, content, "::core::ops::Add<&Keg<T>> for &Barrel<T> {")
	assert.Contains(t, content, "::core::ops::Add<Barrel<T>> for Keg<T> {")
}

func TestGenerator_Generate_InlineOption(t *testing.T) {
	cfg := bareConfig()
	cfg.Inline = true
	cfg.OpsPath = "::std::ops"

	file := generate(t, cfg, `
define_operator!(! |a: Flag| -> Flag { Flag(!a.0) });
define_operator!(&, #[inline(always)] |a: Flag, b: Flag| -> Flag { Flag(a.0 & b.0) });
`)
	content := string(file.Content)

	assert.Equal(t, 2, file.Units)
	assert.Contains(t, content, "impl ::std::ops::Not for Flag {")
	assert.Contains(t, content, "    #[inline]\n    fn not(self)")
	assert.Contains(t, content, "    #[inline(always)]\n    fn bitand(self, rhs: Flag)")
	assert.NotContains(t, content, "#[inline(always)]\n    #[inline]")
}

func TestGenerator_Generate_BindersKeptVerbatim(t *testing.T) {
	src := `define_operator!(- |mut a: Point, (dx, dy): (i32, i32)| -> Point { a.x -= dx; a.y -= dy; a });`

	file := generate(t, bareConfig(), src)

	assert.Contains(t, string(file.Content), "impl ::core::ops::Sub<(i32, i32)> for Point {")
	assert.Contains(t, string(file.Content), "(|mut a: Point, (dx, dy): (i32, i32)| -> Point { a.x -= dx; a.y -= dy; a })(lhs, rhs)")
}

func TestGenerator_Generate_Comments(t *testing.T) {
	cfg := DefaultGeneratorConfig()

	file, diags := NewGenerator(cfg).Generate(SourceFile{
		Path:    "src/donkey.ops.rs",
		Content: []byte(`define_operator_commutative!(+ |a: Donkey, b: i32| -> i32 { a.bananas + b });`),
	})
	require.False(t, diags.HasErrors())
	require.NotNil(t, file)

	content := string(file.Content)

	assert.True(t, strings.HasPrefix(content, Header+"\n// Source: src/donkey.ops.rs\n"))
	assert.Contains(t, content, "// define_operator_commutative! at 1:1: Donkey + i32\nimpl")
	assert.Contains(t, content, "// define_operator_commutative! at 1:1: i32 + Donkey (mirrored)\nimpl")
	assert.Equal(t, "donkey_ops.rs", file.Filename)
	assert.Equal(t, "src/donkey.ops.rs", file.Source)
}

func TestGenerator_Generate_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{
			name: "reference output",
			src:  `define_operator!(+ |a: &Foo, b: &Foo| -> &Foo { a });`,
			code: directive.CodeReferenceOutput,
		},
		{
			name: "no operand list",
			src:  `define_operator!(+ a: Foo, b: Foo -> Foo { a });`,
			code: directive.CodeMalformed,
		},
		{
			name: "commutative unary",
			src:  `define_operator_commutative!(! |a: Foo| -> Foo { a });`,
			code: directive.CodeNotBinary,
		},
		{
			name: "unknown operator",
			src:  `define_operator!(== |a: Foo, b: Foo| -> bool { true });`,
			code: directive.CodeUnknownOperator,
		},
		{
			name: "unbalanced",
			src:  `define_operator!(+ |a: Foo, b: Foo| -> Foo { a );`,
			code: directive.CodeUnbalanced,
		},
		{
			name: "unterminated string",
			src:  `define_operator!(+ |a: Foo, b: Foo| -> Foo { "a });`,
			code: "LEX001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, diags := NewGenerator(bareConfig()).Generate(SourceFile{Path: "bad.rs", Content: []byte(tt.src)})

			assert.Nil(t, file)
			require.True(t, diags.HasErrors())
			assert.Equal(t, tt.code, diags.Errors[0].Code)
			assert.Equal(t, "bad.rs", diags.Errors[0].File)
		})
	}
}

func TestGenerator_Generate_ReportsEveryDirective(t *testing.T) {
	src := `
define_operator!(+ |a: &Foo, b: &Foo| -> &Foo { a });
define_operator!(- |a: Foo, b: Foo| -> Foo { a });
define_operator!(* |a: Foo| { a });
`

	file, diags := NewGenerator(bareConfig()).Generate(SourceFile{Content: []byte(src)})

	assert.Nil(t, file)
	require.Len(t, diags.Errors, 2)
	assert.Equal(t, directive.CodeReferenceOutput, diags.Errors[0].Code)
	assert.Equal(t, 2, diags.Errors[0].Pos.Line)
	assert.Equal(t, directive.CodeMalformed, diags.Errors[1].Code)
	assert.Equal(t, 4, diags.Errors[1].Pos.Line)
}

func TestGenerator_Generate_NoDirectives(t *testing.T) {
	file, diags := NewGenerator(bareConfig()).Generate(SourceFile{
		Path:    "plain.rs",
		Content: []byte("fn main() { println!(\"hi\"); }\n"),
	})

	assert.Nil(t, file)
	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Infos, 1)
	assert.Equal(t, CodeNoDirectives, diags.Infos[0].Code)
}

func TestGenerator_Generate_NearMiss(t *testing.T) {
	src := "define_operator_extnded!(+ |a: &A, b: &B| -> C { C });\n" +
		"define_operator!(- |a: A, b: B| -> C { C });\n"

	file, diags := NewGenerator(bareConfig()).Generate(SourceFile{Path: "typo.ops.rs", Content: []byte(src)})
	require.NotNil(t, file)
	assert.Equal(t, 1, file.Units)

	require.Len(t, diags.Warnings, 1)

	w := diags.Warnings[0]
	assert.Equal(t, directive.CodeNearMiss, w.Code)
	assert.Equal(t, "typo.ops.rs:1:1", w.Location())
	assert.Equal(t, []string{"did you mean define_operator_extended!?"}, w.Suggestions)
}

func TestGenerator_Generate_SameTypeCommutative(t *testing.T) {
	src := `define_operator_commutative!(+ |a: Foo, b: Foo| -> Foo { a });`

	file, diags := NewGenerator(bareConfig()).Generate(SourceFile{Content: []byte(src)})
	require.NotNil(t, file)
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, expand.CodeSameTypeCommutative, diags.Warnings[0].Code)

	cfg := bareConfig()
	cfg.StrictCommutative = true

	file, diags = NewGenerator(cfg).Generate(SourceFile{Content: []byte(src)})
	assert.Nil(t, file)
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, expand.CodeSameTypeCommutative, diags.Errors[0].Code)
}

func TestGenerator_Analyze_NoDuplicateSignatures(t *testing.T) {
	src := `
define_operator!(+ |a: Donkey, b: Diddy| -> Dixie { Dixie(0) });
define_operator_extended!(- |a: &Donkey, b: Diddy| -> Dixie { Dixie(0) });
define_operator_extended!(* |a: &Donkey, b: &Diddy| -> Dixie { Dixie(0) });
define_operator_extended_commutative!(/ |a: &Donkey, b: &Diddy| -> Dixie { Dixie(0) });
define_operator_extended!(%= |a: &mut Donkey, b: &Diddy| { });
define_operator_extended!(! |a: &Donkey| -> Donkey { Donkey(0) });
`

	a := NewGenerator(bareConfig()).Analyze(SourceFile{Content: []byte(src)})
	require.False(t, a.Diagnostics.HasErrors())
	require.Len(t, a.Results, 6)

	counts := []int{1, 2, 4, 8, 2, 2}

	for i, res := range a.Results {
		assert.Len(t, res.Implementations, counts[i], res.Spec.String())

		seen := map[expand.Signature]bool{}
		for _, im := range res.Implementations {
			sig := im.Signature()
			assert.False(t, seen[sig], "duplicate %+v in %s", sig, res.Spec)
			seen[sig] = true
		}
	}
}

func TestGenerator_OutputName(t *testing.T) {
	g := NewGenerator(GeneratorConfig{Suffix: ".gen.rs"})

	assert.Equal(t, "vec.gen.rs", g.OutputName("src/vec.ops.rs"))
	assert.Equal(t, "stdin.gen.rs", g.OutputName(""))
	assert.Equal(t, "lib_ops.rs", NewGenerator(GeneratorConfig{}).OutputName("lib.rs"))
}
