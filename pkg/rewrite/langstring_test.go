package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanInfoString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info string
		want []infoToken
	}{
		{"", nil},
		{"rust", []infoToken{{kind: infoLang, text: "rust"}}},
		{"rust,no_run", []infoToken{
			{kind: infoLang, text: "rust"},
			{kind: infoLang, text: "no_run"},
		}},
		{"c other", []infoToken{
			{kind: infoLang, text: "c"},
			{kind: infoLang, text: "other"},
		}},
		{`"my lang"`, []infoToken{{kind: infoLang, text: "my lang"}}},
		{"{.numberLines}", []infoToken{{kind: infoClass, text: "numberLines"}}},
		{"{startFrom=100}", []infoToken{{kind: infoKeyValue, key: "startFrom", value: "100"}}},
		{`{k="quoted value"}`, []infoToken{{kind: infoKeyValue, key: "k", value: "quoted value"}}},
		{"python {.numberLines startFrom=100}", []infoToken{
			{kind: infoLang, text: "python"},
			{kind: infoClass, text: "numberLines"},
			{kind: infoKeyValue, key: "startFrom", value: "100"},
		}},
		{"rust (a comment) edition2021", []infoToken{
			{kind: infoLang, text: "rust"},
			{kind: infoLang, text: "edition2021"},
		}},
		{"(leading comment) rust", []infoToken{{kind: infoLang, text: "rust"}}},
	}

	for _, tt := range tests {
		tokens, errs := scanInfoString(tt.info)
		assert.Empty(t, errs, "scan %q", tt.info)
		assert.Equal(t, tt.want, tokens, "scan %q", tt.info)
	}
}

func TestScanInfoStringErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info string
		want string
	}{
		{`"abc`, "invalid codeblock attribute: unclosed quote string `\"`"},
		{"{.foo", "invalid codeblock attribute: unclosed attribute block (`{}`): missing `}` at the end"},
		{"(never closed", "invalid codeblock attribute: unclosed comment: missing `)` at the end"},
		{"{k}", "invalid codeblock attribute: expected `=`, found `}`"},
		{"{k=}", "invalid codeblock attribute: unexpected `}` character after `=`"},
		{"{.}", "invalid codeblock attribute: unexpected `}` character after `.`"},
	}

	for _, tt := range tests {
		_, errs := scanInfoString(tt.info)
		if assert.NotEmpty(t, errs, "scan %q", tt.info) {
			assert.Equal(t, tt.want, errs[0], "scan %q", tt.info)
		}
	}
}

func TestFenceLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info string
		want string
	}{
		{"", ""},
		{"python", "python"},
		{"python {.numberLines}", "python"},
		{"{.numberLines} python", "python"},
		{"{.numberLines}", ""},
	}

	for _, tt := range tests {
		lang, errs := fenceLanguage(tt.info)
		assert.Empty(t, errs, "info %q", tt.info)
		assert.Equal(t, tt.want, lang, "info %q", tt.info)
	}
}

func TestInfoIsSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		info string
		want bool
	}{
		{"", true},
		{"rust", true},
		{"ignore", true},
		{"should_panic", true},
		{"no_run", true},
		{"compile_fail", true},
		{"compile_fail,E69420", true},
		{"standalone_crate", true},
		{"edition2015", true},
		{"edition2018", true},
		{"edition2021", true},
		{"edition2024", true},
		{"ignore-x86_64", true},
		{"ignore-x86_64,ignore-windows", true},
		{"c", false},
		{"python", false},
		{"text", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, infoIsSample(tt.info, defaultSamplePrefixes), "info %q", tt.info)
	}
}
