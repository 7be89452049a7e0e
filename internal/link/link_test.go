package link

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		reference string
		want      string
	}{
		{"John 3:16", "https://biblehub.com/john/3-16.htm"},
		{"1 Corinthians 13:4", "https://biblehub.com/1-corinthians/13-4.htm"},
		{"Song of Solomon 2:4", "https://biblehub.com/song-of-solomon/2-4.htm"},
		{"Psalms  23 : 1", "https://biblehub.com/psalms/23-1.htm"},
		{"PSALMS 23:1", "https://biblehub.com/psalms/23-1.htm"},
	}
	for _, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			got, err := Generate(tt.reference)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_Malformed(t *testing.T) {
	tests := []struct {
		reference string
		reason    string
	}{
		{"malformed", "missing ':'"},
		{"", "missing ':'"},
		{"John:3", "missing book or chapter"},
		{"John 3:", "missing verse"},
		{"John 3:16:2", "more than one ':'"},
	}
	for _, tt := range tests {
		t.Run(tt.reference, func(t *testing.T) {
			got, err := Generate(tt.reference)
			assert.Empty(t, got)
			var lfe *LinkFormatError
			require.True(t, errors.As(err, &lfe))
			assert.Equal(t, tt.reference, lfe.Reference)
			assert.Equal(t, tt.reason, lfe.Reason)
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("1 Corinthians 13:4")
	require.NoError(t, err)
	assert.Equal(t, Parts{Book: "1 Corinthians", Slug: "1-corinthians", Chapter: "13", Verse: "4"}, p)
}

func TestGenerator_BaseURL(t *testing.T) {
	g := NewGenerator("https://mirror.example/commentaries", "")
	got, err := g.Generate("John 3:16")
	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example/commentaries/john/3-16.htm", got)
}

func TestGenerator_LuaExpression(t *testing.T) {
	g := NewGenerator("", `"https://www.blueletterbible.org/kjv/" .. string.sub(slug, 1, 3) .. "/" .. chapter .. "/" .. verse`)
	got, err := g.Generate("John 3:16")
	require.NoError(t, err)
	assert.Equal(t, "https://www.blueletterbible.org/kjv/joh/3/16", got)
}

func TestGenerator_LuaStatementsWithReturn(t *testing.T) {
	g := NewGenerator("https://biblehub.com/commentaries/", `
local parts = { base, slug, "/", chapter, "-", verse, ".htm" }
return table.concat(parts)
`)
	got, err := g.Generate("1 Corinthians 13:4")
	require.NoError(t, err)
	assert.Equal(t, "https://biblehub.com/commentaries/1-corinthians/13-4.htm", got)
}

func TestGenerator_LuaFailures(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		reason string
	}{
		{name: "non-string", expr: "42", reason: "link template must return a non-empty string"},
		{name: "empty", expr: `""`, reason: "link template must return a non-empty string"},
		{name: "no io", expr: `io.open("/etc/passwd")`, reason: "link template failed"},
		{name: "no dofile", expr: `dofile("x.lua")`, reason: "link template failed"},
		{name: "syntax", expr: "return (", reason: "link template failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator("", tt.expr).Generate("John 3:16")
			var lfe *LinkFormatError
			require.True(t, errors.As(err, &lfe))
			assert.Contains(t, lfe.Reason, tt.reason)
		})
	}
}

func TestGenerator_LuaTimeout(t *testing.T) {
	g := NewGenerator("", "while true do end return 'x'")
	g.timeout = 20 * time.Millisecond
	_, err := g.Generate("John 3:16")
	var lfe *LinkFormatError
	require.True(t, errors.As(err, &lfe))
	assert.Equal(t, "link template timed out", lfe.Reason)
}

func TestGenerator_MalformedSkipsLua(t *testing.T) {
	_, err := NewGenerator("", `"never"`).Generate("malformed")
	var lfe *LinkFormatError
	require.True(t, errors.As(err, &lfe))
	assert.Equal(t, "missing ':'", lfe.Reason)
}
