package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/mdtree/pkg/langdetect"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		code   string
		want   string
		wantOK bool
	}{
		{name: "shebang bash", code: "#!/bin/bash\necho hello", want: "bash", wantOK: true},
		{name: "shebang sh", code: "#!/bin/sh\necho hello", want: "bash", wantOK: true},
		{name: "shebang python", code: "#!/usr/bin/env python3\nprint('hello')", want: "python", wantOK: true},
		{name: "shebang wins over content", code: "#!/bin/bash\ndef foo():\n    pass", want: "bash", wantOK: true},
		{name: "go", code: "package main\n\nfunc main() {}\n", want: "go", wantOK: true},
		{name: "python", code: "def foo():\n    pass\n", want: "python", wantOK: true},
		{name: "json", code: `{"key": "value", "n": 1}`, want: "json", wantOK: true},
		{name: "yaml", code: "key: value\nother: 123\nlist:\n  - a\n  - b\n", want: "yaml", wantOK: true},
		{name: "rust", code: "fn main() {\n    println!(\"hi\");\n}", want: "rust", wantOK: true},
		{name: "sql", code: "SELECT * FROM users WHERE id = 1;", want: "sql", wantOK: true},
		{name: "html", code: "<!DOCTYPE html>\n<html><body></body></html>", want: "html", wantOK: true},
		{name: "dockerfile", code: "FROM golang:1.25\nWORKDIR /app\nCOPY . .\nRUN go build", want: "dockerfile", wantOK: true},
		{name: "empty", code: "", want: "", wantOK: false},
		{name: "whitespace", code: "  \n\t\n", want: "", wantOK: false},
		{name: "prose", code: "just some words without any code in them", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := langdetect.Detect([]byte(tt.code))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func BenchmarkDetect(b *testing.B) {
	code := []byte("package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"hi\")\n}\n")
	for b.Loop() {
		langdetect.Detect(code)
	}
}
