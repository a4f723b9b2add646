package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symbolByName(t *testing.T, res Result, name string) ParsedSymbol {
	t.Helper()
	for _, s := range res.Symbols {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("symbol %q not found in %+v", name, res.Symbols)
	return ParsedSymbol{}
}

func exportNames(res Result) []string {
	var out []string
	for _, e := range res.Exports {
		out = append(out, e.Name)
	}
	return out
}

func TestParse_UnsupportedLanguageYieldsEmptyResult(t *testing.T) {
	res, warning := Parse([]byte("whatever"), "x.xyz", "cobol")
	assert.Empty(t, res.Imports)
	assert.Empty(t, res.Symbols)
	assert.Empty(t, warning)
}

func TestParse_TypeScript_ImportsExportsAndClassMethods(t *testing.T) {
	src := []byte(`import { helper } from './lib'

export function compute(n: number): number {
  return helper(n)
}

export class Api {
  get(url: string) {
    return url
  }
}
`)
	res, warning := Parse(src, "api.ts", "typescript")
	require.Empty(t, warning)

	require.Len(t, res.Imports, 1)
	assert.Equal(t, "./lib", res.Imports[0].Source)
	assert.Equal(t, []string{"helper"}, res.Imports[0].Names)

	fn := symbolByName(t, res, "compute")
	assert.Equal(t, "function", fn.Kind)
	assert.Equal(t, 3, fn.StartLine)

	cls := symbolByName(t, res, "Api")
	assert.Equal(t, "class", cls.Kind)

	method := symbolByName(t, res, "Api.get")
	assert.Equal(t, "method", method.Kind)

	assert.Contains(t, exportNames(res), "compute")
	assert.Contains(t, exportNames(res), "Api")
}

func TestParse_TypeScript_TypeOnlyImport(t *testing.T) {
	res, warning := Parse([]byte("import type { Config } from './config'\n"), "a.ts", "typescript")
	require.Empty(t, warning)
	require.Len(t, res.Imports, 1)
	assert.True(t, res.Imports[0].IsTypeOnly)
}

func TestParse_Go_MethodsStripPointerReceiver(t *testing.T) {
	src := []byte(`package server

import "fmt"

type Server struct{}

func (s *Server) Start() error {
	return fmt.Errorf("not running")
}

func internalOnly() {}
`)
	res, warning := Parse(src, "server.go", "go")
	require.Empty(t, warning)

	require.Len(t, res.Imports, 1)
	assert.Equal(t, "fmt", res.Imports[0].Source)

	st := symbolByName(t, res, "Server")
	assert.Equal(t, "struct", st.Kind)

	method := symbolByName(t, res, "Server.Start")
	assert.Equal(t, "method", method.Kind)

	exports := exportNames(res)
	assert.Contains(t, exports, "Server")
	assert.Contains(t, exports, "Server.Start")
	assert.NotContains(t, exports, "internalOnly")
}

func TestParse_Python_ClassMethodsAndUnderscoreExports(t *testing.T) {
	src := []byte(`import os
from .util import helper

class Account:
    def balance(self):
        return 0

def _private():
    pass
`)
	res, warning := Parse(src, "account.py", "python")
	require.Empty(t, warning)

	var sources []string
	for _, imp := range res.Imports {
		sources = append(sources, imp.Source)
	}
	assert.Contains(t, sources, "os")
	assert.Contains(t, sources, ".util")

	cls := symbolByName(t, res, "Account")
	assert.Equal(t, "class", cls.Kind)
	method := symbolByName(t, res, "Account.balance")
	assert.Equal(t, "method", method.Kind)

	exports := exportNames(res)
	assert.Contains(t, exports, "Account")
	assert.NotContains(t, exports, "_private")
}

func TestParse_JavaScript_CommonJSRequireAndExports(t *testing.T) {
	src := []byte(`const { readConfig } = require('./config')

function load() {
  return readConfig()
}

module.exports.load = load
`)
	res, warning := Parse(src, "load.js", "javascript")
	require.Empty(t, warning)

	require.NotEmpty(t, res.Imports)
	assert.Equal(t, "./config", res.Imports[0].Source)
	assert.Equal(t, []string{"readConfig"}, res.Imports[0].Names)

	assert.Contains(t, exportNames(res), "load")
}
