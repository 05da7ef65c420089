package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJavaScriptRules_Declarations(t *testing.T) {
	content := `export function createUser(name) {}
const lookup = (id) => fetch(id);
export class AdminUser extends BaseUser {}
let retries = 3;
`
	decls := JavaScriptRules{}.Declarations(content)
	require.Len(t, decls, 4)

	assert.Equal(t, Declaration{Kind: DeclFunction, Name: "createUser", Line: 1}, decls[0])
	assert.Equal(t, Declaration{Kind: DeclFunction, Name: "lookup", Line: 2}, decls[1])
	assert.Equal(t, DeclClass, decls[2].Kind)
	assert.Equal(t, "AdminUser", decls[2].Name)
	assert.Equal(t, "BaseUser", decls[2].Extends)
	assert.Equal(t, Declaration{Kind: DeclVariable, Name: "retries", Line: 4}, decls[3])
}

func TestJavaScriptRules_SingletonDetection(t *testing.T) {
	content := `class Registry {
  static getInstance() {
    return Registry.instance;
  }
}
`
	decls := JavaScriptRules{}.Declarations(content)
	require.Len(t, decls, 1)
	assert.True(t, decls[0].Singleton)
}

func TestJavaScriptRules_Imports(t *testing.T) {
	content := `import React from 'react';
import { helper } from './utils';
import 'polyfill';
const fs = require('fs');
`
	imports := JavaScriptRules{}.Imports(content)
	require.Len(t, imports, 4)

	assert.Equal(t, "react", imports[0].Specifier)
	assert.False(t, imports[0].IsRelative())
	assert.Equal(t, "./utils", imports[1].Specifier)
	assert.True(t, imports[1].IsRelative())
	assert.Equal(t, "polyfill", imports[2].Specifier)
	assert.Equal(t, "fs", imports[3].Specifier)
}

func TestTypeScriptRules_Interfaces(t *testing.T) {
	content := `export interface Repository {
  find(id: string): Promise<User>;
}
`
	rules := JavaScriptRules{typescript: true}
	assert.Equal(t, "typescript", rules.Language())

	decls := rules.Declarations(content)
	require.NotEmpty(t, decls)
	assert.Equal(t, DeclInterface, decls[0].Kind)
	assert.Equal(t, "Repository", decls[0].Name)
}

func TestGoRules_Declarations(t *testing.T) {
	content := `package server

func Start(addr string) error { return nil }

func (s *Server) Stop() {}

type Server struct{}

type Handler interface{}

var defaultPort = 8080
`
	decls := GoRules{}.Declarations(content)
	require.Len(t, decls, 5)

	assert.Equal(t, Declaration{Kind: DeclFunction, Name: "Start", Line: 3}, decls[0])
	assert.Equal(t, Declaration{Kind: DeclFunction, Name: "Stop", Line: 5}, decls[1])
	assert.Equal(t, Declaration{Kind: DeclClass, Name: "Server", Line: 7}, decls[2])
	assert.Equal(t, Declaration{Kind: DeclInterface, Name: "Handler", Line: 9}, decls[3])
	assert.Equal(t, Declaration{Kind: DeclVariable, Name: "defaultPort", Line: 11}, decls[4])
}

func TestGoRules_Imports(t *testing.T) {
	content := `package server

import (
	"fmt"
	logging "log/slog"
)

import "errors"
`
	imports := GoRules{}.Imports(content)
	require.Len(t, imports, 3)
	assert.Equal(t, "fmt", imports[0].Specifier)
	assert.Equal(t, "log/slog", imports[1].Specifier)
	assert.Equal(t, "errors", imports[2].Specifier)
}

func TestPythonRules_Declarations(t *testing.T) {
	content := `import os
from .models import User

MAX_RETRIES = 5

class UserService(BaseService):
    def __init__(self):
        pass

async def fetch_user(user_id):
    return None
`
	rules := PythonRules{}

	decls := rules.Declarations(content)
	require.Len(t, decls, 4)
	assert.Equal(t, Declaration{Kind: DeclVariable, Name: "MAX_RETRIES", Line: 4}, decls[0])
	assert.Equal(t, DeclClass, decls[1].Kind)
	assert.Equal(t, "UserService", decls[1].Name)
	assert.Equal(t, "BaseService", decls[1].Extends)
	assert.Equal(t, Declaration{Kind: DeclFunction, Name: "__init__", Line: 7}, decls[2])
	assert.Equal(t, Declaration{Kind: DeclFunction, Name: "fetch_user", Line: 10}, decls[3])

	imports := rules.Imports(content)
	require.Len(t, imports, 2)
	assert.Equal(t, "os", imports[0].Specifier)
	assert.Equal(t, ".models", imports[1].Specifier)
	assert.True(t, imports[1].IsRelative())
}

func TestScanCalls(t *testing.T) {
	content := `if (ready) {
  fetchUser(id);
  fetchUser(other);
  render(page);
}
`
	calls := ScanCalls(content)
	assert.Equal(t, []string{"fetchUser", "render"}, calls)
}

func TestCountConditionals(t *testing.T) {
	content := `if x:
    for y in rows:
        while True:
            pass
`
	assert.Equal(t, 3, CountConditionals(content))
}

func TestRulesByExtension(t *testing.T) {
	registry := RulesByExtension()

	for _, ext := range []string{".go", ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".py"} {
		_, ok := registry[ext]
		assert.True(t, ok, "missing rules for %s", ext)
	}
	assert.Equal(t, "go", registry[".go"].Language())
	assert.Equal(t, "javascript", registry[".js"].Language())
	assert.Equal(t, "python", registry[".py"].Language())
}
