package pyimports_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/byecycle/modgraph"
	"github.com/LegacyCodeHQ/byecycle/pyimports"
)

func extract(t *testing.T, source string) []modgraph.ImportRecord {
	t.Helper()
	records, err := pyimports.ExtractImports("app.mod", false, []byte(source))
	require.NoError(t, err)
	return records
}

func TestExtractImports_PlainImport(t *testing.T) {
	records := extract(t, "import os\nimport app.core.db\n")

	require.Len(t, records, 2)
	assert.Equal(t, "os", records[0].Module)
	assert.Equal(t, "app.core.db", records[1].Module)
	for _, rec := range records {
		assert.Equal(t, modgraph.ModuleId("app.mod"), rec.Owner)
		assert.Equal(t, modgraph.ContextTopLevel, rec.Context)
		assert.Empty(t, rec.Name)
	}
}

func TestExtractImports_MultipleModulesPerStatement(t *testing.T) {
	records := extract(t, "import os, sys, json\n")

	require.Len(t, records, 3)
	assert.Equal(t, "os", records[0].Module)
	assert.Equal(t, "sys", records[1].Module)
	assert.Equal(t, "json", records[2].Module)
}

func TestExtractImports_AliasedImport(t *testing.T) {
	records := extract(t, "import numpy as np\nfrom app.core import db as database\n")

	require.Len(t, records, 2)
	assert.Equal(t, "numpy", records[0].Module)
	assert.Equal(t, "np", records[0].Alias)
	assert.Equal(t, "app.core", records[1].Module)
	assert.Equal(t, "db", records[1].Name)
	assert.Equal(t, "database", records[1].Alias)
}

func TestExtractImports_FromImport(t *testing.T) {
	records := extract(t, "from app.core import db, cache\n")

	require.Len(t, records, 2)
	assert.Equal(t, "app.core", records[0].Module)
	assert.Equal(t, "db", records[0].Name)
	assert.Equal(t, "app.core", records[1].Module)
	assert.Equal(t, "cache", records[1].Name)
}

func TestExtractImports_RelativeImport(t *testing.T) {
	records := extract(t, "from . import sibling\nfrom ..models import user\nfrom .helpers import thing\n")

	require.Len(t, records, 3)
	assert.Equal(t, ".", records[0].Module)
	assert.Equal(t, "sibling", records[0].Name)
	assert.Equal(t, "..models", records[1].Module)
	assert.Equal(t, "user", records[1].Name)
	assert.Equal(t, ".helpers", records[2].Module)
	assert.Equal(t, "thing", records[2].Name)
}

func TestExtractImports_WildcardImport(t *testing.T) {
	records := extract(t, "from app.core import *\n")

	require.Len(t, records, 1)
	assert.Equal(t, "app.core", records[0].Module)
	assert.True(t, records[0].Wildcard)
	assert.Empty(t, records[0].Name)
}

func TestExtractImports_FutureImport(t *testing.T) {
	records := extract(t, "from __future__ import annotations\n")

	require.Len(t, records, 1)
	assert.Equal(t, "__future__", records[0].Module)
	assert.Equal(t, "annotations", records[0].Name)
}

func TestExtractImports_ConditionalContext(t *testing.T) {
	source := `
if True:
    import extras
else:
    import fallback

try:
    import fast_json
except ImportError:
    import json
`
	records := extract(t, source)

	require.Len(t, records, 4)
	for _, rec := range records {
		assert.Equal(t, modgraph.ContextConditional, rec.Context, "module %s", rec.Module)
	}
}

func TestExtractImports_TypeCheckingContext(t *testing.T) {
	source := `
from typing import TYPE_CHECKING

if TYPE_CHECKING:
    from app.models import User

if typing.TYPE_CHECKING:
    import app.schemas
`
	records := extract(t, source)

	require.Len(t, records, 3)
	assert.Equal(t, "typing", records[0].Module)
	assert.Equal(t, modgraph.ContextTopLevel, records[0].Context)
	assert.Equal(t, "app.models", records[1].Module)
	assert.Equal(t, modgraph.ContextTypeCheckOnly, records[1].Context)
	assert.Equal(t, "app.schemas", records[2].Module)
	assert.Equal(t, modgraph.ContextTypeCheckOnly, records[2].Context)
}

func TestExtractImports_DeferredContext(t *testing.T) {
	source := `
def lazy():
    import heavy

class Service:
    def handle(self):
        from app.core import db
`
	records := extract(t, source)

	require.Len(t, records, 2)
	assert.Equal(t, "heavy", records[0].Module)
	assert.Equal(t, modgraph.ContextDeferred, records[0].Context)
	assert.Equal(t, "app.core", records[1].Module)
	assert.Equal(t, modgraph.ContextDeferred, records[1].Context)
}

func TestExtractImports_ClassBodyIsTopLevel(t *testing.T) {
	source := `
class Config:
    import os
`
	records := extract(t, source)

	require.Len(t, records, 1)
	assert.Equal(t, modgraph.ContextTopLevel, records[0].Context)
}

func TestExtractImports_GuardInsideFunctionIsDeferred(t *testing.T) {
	source := `
def load():
    if TYPE_CHECKING:
        import app.models
`
	records := extract(t, source)

	require.Len(t, records, 1)
	assert.Equal(t, modgraph.ContextDeferred, records[0].Context)
}

func TestExtractImports_NestedGuardsDoNotCount(t *testing.T) {
	// Only the guard directly enclosing the declaration at module scope
	// counts; anything buried deeper is treated as a plain import.
	source := `
if a:
    if b:
        import deep
`
	records := extract(t, source)

	require.Len(t, records, 1)
	assert.Equal(t, modgraph.ContextTopLevel, records[0].Context)
}

func TestExtractImports_InvalidSyntax(t *testing.T) {
	_, err := pyimports.ExtractImports("app.broken", false, []byte("import (((\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pyimports.ErrInvalidSyntax)
}

func TestExtractImports_NoImports(t *testing.T) {
	records := extract(t, "x = 1\n\nprint(x)\n")
	assert.Empty(t, records)
}
