package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractGo_ExportedVsPrivate(t *testing.T) {
	src := []byte(`package main

func Hello() {}

func helper() {}
`)

	symbols := ExtractGo(src)
	require.Len(t, symbols, 2)

	assert.Equal(t, "Hello", symbols[0].Name)
	assert.Equal(t, KindFunction, symbols[0].Kind)
	assert.Equal(t, VisExport, symbols[0].Visibility)

	assert.Equal(t, "helper", symbols[1].Name)
	assert.Equal(t, KindFunction, symbols[1].Kind)
	assert.Equal(t, VisPrivate, symbols[1].Visibility)
}

func TestExtractGo_MethodsAndTypes(t *testing.T) {
	src := []byte(`package store

// Store persists records.
type Store struct {
	path string
}

// Put writes one record.
func (s *Store) Put(key string, value []byte) error {
	return nil
}

type Reader interface {
	Get(key string) ([]byte, error)
}

type Alias = Store

const MaxEntries = 1024

var defaultStore *Store
`)

	symbols := finalize(t, "internal/store/store.go", ExtractGo(src))
	byName := map[string]Symbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	assert.Equal(t, KindClass, byName["Store"].Kind)
	assert.Equal(t, "Store persists records.", byName["Store"].DocstringSummary)

	put := byName["Store.Put"]
	assert.Equal(t, KindMethod, put.Kind)
	assert.Equal(t, VisExport, put.Visibility)
	assert.Equal(t, "Put writes one record.", put.DocstringSummary)
	assert.Equal(t, "internal/store/store.go::Store.Put", put.SymbolID)

	assert.Equal(t, KindInterface, byName["Reader"].Kind)
	assert.Equal(t, KindType, byName["Alias"].Kind)
	assert.Equal(t, KindConstant, byName["MaxEntries"].Kind)
	assert.Equal(t, KindVariable, byName["defaultStore"].Kind)
	assert.Equal(t, VisPrivate, byName["defaultStore"].Visibility)
}

func TestExtractGo_GroupedConstBlock(t *testing.T) {
	src := []byte(`package color

const (
	Red   = "red"
	Green = "green"

	// internal sentinel
	none = ""
)

var (
	Palette = []string{Red, Green}
)
`)

	symbols := ExtractGo(src)
	names := map[string]string{}
	for _, s := range symbols {
		names[s.Name] = s.Kind
	}

	assert.Equal(t, KindConstant, names["Red"])
	assert.Equal(t, KindConstant, names["Green"])
	assert.Equal(t, KindConstant, names["none"])
	assert.Equal(t, KindVariable, names["Palette"])
}

func TestExtractGo_DocComment(t *testing.T) {
	src := []byte(`package run

// Run executes the pipeline end to end.
// It blocks until completion.
func Run() error { return nil }
`)

	symbols := ExtractGo(src)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Run executes the pipeline end to end.", symbols[0].Doc)
}
