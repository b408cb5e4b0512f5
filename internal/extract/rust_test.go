package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRust_StructAndImplMethod(t *testing.T) {
	src := []byte(`pub struct S {}

impl S {
    pub fn new() -> S { S{} }
}
`)

	symbols := finalize(t, "src/lib.rs", ExtractRust(src))
	require.Len(t, symbols, 2)

	assert.Equal(t, "S", symbols[0].Name)
	assert.Equal(t, KindClass, symbols[0].Kind)
	assert.Equal(t, VisExport, symbols[0].Visibility)

	assert.Equal(t, "S::new", symbols[1].Name)
	assert.Equal(t, KindMethod, symbols[1].Kind)
	assert.Equal(t, VisExport, symbols[1].Visibility)
	assert.Equal(t, "src/lib.rs::S::new", symbols[1].SymbolID)
}

func TestExtractRust_TraitImplAndVisibility(t *testing.T) {
	src := []byte(`pub trait Codec {
    fn encode(&self) -> Vec<u8>;
}

pub enum Frame {
    Data,
    Close,
}

impl Codec for Frame {
    fn encode(&self) -> Vec<u8> { vec![] }
}

fn private_helper() {}

pub const MAX_FRAME: usize = 4096;

pub type FrameResult = Result<Frame, ()>;
`)

	symbols := ExtractRust(src)
	byName := map[string]RawSymbol{}
	for _, s := range symbols {
		byName[s.Name] = s
	}

	assert.Equal(t, KindInterface, byName["Codec"].Kind)
	assert.Equal(t, KindEnum, byName["Frame"].Kind)

	encode := byName["Frame::encode"]
	assert.Equal(t, KindMethod, encode.Kind)
	assert.Equal(t, VisPrivate, encode.Visibility)

	assert.Equal(t, VisPrivate, byName["private_helper"].Visibility)
	assert.Equal(t, KindConstant, byName["MAX_FRAME"].Kind)
	assert.Equal(t, KindType, byName["FrameResult"].Kind)
}

func TestExtractRust_DocCommentsTolerateAttributes(t *testing.T) {
	src := []byte(`/// Builds the default runtime.
/// Later lines are ignored in the summary.
#[inline]
pub fn build() {}
`)

	symbols := ExtractRust(src)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Builds the default runtime.", symbols[0].Doc)
}

func TestExtractRust_GenericImplTarget(t *testing.T) {
	src := []byte(`impl<T> Wrapper<T> {
    pub fn get(&self) -> &T { &self.0 }
}
`)

	symbols := ExtractRust(src)
	require.Len(t, symbols, 1)
	assert.Equal(t, "Wrapper::get", symbols[0].Name)
}
