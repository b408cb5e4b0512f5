package extract

import (
	"fmt"

	"github.com/Nramsrud/ark-index/internal/fsutil"
)

// baseline maps a language family to its regex extractor.
var baseline = map[string]func([]byte) []RawSymbol{
	fsutil.LangTypeScript: ExtractTypeScript,
	fsutil.LangJavaScript: ExtractTypeScript,
	fsutil.LangPython:     ExtractPython,
	fsutil.LangRust:       ExtractRust,
	fsutil.LangGo:         ExtractGo,
}

// Registry dispatches extraction per file: adapters first, in order, then
// the regex baseline as the implicit terminal adapter.
type Registry struct {
	adapters []Adapter
	used     map[string]bool
}

// NewRegistry builds a registry over an ordered adapter chain.
func NewRegistry(adapters []Adapter) *Registry {
	return &Registry{adapters: adapters, used: make(map[string]bool)}
}

// Supports reports whether any extractor covers the file's language.
func (r *Registry) Supports(relPath string) bool {
	_, ok := baseline[fsutil.LanguageOf(relPath)]
	return ok
}

// ExtractFile produces the finished symbol records for one file, along with
// the name of the adapter that pre-empted the baseline ("" for baseline).
// The first available adapter returning a non-empty list wins; an adapter
// error falls through to the next candidate. Unsupported languages yield no
// symbols and no error.
func (r *Registry) ExtractFile(relPath string, src []byte) ([]Symbol, string, error) {
	raw, adapterName, err := r.extractRaw(relPath, src)
	if err != nil {
		return nil, "", err
	}
	if adapterName != "" {
		r.used[adapterName] = true
	}
	return Finalize(relPath, raw, NewIDAllocator()), adapterName, nil
}

func (r *Registry) extractRaw(relPath string, src []byte) ([]RawSymbol, string, error) {
	for _, a := range r.adapters {
		if !a.Available() {
			continue
		}
		raw, err := a.ExtractSymbols(relPath, src)
		if err != nil {
			continue
		}
		if len(raw) > 0 {
			return raw, a.Name(), nil
		}
	}

	lang := fsutil.LanguageOf(relPath)
	extractor, ok := baseline[lang]
	if !ok {
		return nil, "", nil
	}
	return extractor(src), "", nil
}

// AdaptersUsed lists the adapter names that pre-empted the baseline during
// this registry's lifetime, in chain order.
func (r *Registry) AdaptersUsed() []string {
	var used []string
	for _, a := range r.adapters {
		if r.used[a.Name()] {
			used = append(used, a.Name())
		}
	}
	return used
}

// AdapterNames lists the configured chain in order, available or not.
func (r *Registry) AdapterNames() []string {
	names := make([]string, 0, len(r.adapters))
	for _, a := range r.adapters {
		names = append(names, a.Name())
	}
	return names
}

// String implements fmt.Stringer for verbose logging.
func (r *Registry) String() string {
	return fmt.Sprintf("extract.Registry(adapters=%v)", r.AdapterNames())
}
