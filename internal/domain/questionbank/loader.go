package questionbank

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrUnknownSubject = errors.New("unknown subject")
	ErrBankNotFound   = errors.New("question bank file not found")
	ErrBankMalformed  = errors.New("question bank file is not valid JSON")
)

// Loader reads subject banks from a directory of JSON files.
type Loader struct {
	dir     string
	catalog *Catalog
}

func NewLoader(dir string, catalog *Catalog) *Loader {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Loader{dir: dir, catalog: catalog}
}

func (l *Loader) Catalog() *Catalog {
	return l.catalog
}

// Load returns the bank of a subject. On failure the returned bank is empty
// (never nil) and the error says why; a malformed file yields no questions
// rather than a filtered subset.
func (l *Loader) Load(subject string) (*QuestionBank, error) {
	s, ok := l.catalog.Lookup(subject)
	if !ok {
		return New(subject), fmt.Errorf("%w: %q", ErrUnknownSubject, subject)
	}
	return LoadFile(subject, filepath.Join(l.dir, s.File))
}

// LoadFile decodes a JSON array of question templates from path.
func LoadFile(subject, path string) (*QuestionBank, error) {
	bank := New(subject)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return bank, fmt.Errorf("%w: %s", ErrBankNotFound, filepath.Base(path))
	}
	if err != nil {
		return bank, fmt.Errorf("read bank %s: %w", filepath.Base(path), err)
	}

	var questions []QuestionTemplate
	if err := json.Unmarshal(data, &questions); err != nil {
		return bank, fmt.Errorf("%w: %s: %v", ErrBankMalformed, filepath.Base(path), err)
	}

	if questions != nil {
		bank.Questions = questions
	}
	return bank, nil
}
