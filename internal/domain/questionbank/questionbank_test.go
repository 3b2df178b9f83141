package questionbank_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fanlar-test/backend/internal/domain/questionbank"
)

func TestNewQuestionBank(t *testing.T) {
	bank := questionbank.New("Algoritm")

	if bank.Subject != "Algoritm" {
		t.Errorf("expected subject %q, got %q", "Algoritm", bank.Subject)
	}

	if len(bank.Questions) != 0 {
		t.Errorf("expected empty question bank, got %d questions", len(bank.Questions))
	}
}

func TestAddMultipleChoice(t *testing.T) {
	bank := questionbank.New("Algoritm")

	err := bank.AddMultipleChoice("What is O(1)?", []string{"constant", "linear"}, "constant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bank.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(bank.Questions))
	}

	q := bank.Questions[0]
	if q.Prompt != "What is O(1)?" {
		t.Errorf("expected prompt %q, got %q", "What is O(1)?", q.Prompt)
	}
	if q.Kind() != questionbank.TypeMultipleChoice {
		t.Errorf("expected multiple_choice, got %s", q.Kind())
	}
	if q.ID != "1" {
		t.Errorf("expected id 1, got %q", q.ID)
	}
}

func TestAddMultipleChoice_EmptyPrompt(t *testing.T) {
	bank := questionbank.New("Algoritm")

	if err := bank.AddMultipleChoice("", []string{"a"}, "a"); err == nil {
		t.Error("expected error for empty prompt, got nil")
	}

	if len(bank.Questions) != 0 {
		t.Error("expected no questions after failed add")
	}
}

func TestAddCalculation_DefaultTolerance(t *testing.T) {
	bank := questionbank.New("Hisob")

	err := bank.AddCalculation("{a} + {b} = ?", "a+b", map[string]questionbank.Range{
		"a": {Min: 1, Max: 1},
		"b": {Min: 2, Max: 2},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := bank.Questions[0]
	if q.Kind() != questionbank.TypeCalculation {
		t.Errorf("expected calculation, got %s", q.Kind())
	}
	if q.ToleranceOrDefault() != questionbank.DefaultTolerance {
		t.Errorf("expected default tolerance, got %v", q.ToleranceOrDefault())
	}
}

func TestKind_UnknownTypeFallsBackToMultipleChoice(t *testing.T) {
	for _, typ := range []questionbank.QuestionType{"", "essay"} {
		q := questionbank.QuestionTemplate{Type: typ}
		if q.Kind() != questionbank.TypeMultipleChoice {
			t.Errorf("type %q: expected multiple_choice, got %s", typ, q.Kind())
		}
	}
}

func writeBank(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write bank: %v", err)
	}
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeBank(t, dir, "Hisob.json", `[
		{"id": 1, "type": "multiple_choice", "savol": "2+2?", "variantlar": ["3", "4"], "javob": "4"},
		{"id": "c1", "type": "calculation", "savol_shabloni": "{a}+{b}=?", "formula": "a+b",
		 "variables": {"a": [1, 5], "b": [2, 2]}, "tolerance": 0.5},
		{"id": 3, "savol": "legacy", "variantlar": ["x"], "javob": "x"}
	]`)

	loader := questionbank.NewLoader(dir, questionbank.NewCatalog([]questionbank.Subject{
		{Name: "Hisob", File: "Hisob.json"},
	}))

	bank, err := loader.Load("Hisob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bank.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(bank.Questions))
	}

	if bank.Questions[0].ID != "1" || bank.Questions[1].ID != "c1" {
		t.Errorf("expected ids 1 and c1, got %q and %q", bank.Questions[0].ID, bank.Questions[1].ID)
	}

	calc := bank.Questions[1]
	if got := calc.Variables["a"]; got.Min != 1 || got.Max != 5 {
		t.Errorf("expected range [1,5], got %+v", got)
	}
	if calc.ToleranceOrDefault() != 0.5 {
		t.Errorf("expected tolerance 0.5, got %v", calc.ToleranceOrDefault())
	}

	if bank.Questions[2].Kind() != questionbank.TypeMultipleChoice {
		t.Errorf("expected untyped question to be multiple_choice")
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := questionbank.NewLoader(t.TempDir(), nil)

	bank, err := loader.Load("Algoritm")
	if !errors.Is(err, questionbank.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
	if bank == nil || len(bank.Questions) != 0 {
		t.Errorf("expected empty bank, got %+v", bank)
	}
}

func TestLoader_MalformedFileYieldsNoQuestions(t *testing.T) {
	dir := t.TempDir()
	writeBank(t, dir, "Algoritm.json", `[{"id": 1, "savol": "ok", "variantlar": ["a"], "javob": "a"}, {oops}]`)

	bank, err := questionbank.NewLoader(dir, nil).Load("Algoritm")
	if !errors.Is(err, questionbank.ErrBankMalformed) {
		t.Fatalf("expected ErrBankMalformed, got %v", err)
	}
	if len(bank.Questions) != 0 {
		t.Errorf("expected no questions from a malformed bank, got %d", len(bank.Questions))
	}
}

func TestLoader_UnknownSubject(t *testing.T) {
	_, err := questionbank.NewLoader(t.TempDir(), nil).Load("Astronomy")
	if !errors.Is(err, questionbank.ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestCatalog_KeepsOrderAndSkipsDuplicates(t *testing.T) {
	c := questionbank.NewCatalog([]questionbank.Subject{
		{Name: "B", File: "b.json"},
		{Name: "A", File: "a.json"},
		{Name: "B", File: "other.json"},
		{Name: "", File: "x.json"},
	})

	subjects := c.Subjects()
	if len(subjects) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(subjects))
	}
	if subjects[0].Name != "B" || subjects[1].Name != "A" {
		t.Errorf("expected order B, A; got %s, %s", subjects[0].Name, subjects[1].Name)
	}
	if s, _ := c.Lookup("B"); s.File != "b.json" {
		t.Errorf("expected first B entry to win, got %s", s.File)
	}
}
