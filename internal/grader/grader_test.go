package grader_test

import (
	"reflect"
	"testing"

	"github.com/fanlar-test/backend/internal/domain/questionbank"
	"github.com/fanlar-test/backend/internal/grader"
)

func mc(correct string) grader.Key {
	return grader.Key{Type: questionbank.TypeMultipleChoice, Correct: correct}
}

func calc(answer, tolerance float64) grader.Key {
	return grader.Key{Type: questionbank.TypeCalculation, CorrectAnswer: &answer, Tolerance: tolerance}
}

func TestEvaluateOne_MultipleChoice(t *testing.T) {
	key := mc("Paris")

	tests := []struct {
		answer      string
		wantCorrect bool
		wantUser    any
	}{
		{"Paris", true, "Paris"},
		{"paris", false, "paris"},
		{"London", false, "London"},
		{"", false, nil},
	}

	for _, tt := range tests {
		got := grader.EvaluateOne(key, tt.answer)
		if got.Correct != tt.wantCorrect {
			t.Errorf("answer %q: expected correct=%v, got %v", tt.answer, tt.wantCorrect, got.Correct)
		}
		if got.UserAnswer != tt.wantUser {
			t.Errorf("answer %q: expected user answer %v, got %v", tt.answer, tt.wantUser, got.UserAnswer)
		}
		if got.CorrectAnswer != "Paris" {
			t.Errorf("answer %q: expected correct answer Paris, got %v", tt.answer, got.CorrectAnswer)
		}
	}
}

func TestEvaluateOne_CalculationToleranceIsInclusive(t *testing.T) {
	key := calc(10.0, 0.01)

	tests := []struct {
		answer      string
		wantCorrect bool
	}{
		{"10", true},
		{"10.01", true},
		{"9.99", true},
		{"10.02", false},
		{" 10.005 ", true},
	}

	for _, tt := range tests {
		got := grader.EvaluateOne(key, tt.answer)
		if got.Correct != tt.wantCorrect {
			t.Errorf("answer %q: expected correct=%v, got %v", tt.answer, tt.wantCorrect, got.Correct)
		}
		if _, ok := got.UserAnswer.(float64); !ok {
			t.Errorf("answer %q: expected parsed float user answer, got %T", tt.answer, got.UserAnswer)
		}
	}
}

func TestEvaluateOne_CalculationNonNumericIsShownVerbatim(t *testing.T) {
	got := grader.EvaluateOne(calc(3, 0.01), "three")

	if got.Correct {
		t.Error("expected non-numeric answer to be incorrect")
	}
	if got.UserAnswer != "three" {
		t.Errorf("expected verbatim user answer, got %v", got.UserAnswer)
	}
	if got.CorrectAnswer != 3.0 {
		t.Errorf("expected correct answer 3, got %v", got.CorrectAnswer)
	}
}

func TestEvaluateOne_UnanswerableCalculation(t *testing.T) {
	key := grader.Key{Type: questionbank.TypeCalculation, Tolerance: 0.01}

	got := grader.EvaluateOne(key, "0")
	if got.Correct {
		t.Error("expected unanswerable question to never be correct")
	}
	if got.CorrectAnswer != nil {
		t.Errorf("expected nil correct answer, got %v", got.CorrectAnswer)
	}
	if got.UserAnswer != "0" {
		t.Errorf("expected input shown verbatim, got %#v", got.UserAnswer)
	}

	spaced := grader.EvaluateOne(key, " 2.50 ")
	if spaced.UserAnswer != " 2.50 " {
		t.Errorf("expected input shown verbatim, got %#v", spaced.UserAnswer)
	}

	empty := grader.EvaluateOne(key, "")
	if empty.UserAnswer != nil || empty.CorrectAnswer != nil {
		t.Errorf("expected nil answers for unanswered unanswerable question, got %+v", empty)
	}
}

func TestEvaluate_ScoreAndMissingSlots(t *testing.T) {
	keys := []grader.Key{mc("a"), mc("b"), calc(3, 0.01), mc("d")}
	answers := []string{"a", "x", "3.00"}

	results, score := grader.Evaluate(keys, answers)

	if score != 2 {
		t.Errorf("expected score 2, got %d", score)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[3].UserAnswer != nil || results[3].Correct {
		t.Errorf("expected missing slot to be unanswered, got %+v", results[3])
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	keys := []grader.Key{mc("a"), calc(3, 0.01)}
	answers := []string{"a", "3.02"}

	first, firstScore := grader.Evaluate(keys, answers)
	second, secondScore := grader.Evaluate(keys, answers)

	if firstScore != secondScore {
		t.Errorf("expected identical scores, got %d and %d", firstScore, secondScore)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
	if firstScore != 1 {
		t.Errorf("expected score 1, got %d", firstScore)
	}
}
