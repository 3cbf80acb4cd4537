package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Validation errors.
var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidNote   = errors.New("invalid note")
	ErrInvalidName   = errors.New("invalid category name")
)

var titleCaser = cases.Title(language.Und)

// NormalizeAmount validates amount and rounds it to cents.
func NormalizeAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if amount.GreaterThan(MaxExpenseAmount) {
		return decimal.Decimal{}, fmt.Errorf("%w: amount cannot exceed %s", ErrInvalidAmount, MaxExpenseAmount.String())
	}
	return amount.Round(2), nil
}

// NormalizeNote trims note and checks it is non-empty and within bounds.
func NormalizeNote(note string) (string, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return "", fmt.Errorf("%w: note cannot be empty", ErrInvalidNote)
	}
	if len([]rune(note)) > MaxNoteLength {
		return "", fmt.Errorf("%w: note exceeds %d characters", ErrInvalidNote, MaxNoteLength)
	}
	return note, nil
}

// NormalizeCategoryName trims and title-cases a new category name.
func NormalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	if len([]rune(name)) > MaxNameLength {
		return "", fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}
	return titleCaser.String(name), nil
}
