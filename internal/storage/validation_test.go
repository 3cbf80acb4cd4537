package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendwise/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name      string
		str       string
		paramName string
		wantErr   bool
	}{
		{name: "valid string", str: "test", paramName: "param"},
		{name: "empty string", str: "", paramName: "param", wantErr: true},
		{name: "whitespace only", str: "   ", paramName: "param", wantErr: true},
		{name: "string with spaces", str: "  test  ", paramName: "param"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, tt.paramName)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.paramName) {
				t.Errorf("validateString() error should contain param name %s, got %v", tt.paramName, err)
			}
		})
	}
}

func TestValidateExpense(t *testing.T) {
	valid := func() *model.Expense {
		return &model.Expense{
			ID:         "e1",
			OwnerID:    "u1",
			CategoryID: "c1",
			Amount:     decimal.NewFromInt(5),
			Note:       "lunch",
			Date:       time.Now(),
		}
	}

	tests := []struct {
		expense *model.Expense
		wantErr error
		name    string
		errMsg  string
	}{
		{name: "valid expense", expense: valid()},
		{name: "nil expense", expense: nil, wantErr: ErrNilParameter, errMsg: "expense"},
		{name: "missing ID", expense: func() *model.Expense { e := valid(); e.ID = ""; return e }(), wantErr: ErrInvalidExpense, errMsg: "missing ID"},
		{name: "missing owner", expense: func() *model.Expense { e := valid(); e.OwnerID = ""; return e }(), wantErr: ErrInvalidExpense, errMsg: "missing owner"},
		{name: "missing category", expense: func() *model.Expense { e := valid(); e.CategoryID = " "; return e }(), wantErr: ErrInvalidExpense, errMsg: "missing category"},
		{name: "missing date", expense: func() *model.Expense { e := valid(); e.Date = time.Time{}; return e }(), wantErr: ErrInvalidExpense, errMsg: "missing date"},
		{name: "zero amount", expense: func() *model.Expense { e := valid(); e.Amount = decimal.Zero; return e }(), wantErr: ErrInvalidExpense, errMsg: "positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateExpense(tt.expense)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validateExpense() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateExpense() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validateExpense() error = %v, should contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidateCategoryAndUser(t *testing.T) {
	if err := validateCategory(&model.Category{ID: "c1", OwnerID: "u1", Name: "Food"}); err != nil {
		t.Errorf("validateCategory() unexpected error = %v", err)
	}
	if err := validateCategory(&model.Category{ID: "c1", Name: "Food"}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("validateCategory() error = %v, want %v", err, ErrInvalidCategory)
	}
	if err := validateUser(&model.User{ID: "u1"}); !errors.Is(err, ErrInvalidUser) {
		t.Errorf("validateUser() error = %v, want %v", err, ErrInvalidUser)
	}
	if err := validateDateRange(time.Now(), time.Now().Add(-time.Hour)); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("validateDateRange() error = %v, want %v", err, ErrInvalidDateRange)
	}
}
