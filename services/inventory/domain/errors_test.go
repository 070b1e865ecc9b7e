package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_NonNil(t *testing.T) {
	if ErrItemNotFound == nil {
		t.Fatal("ErrItemNotFound must not be nil")
	}
	if ErrInvalidItemName == nil {
		t.Fatal("ErrInvalidItemName must not be nil")
	}
	if ErrRepository == nil {
		t.Fatal("ErrRepository must not be nil")
	}
	if ErrStorage == nil {
		t.Fatal("ErrStorage must not be nil")
	}
}

func TestSentinelErrors_Messages(t *testing.T) {
	if ErrItemNotFound.Error() != "item not found" {
		t.Fatalf("unexpected message: %q", ErrItemNotFound.Error())
	}
	if ErrInvalidItemName.Error() != "invalid item name" {
		t.Fatalf("unexpected message: %q", ErrInvalidItemName.Error())
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("get item: %w", ErrItemNotFound)
	if !errors.Is(wrapped, ErrItemNotFound) {
		t.Fatal("errors.Is must match wrapped ErrItemNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidItemName, errors.New("empty"))
	if !errors.Is(wrapped2, ErrInvalidItemName) {
		t.Fatal("errors.Is must match double-wrapped ErrInvalidItemName")
	}
}

func TestSentinelErrors_AbsenceDistinctFromFailure(t *testing.T) {
	repoErr := fmt.Errorf("%w: disk full", ErrRepository)
	if errors.Is(repoErr, ErrItemNotFound) {
		t.Fatal("a repository failure must never match ErrItemNotFound")
	}
	if errors.Is(fmt.Errorf("get: %w", ErrItemNotFound), ErrRepository) {
		t.Fatal("absence must never match ErrRepository")
	}
}
