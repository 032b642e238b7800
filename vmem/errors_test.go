package vmem

import (
	"errors"
	"fmt"
	"testing"
)

func TestMemoryError(t *testing.T) {
	err := NewMemoryError(
		ErrCodeUnknownProcess,
		"SimulateAccess",
		"process 7 not found",
		nil,
	)

	if err.Code != ErrCodeUnknownProcess {
		t.Errorf("Expected error code %d, got %d", ErrCodeUnknownProcess, err.Code)
	}

	if err.Op != "SimulateAccess" {
		t.Errorf("Expected op 'SimulateAccess', got '%s'", err.Op)
	}

	expected := "SimulateAccess: process 7 not found"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}

func TestMemoryErrorWithUnderlying(t *testing.T) {
	underlying := ErrNoSwapSpace("SwapIn", 1, 0)
	err := ErrSwapOutFailed("SwapIn", 3, underlying)

	if errors.Unwrap(err) != underlying {
		t.Error("Unwrap did not return underlying error")
	}

	expected := "SwapIn: evicting frame 3 failed: SwapIn: no swap space for process 1, page 0"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}

	// The wrapped cause stays reachable through the chain
	if !errors.Is(err, &MemoryError{Code: ErrCodeNoSwapSpace}) {
		t.Error("Expected errors.Is to find NoSwapSpace in the chain")
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      *MemoryError
		code     ErrorCode
		category error
	}{
		{"NoProcessSlot", ErrNoProcessSlot("op", 50), ErrCodeNoProcessSlot, ErrCapacityExceeded},
		{"InvalidSize", ErrInvalidSize("op", 0), ErrCodeInvalidSize, ErrInvalidArgument},
		{"InsufficientSpace", ErrInsufficientSpace("op", 9, 8), ErrCodeInsufficientSpace, ErrCapacityExceeded},
		{"UnknownProcess", ErrUnknownProcess("op", 3), ErrCodeUnknownProcess, ErrNotFound},
		{"ProcessSuspended", ErrProcessSuspended("op", 3), ErrCodeProcessSuspended, ErrInconsistentState},
		{"InvalidTransition", ErrInvalidTransition("op", 3, ProcessSuspended, ProcessSuspended), ErrCodeInvalidTransition, ErrInconsistentState},
		{"InvalidPage", ErrInvalidPage("op", 1, 9, 8), ErrCodeInvalidPage, ErrInvalidArgument},
		{"PageNotPresent", ErrPageNotPresent("op", 1, 2), ErrCodePageNotPresent, ErrInconsistentState},
		{"NotInSwap", ErrNotInSwap("op", 1, 2, InRAM(4)), ErrCodeNotInSwap, ErrInconsistentState},
		{"BadFrame", ErrBadFrame("op", 12, 8), ErrCodeBadFrame, ErrInvalidArgument},
		{"NotOccupied", ErrNotOccupied("op", 2), ErrCodeNotOccupied, ErrInconsistentState},
		{"ProcessGone", ErrProcessGone("op", 2, 5), ErrCodeProcessGone, ErrNotFound},
		{"NoSwapSpace", ErrNoSwapSpace("op", 1, 0), ErrCodeNoSwapSpace, ErrCapacityExceeded},
		{"NoRAMFrame", ErrNoRAMFrame("op"), ErrCodeNoRAMFrame, ErrCapacityExceeded},
		{"NoVictim", ErrNoVictim("op", 1), ErrCodeNoVictim, ErrCapacityExceeded},
		{"LogOverflow", ErrLogOverflowed("op", 10), ErrCodeLogOverflow, ErrLogOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, tt.err.Code)
			}
			if !errors.Is(tt.err, tt.category) {
				t.Errorf("Expected %s to match category %v", tt.code, tt.category)
			}
			if tt.err.Error() == "" {
				t.Error("Error message should not be empty")
			}
		})
	}
}

func TestCategoriesDoNotOverlap(t *testing.T) {
	err := ErrUnknownProcess("op", 1)

	if errors.Is(err, ErrCapacityExceeded) {
		t.Error("UnknownProcess should not match CapacityExceeded")
	}
	if errors.Is(err, ErrInvalidArgument) {
		t.Error("UnknownProcess should not match InvalidArgument")
	}
}

func TestIsErrorCode(t *testing.T) {
	err := ErrInvalidPage("SimulateAccess", 1, 12, 8)

	if !IsErrorCode(err, ErrCodeInvalidPage) {
		t.Error("Expected IsErrorCode to return true")
	}

	if IsErrorCode(err, ErrCodeUnknownProcess) {
		t.Error("Expected IsErrorCode to return false for different code")
	}

	wrapped := fmt.Errorf("script line 4: %w", err)
	if !IsErrorCode(wrapped, ErrCodeInvalidPage) {
		t.Error("Expected IsErrorCode to see through fmt wrapping")
	}

	if IsErrorCode(fmt.Errorf("plain"), ErrCodeInvalidPage) {
		t.Error("Expected IsErrorCode to return false for non-MemoryError")
	}
}

func TestGetErrorCode(t *testing.T) {
	if code := GetErrorCode(ErrNoVictim("SwapIn", 2)); code != ErrCodeNoVictim {
		t.Errorf("Expected NoVictim, got %s", code)
	}

	if code := GetErrorCode(errors.New("plain")); code != ErrCodeUnknown {
		t.Errorf("Expected Unknown, got %s", code)
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrCodeSwapOutFailed.String() != "SwapOutFailed" {
		t.Errorf("Expected SwapOutFailed, got %s", ErrCodeSwapOutFailed)
	}
	if ErrorCode(999).String() != "ErrorCode(999)" {
		t.Errorf("Unexpected name for unknown code: %s", ErrorCode(999))
	}
}
