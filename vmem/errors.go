package vmem

import (
	"errors"
	"fmt"
)

// ErrorCode represents different types of memory system errors
type ErrorCode int

const (
	// Generic errors
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInvariantViolation

	// Process directory errors
	ErrCodeNoProcessSlot
	ErrCodeInvalidSize
	ErrCodeInsufficientSpace
	ErrCodeUnknownProcess
	ErrCodeProcessSuspended
	ErrCodeInvalidTransition

	// Page errors
	ErrCodeInvalidPage
	ErrCodePageNotPresent
	ErrCodeNotInSwap

	// Frame and swap errors
	ErrCodeBadFrame
	ErrCodeNotOccupied
	ErrCodeProcessGone
	ErrCodeNoSwapSpace
	ErrCodeNoRAMFrame
	ErrCodeNoVictim
	ErrCodeSwapOutFailed

	// Event log errors
	ErrCodeLogOverflow
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:            "Unknown",
	ErrCodeInvariantViolation: "InvariantViolation",
	ErrCodeNoProcessSlot:      "NoSlot",
	ErrCodeInvalidSize:        "InvalidSize",
	ErrCodeInsufficientSpace:  "InsufficientSpace",
	ErrCodeUnknownProcess:     "UnknownProcess",
	ErrCodeProcessSuspended:   "ProcessSuspended",
	ErrCodeInvalidTransition:  "InvalidTransition",
	ErrCodeInvalidPage:        "InvalidPage",
	ErrCodePageNotPresent:     "PageNotPresent",
	ErrCodeNotInSwap:          "NotInSwap",
	ErrCodeBadFrame:           "BadFrame",
	ErrCodeNotOccupied:        "NotOccupied",
	ErrCodeProcessGone:        "ProcessGone",
	ErrCodeNoSwapSpace:        "NoSwapSpace",
	ErrCodeNoRAMFrame:         "NoRAMFrame",
	ErrCodeNoVictim:           "NoVictim",
	ErrCodeSwapOutFailed:      "SwapOutFailed",
	ErrCodeLogOverflow:        "LogOverflow",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Category groups error codes into the caller-facing taxonomy
type Category int

const (
	CategoryInternal Category = iota
	CategoryCapacityExceeded
	CategoryNotFound
	CategoryInvalidArgument
	CategoryInconsistentState
	CategoryLogOverflow
)

func (c Category) String() string {
	switch c {
	case CategoryCapacityExceeded:
		return "capacity exceeded"
	case CategoryNotFound:
		return "not found"
	case CategoryInvalidArgument:
		return "invalid argument"
	case CategoryInconsistentState:
		return "inconsistent state"
	case CategoryLogOverflow:
		return "log overflow"
	default:
		return "internal"
	}
}

// Category returns the taxonomy bucket of the code
func (c ErrorCode) Category() Category {
	switch c {
	case ErrCodeNoProcessSlot, ErrCodeInsufficientSpace, ErrCodeNoSwapSpace,
		ErrCodeNoRAMFrame, ErrCodeNoVictim, ErrCodeSwapOutFailed:
		return CategoryCapacityExceeded
	case ErrCodeUnknownProcess, ErrCodeProcessGone:
		return CategoryNotFound
	case ErrCodeInvalidSize, ErrCodeInvalidPage, ErrCodeBadFrame:
		return CategoryInvalidArgument
	case ErrCodeNotInSwap, ErrCodeNotOccupied, ErrCodePageNotPresent,
		ErrCodeProcessSuspended, ErrCodeInvalidTransition:
		return CategoryInconsistentState
	case ErrCodeLogOverflow:
		return CategoryLogOverflow
	default:
		return CategoryInternal
	}
}

// Category sentinels, usable with errors.Is against any *MemoryError
var (
	ErrCapacityExceeded  = categoryError(CategoryCapacityExceeded)
	ErrNotFound          = categoryError(CategoryNotFound)
	ErrInvalidArgument   = categoryError(CategoryInvalidArgument)
	ErrInconsistentState = categoryError(CategoryInconsistentState)
	ErrLogOverflow       = categoryError(CategoryLogOverflow)
)

type categorySentinel struct {
	category Category
}

func categoryError(c Category) error {
	return &categorySentinel{category: c}
}

func (s *categorySentinel) Error() string {
	return s.category.String()
}

// MemoryError represents a memory system error with context
type MemoryError struct {
	Code    ErrorCode
	Message string
	Op      string // Operation that failed
	Err     error  // Underlying error (if any)
}

// Error implements the error interface
func (e *MemoryError) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *MemoryError) Unwrap() error {
	return e.Err
}

// Is matches another *MemoryError by code, or a category sentinel by category
func (e *MemoryError) Is(target error) bool {
	switch t := target.(type) {
	case *MemoryError:
		return e.Code == t.Code
	case *categorySentinel:
		return e.Code.Category() == t.category
	}
	return false
}

// NewMemoryError creates a new memory system error
func NewMemoryError(code ErrorCode, op, message string, err error) *MemoryError {
	return &MemoryError{
		Code:    code,
		Message: message,
		Op:      op,
		Err:     err,
	}
}

// Helper functions for common errors

func ErrNoProcessSlot(op string, max int) *MemoryError {
	return NewMemoryError(ErrCodeNoProcessSlot, op,
		fmt.Sprintf("process limit reached (%d)", max), nil)
}

func ErrInvalidSize(op string, size int) *MemoryError {
	return NewMemoryError(ErrCodeInvalidSize, op,
		fmt.Sprintf("invalid process size %d KB", size), nil)
}

func ErrInsufficientSpace(op string, needPages, freePages int) *MemoryError {
	return NewMemoryError(ErrCodeInsufficientSpace, op,
		fmt.Sprintf("not enough space in RAM and swap: need %d pages, %d free", needPages, freePages), nil)
}

func ErrUnknownProcess(op string, pid PID) *MemoryError {
	return NewMemoryError(ErrCodeUnknownProcess, op,
		fmt.Sprintf("process %d not found", pid), nil)
}

func ErrProcessSuspended(op string, pid PID) *MemoryError {
	return NewMemoryError(ErrCodeProcessSuspended, op,
		fmt.Sprintf("process %d is suspended", pid), nil)
}

func ErrInvalidTransition(op string, pid PID, from, to ProcessState) *MemoryError {
	return NewMemoryError(ErrCodeInvalidTransition, op,
		fmt.Sprintf("process %d cannot move from %s to %s", pid, from, to), nil)
}

func ErrInvalidPage(op string, pid PID, page, numPages int) *MemoryError {
	return NewMemoryError(ErrCodeInvalidPage, op,
		fmt.Sprintf("page %d out of range for process %d (0-%d)", page, pid, numPages-1), nil)
}

func ErrPageNotPresent(op string, pid PID, page int) *MemoryError {
	return NewMemoryError(ErrCodePageNotPresent, op,
		fmt.Sprintf("page %d of process %d was never placed", page, pid), nil)
}

func ErrNotInSwap(op string, pid PID, page int, loc Location) *MemoryError {
	return NewMemoryError(ErrCodeNotInSwap, op,
		fmt.Sprintf("page %d of process %d is %s, not in swap", page, pid, loc), nil)
}

func ErrBadFrame(op string, frame FrameID, numFrames int) *MemoryError {
	return NewMemoryError(ErrCodeBadFrame, op,
		fmt.Sprintf("frame %d out of range (0-%d)", frame, numFrames-1), nil)
}

func ErrNotOccupied(op string, frame FrameID) *MemoryError {
	return NewMemoryError(ErrCodeNotOccupied, op,
		fmt.Sprintf("frame %d is not occupied", frame), nil)
}

func ErrProcessGone(op string, frame FrameID, pid PID) *MemoryError {
	return NewMemoryError(ErrCodeProcessGone, op,
		fmt.Sprintf("frame %d owned by missing process %d", frame, pid), nil)
}

func ErrNoSwapSpace(op string, pid PID, page int) *MemoryError {
	return NewMemoryError(ErrCodeNoSwapSpace, op,
		fmt.Sprintf("no swap space for process %d, page %d", pid, page), nil)
}

func ErrNoRAMFrame(op string) *MemoryError {
	return NewMemoryError(ErrCodeNoRAMFrame, op, "no free RAM frame", nil)
}

func ErrNoVictim(op string, pid PID) *MemoryError {
	return NewMemoryError(ErrCodeNoVictim, op,
		fmt.Sprintf("no victim page available for process %d", pid), nil)
}

func ErrSwapOutFailed(op string, frame FrameID, err error) *MemoryError {
	return NewMemoryError(ErrCodeSwapOutFailed, op,
		fmt.Sprintf("evicting frame %d failed", frame), err)
}

func ErrLogOverflowed(op string, capacity int) *MemoryError {
	return NewMemoryError(ErrCodeLogOverflow, op,
		fmt.Sprintf("event log full (%d entries)", capacity), nil)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var me *MemoryError
	if errors.As(err, &me) {
		return me.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrCodeUnknown
func GetErrorCode(err error) ErrorCode {
	var me *MemoryError
	if errors.As(err, &me) {
		return me.Code
	}
	return ErrCodeUnknown
}
