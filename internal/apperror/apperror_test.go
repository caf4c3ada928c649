// GO TESTING BASICS:
// 1. Test files MUST end in _test.go; Go's tooling auto-discovers them
// 2. Test functions MUST start with "Test" and take *testing.T as the only param
// 3. Same package as the code being tested (so we can access unexported stuff)
// 4. Run with: go test ./internal/apperror/ -v  (-v = verbose, shows each test name)
package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	storageErr := errors.New("disk I/O error")

	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("profile", "main"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "InvalidArgument wraps ErrInvalidArgument",
			err:       InvalidArgument("userId", "user id is required"),
			target:    ErrInvalidArgument,
			wantMatch: true,
		},
		{
			name:      "StorageUnavailable matches its sentinel",
			err:       StorageUnavailable("query projects", storageErr),
			target:    ErrStorageUnavailable,
			wantMatch: true,
		},
		{
			name:      "StorageUnavailable matches its cause",
			err:       StorageUnavailable("query projects", storageErr),
			target:    storageErr,
			wantMatch: true,
		},
		{
			name:      "PartialMigration matches its sentinel",
			err:       PartialMigration(storageErr),
			target:    ErrPartialMigration,
			wantMatch: true,
		},
		{
			name:      "DeliveryFailed matches its sentinel",
			err:       DeliveryFailed(storageErr),
			target:    ErrDelivery,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("profile", "main"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "InvalidArgument does NOT match ErrValidation",
			err:       InvalidArgument("userId", "user id is required"),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("document", "profile/main"),
			wantMessage: "document not found with id profile/main",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("email", "Please provide all required fields"),
			wantMessage: "Please provide all required fields",
		},
		{
			name:        "DeliveryFailed uses the relay message",
			err:         DeliveryFailed(errors.New("dial tcp: timeout")),
			wantMessage: "Failed to send email",
		},
		{
			name:        "PartialMigration includes the cause",
			err:         PartialMigration(errors.New("boom")),
			wantMessage: "content migration failed: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	// A wrapped AppError must still be extractable; handlers rely on this.
	wrapped := errors.Join(errors.New("outer"), InvalidArgument("userId", "user id is required"))

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As() did not find the AppError")
	}
	if appErr.Field != "userId" {
		t.Errorf("Field = %q, want %q", appErr.Field, "userId")
	}
}
