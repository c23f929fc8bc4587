package errors

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "notification not found",
			},
			want: "notification not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeBackendUnavailable,
				Message: "backend unavailable",
				Cause:   errors.New("connection refused"),
			},
			want: "backend unavailable: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should find the cause through %v", err)
	}
}

func TestPredicates(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{name: "not found", err: NotFound("x"), pred: IsNotFound},
		{name: "validation", err: Validationf("bad %s", "input"), pred: IsValidation},
		{name: "session invalid", err: SessionInvalid("expired"), pred: IsSessionInvalid},
		{name: "exchange failed", err: ExchangeFailed(cause), pred: IsExchangeFailed},
		{name: "subscription dropped", err: SubscriptionDropped(cause), pred: IsSubscriptionDropped},
		{name: "backend unavailable", err: BackendUnavailable(cause), pred: IsBackendUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.pred(tt.err) {
				t.Errorf("predicate should match %v", tt.err)
			}
			if tt.pred(cause) {
				t.Errorf("predicate should not match plain error")
			}
		})
	}
}

func TestPredicates_MatchThroughWrapping(t *testing.T) {
	inner := SessionInvalid("token expired")
	outer := Wrap(inner, ErrCodeInternal, "resolve failed")

	// errors.As finds the outermost AppError first.
	if IsSessionInvalid(inner) != true {
		t.Error("inner should be session invalid")
	}
	if GetCode(outer) != ErrCodeInternal {
		t.Errorf("GetCode(outer) = %v, want %v", GetCode(outer), ErrCodeInternal)
	}
}

func TestGetCode_NonAppError(t *testing.T) {
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}
