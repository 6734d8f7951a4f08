package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
)

func TestIsACLUnsupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "uniform access control rejection",
			err:  &smithy.GenericAPIError{Code: "AccessControlListNotSupported", Message: "The bucket does not allow ACLs"},
			want: true,
		},
		{
			name: "access denied treated as unsupported",
			err:  &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"},
			want: true,
		},
		{
			name: "invalid request treated as unsupported",
			err:  &smithy.GenericAPIError{Code: "InvalidRequest", Message: "ACLs disabled"},
			want: true,
		},
		{
			name: "other API errors are genuine failures",
			err:  &smithy.GenericAPIError{Code: "InternalError", Message: "oops"},
			want: false,
		},
		{
			name: "wrapped API error still detected",
			err:  fmt.Errorf("put acl: %w", &smithy.GenericAPIError{Code: "AccessDenied"}),
			want: true,
		},
		{
			name: "non-API error",
			err:  errors.New("connection reset"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isACLUnsupported(tt.err); got != tt.want {
				t.Errorf("isACLUnsupported() = %v, want %v", got, tt.want)
			}
		})
	}
}
