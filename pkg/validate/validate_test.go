package validate

import (
	"testing"
)

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		target  string
		bodyLen int64
		want    Outcome
	}{
		{"get home page", "GET", "/", 0, ServeHomePage},
		{"get unknown path", "GET", "/foo", 0, GetNotFound},
		{"put rejected", "PUT", "/", 0, MethodNotAllowed},
		{"post valid single op", "POST", "/rotate,45", 10, Proceed},
		{"post invalid op", "POST", "/rotate,400", 10, InvalidOperation},
		{"post bad grammar", "POST", "/", 10, InvalidOperation},
		{"post too large", "POST", "/rotate,0", MaxBodyBytes + 1, TooLarge},
		{"post exactly at limit", "POST", "/rotate,0", MaxBodyBytes, Proceed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Check(tt.method, tt.target, tt.bodyLen)
			if got.Outcome != tt.want {
				t.Fatalf("Check(%q, %q, %d).Outcome = %v, want %v", tt.method, tt.target, tt.bodyLen, got.Outcome, tt.want)
			}
			if tt.want == Proceed && len(got.Plan) == 0 {
				t.Errorf("Check(%q, %q, %d) returned empty Plan on Proceed", tt.method, tt.target, tt.bodyLen)
			}
			if tt.want == TooLarge && got.BodyLen != tt.bodyLen {
				t.Errorf("Check(%q, %q, %d).BodyLen = %d, want %d", tt.method, tt.target, tt.bodyLen, got.BodyLen, tt.bodyLen)
			}
		})
	}
}

func TestCheckMethodGateTakesPriority(t *testing.T) {
	t.Parallel()

	// A PUT to an operation-shaped target must fail at the method gate,
	// never reach the operation grammar gate.
	got := Check("PUT", "/rotate,999999", 0)
	if got.Outcome != MethodNotAllowed {
		t.Fatalf("Outcome = %v, want MethodNotAllowed", got.Outcome)
	}
	if got.Plan != nil {
		t.Errorf("expected nil Plan on method gate failure")
	}
}
