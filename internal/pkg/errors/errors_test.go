package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/pratik-mahalle/missioncontrol/pkg/client"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantText string
	}{
		{
			name:     "server rejection with detail",
			err:      &client.APIError{StatusCode: 401, Detail: "bad creds"},
			wantKind: KindServer,
			wantText: "Error: bad creds",
		},
		{
			name:     "server rejection without detail",
			err:      fmt.Errorf("login: %w", &client.APIError{StatusCode: 500}),
			wantKind: KindServer,
			wantText: "Error: Login failed",
		},
		{
			name:     "transport failure",
			err:      &client.TransportError{Method: "POST", Path: "/api/login", Err: stderrors.New("dial tcp: refused")},
			wantKind: KindTransport,
			wantText: "Error: Could not connect to backend.",
		},
		{
			name:     "unknown error is treated as transport",
			err:      stderrors.New("context deadline exceeded"),
			wantKind: KindTransport,
			wantText: "Error: Could not connect to backend.",
		},
		{
			name:     "already classified",
			err:      Validation("email is required"),
			wantKind: KindValidation,
			wantText: "Error: email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, "Login failed")
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %s, want %s", got.Kind, tt.wantKind)
			}
			if got.UserText() != tt.wantText {
				t.Errorf("UserText() = %q, want %q", got.UserText(), tt.wantText)
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if Classify(nil, "x") != nil {
		t.Error("Classify(nil) should be nil")
	}
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("auto-login: %w", Silent("auto-login failed", stderrors.New("401")))
	if !Is(err, KindSilent) {
		t.Error("Is() should find wrapped silent error")
	}
	if Is(err, KindServer) {
		t.Error("Is() matched wrong kind")
	}
}
