package firestoredb

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestChunks(t *testing.T) {
	ids := make([]string, 65)
	for i := range ids {
		ids[i] = fmt.Sprintf("p-%d", i)
	}
	got := chunks(ids)
	if len(got) != 3 || len(got[0]) != 30 || len(got[1]) != 30 || len(got[2]) != 5 {
		t.Fatalf("unexpected chunk sizes: %d groups", len(got))
	}
	if got[2][4] != "p-64" {
		t.Fatalf("last id = %s", got[2][4])
	}
	if len(chunks(nil)) != 0 {
		t.Fatal("nil ids must give no chunks")
	}
}

func TestStatusHelpers(t *testing.T) {
	if !isNotFound(status.Error(codes.NotFound, "missing")) {
		t.Fatal("NotFound not recognised")
	}
	if !isAlreadyExists(status.Error(codes.AlreadyExists, "dup")) {
		t.Fatal("AlreadyExists not recognised")
	}
	if isNotFound(errors.New("plain")) || isNotFound(nil) {
		t.Fatal("plain errors must not be NotFound")
	}
}

func TestAccessCodeKey_EscapesSlashes(t *testing.T) {
	if got := accessCodeKey("sc", "a/b"); got != "sc:a%2Fb" {
		t.Fatalf("accessCodeKey = %q", got)
	}
}
