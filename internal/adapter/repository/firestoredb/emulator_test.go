package firestoredb

import (
	"context"
	"os"
	"testing"

	"obras-backend/pkg/id"

	"cloud.google.com/go/firestore"
)

// openEmulator connects to the Firestore emulator, skipping when none runs.
func openEmulator(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "obras-test-"+id.NewID32()[:8])
	if err != nil {
		t.Fatalf("firestore client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
