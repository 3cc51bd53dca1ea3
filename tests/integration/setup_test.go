package integration

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/zoecc/passbox-api/internal/crypto"
	"github.com/zoecc/passbox-api/internal/storage"
	"github.com/zoecc/passbox-api/tests/testutil"
)

// TestMain runs before all tests in this package
func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// setupTest creates a test database and returns cleanup function
func setupTest(t *testing.T) *testutil.TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	return testutil.SetupTestDB(t)
}

func testCipher(t *testing.T) *crypto.Cipher {
	t.Helper()
	cipher, err := crypto.NewCipher("integration-test-key")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}
	return cipher
}

// memoryBlobStore is an in-memory BlobStore for tests that exercise
// database behavior without a real object store.
type memoryBlobStore struct {
	deleted []string
}

func (s *memoryBlobStore) Put(ctx context.Context, filename, contentType string, r io.Reader, size int64) error {
	return nil
}

func (s *memoryBlobStore) Get(ctx context.Context, filename string) (io.ReadCloser, storage.BlobInfo, error) {
	return nil, storage.BlobInfo{}, storage.ErrBlobNotFound
}

func (s *memoryBlobStore) DeleteIfExists(ctx context.Context, filename string) bool {
	s.deleted = append(s.deleted, filename)
	return true
}
