//go:build integration

package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/hanzitree/pkg/store"
	"github.com/matzehuels/hanzitree/pkg/store/storetest"
)

// Run with: HANZITREE_MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/store/mongo
func TestStore(t *testing.T) {
	uri := os.Getenv("HANZITREE_MONGO_URI")
	if uri == "" {
		t.Skip("HANZITREE_MONGO_URI not set")
	}

	storetest.Run(t, func(t *testing.T) store.Repository {
		ctx := context.Background()
		db := fmt.Sprintf("hanzitree_test_%d", time.Now().UnixNano())
		s, err := Open(ctx, Config{URI: uri, Database: db})
		if err != nil {
			t.Fatalf("Open() error: %v", err)
		}
		t.Cleanup(func() {
			// storetest closes s first; drop through a fresh connection.
			if c, err := Open(context.Background(), Config{URI: uri, Database: db}); err == nil {
				_ = c.client.Database(db).Drop(context.Background())
				_ = c.Close()
			}
		})
		return s
	})
}

func TestOpenRequiresURI(t *testing.T) {
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatal("expected missing uri error")
	}
}
