package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/trendscout/pkg/trendscout/internalerr"
	"github.com/cognicore/trendscout/pkg/trendscout/store"
)

var _ store.TopicStore = (*Store)(nil)

func TestMemstoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := New("Existing")

	if err := st.Append(ctx, "Foo"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	existing, err := st.LoadExisting(ctx)
	if err != nil {
		t.Fatalf("LoadExisting: %v", err)
	}
	if !existing.Has("foo") || !existing.Has("existing") {
		t.Errorf("unexpected set %v", existing)
	}
	if got := st.Topics(); len(got) != 2 || got[1] != "Foo" {
		t.Errorf("Topics() = %v", got)
	}
}

func TestMemstoreInjectedErrors(t *testing.T) {
	ctx := context.Background()
	st := New("a topic")
	st.LoadErr = errors.New("disk gone")
	st.AppendErr = errors.New("read-only")

	existing, err := st.LoadExisting(ctx)
	if !errors.Is(err, internalerr.ErrPersistenceRead) || existing.Len() != 0 {
		t.Errorf("LoadExisting = %v, %v", existing, err)
	}
	if err := st.Append(ctx, "x topic"); !errors.Is(err, internalerr.ErrPersistenceWrite) {
		t.Errorf("Append err = %v", err)
	}
}
