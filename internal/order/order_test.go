package order

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"bundle-bot/internal/catalog"
)

var bundle20 = catalog.Bundle{Code: "20GB", Price: "GHC 113"}

func TestNewPendingOrder(t *testing.T) {
	o := NewPendingOrder(42)
	require.Equal(t, int64(42), o.UserID)
	require.Equal(t, StateAwaitingBundle, o.State)
	require.Empty(t, o.BundleCode)
	require.Empty(t, o.PhoneNumber)
}

func TestTransitions(t *testing.T) {
	o := NewPendingOrder(1)

	err := o.AttachPhone("0241234567")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, StateAwaitingBundle, o.State)
	require.Empty(t, o.PhoneNumber)

	o.ChooseBundle(bundle20)
	require.Equal(t, StateAwaitingPhone, o.State)
	require.Equal(t, "20GB", o.BundleCode)
	require.Equal(t, "GHC 113", o.Price)

	require.NoError(t, o.AttachPhone("0241234567"))
	require.Equal(t, StateSubmitted, o.State)
	require.Equal(t, "0241234567", o.PhoneNumber)

	err = o.AttachPhone("0500000000")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Equal(t, "0241234567", o.PhoneNumber)
}

func TestChooseBundleDropsPhone(t *testing.T) {
	o := NewPendingOrder(1)
	o.ChooseBundle(bundle20)
	require.NoError(t, o.AttachPhone("0241234567"))

	o.ChooseBundle(catalog.Bundle{Code: "10GB", Price: "GHC 72"})
	require.Equal(t, StateAwaitingPhone, o.State)
	require.Empty(t, o.PhoneNumber)
	require.Equal(t, "GHC 72", o.Price)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, 7)
	require.ErrorIs(t, err, ErrNotFound)

	o := NewPendingOrder(7)
	o.ChooseBundle(bundle20)
	require.NoError(t, s.Save(ctx, o))

	got, err := s.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, *o, *got)

	// mutating the returned copy must not leak into the store
	got.Price = "GHC 0"
	again, err := s.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "GHC 113", again.Price)

	require.NoError(t, s.Save(ctx, NewPendingOrder(7)))
	got, err = s.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, StateAwaitingBundle, got.State)
	require.Equal(t, 1, s.Len())
}

func TestMemoryStore_ConcurrentUsers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			o := NewPendingOrder(id)
			o.ChooseBundle(bundle20)
			_ = s.Save(ctx, o)
		}(i)
	}
	wg.Wait()

	require.Equal(t, 50, s.Len())
}
