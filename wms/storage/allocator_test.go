package storage_test

import (
	"math"
	"sync"
	"testing"

	"fulfillment-wms/controllers/idgen"
	"fulfillment-wms/wms/errs"
	"fulfillment-wms/wms/events"
	"fulfillment-wms/wms/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAllocator(t *testing.T) (*storage.Allocator, *events.Recorder) {
	t.Helper()
	rec := &events.Recorder{}
	return storage.NewAllocator(idgen.NewSequence(), storage.DefaultHeadroom, rec, zap.NewNop()), rec
}

func assertConsistent(t *testing.T, w storage.Warehouse) {
	t.Helper()
	sum := 0
	for _, b := range w.Bins {
		assert.LessOrEqual(t, b.Used, b.Capacity, "bin %s over capacity", b.ID)
		sum += b.Used
	}
	assert.Equal(t, sum, w.UsedCapacity)
	assert.LessOrEqual(t, w.UsedCapacity, w.TotalCapacity)
}

func TestReserveNearCapacity(t *testing.T) {
	a, _ := newAllocator(t)
	require.NoError(t, a.AddWarehouse("WH-1", "Main", "123 Supply Chain St", 100))
	require.NoError(t, a.AddBin("WH-1", "A1-01", 100))

	_, err := a.Reserve("WH-1", 95)
	require.NoError(t, err)

	_, err = a.Reserve("WH-1", 10)
	assert.True(t, errs.Is(err, errs.NoSpace))

	binID, err := a.Reserve("WH-1", 5)
	require.NoError(t, err)
	assert.Equal(t, "A1-01", binID)

	w, err := a.Warehouse("WH-1")
	require.NoError(t, err)
	assert.Equal(t, 100, w.UsedCapacity)
	assertConsistent(t, w)
}

func TestReserveHugeRequestLeavesWarehouseUntouched(t *testing.T) {
	a, rec := newAllocator(t)
	require.NoError(t, a.AddWarehouse("WH-1", "Main", "", 100))
	_, err := a.Reserve("WH-1", 95)
	require.NoError(t, err)
	before, err := a.Warehouse("WH-1")
	require.NoError(t, err)

	for _, units := range []int{math.MaxInt, math.MaxInt - 50, 6} {
		binID, err := a.Reserve("WH-1", units)
		assert.True(t, errs.Is(err, errs.NoSpace), "reserve %d: %v", units, err)
		assert.Empty(t, binID)
	}

	w, err := a.Warehouse("WH-1")
	require.NoError(t, err)
	assert.Equal(t, 95, w.UsedCapacity)
	assert.Len(t, w.Bins, len(before.Bins))
	assertConsistent(t, w)
	assert.Len(t, rec.OfType(events.StorageReserved), 1)
}

func TestReserveCreatesBinWithHeadroom(t *testing.T) {
	a, rec := newAllocator(t)
	require.NoError(t, a.AddWarehouse("WH-1", "Main", "", 1000))
	require.NoError(t, a.AddBin("WH-1", "A1-01", 10))

	binID, err := a.Reserve("WH-1", 30)
	require.NoError(t, err)
	assert.Equal(t, "BIN-0001", binID)

	w, _ := a.Warehouse("WH-1")
	require.Len(t, w.Bins, 2)
	assert.Equal(t, 80, w.Bins[1].Capacity)
	assert.Equal(t, 30, w.Bins[1].Used)

	// the new bin has room for the next reservation; the first bin is too small
	next, err := a.Reserve("WH-1", 40)
	require.NoError(t, err)
	assert.Equal(t, binID, next)

	reserved := rec.OfType(events.StorageReserved)
	require.Len(t, reserved, 2)
	assert.Equal(t, "true", reserved[0].Attributes["new_bin"])
}

func TestNewBinCappedByRemainingSpace(t *testing.T) {
	a, _ := newAllocator(t)
	require.NoError(t, a.AddWarehouse("WH-1", "Main", "", 60))

	_, err := a.Reserve("WH-1", 40)
	require.NoError(t, err)

	w, _ := a.Warehouse("WH-1")
	require.Len(t, w.Bins, 1)
	assert.Equal(t, 60, w.Bins[0].Capacity)
}

func TestReserveArguments(t *testing.T) {
	a, _ := newAllocator(t)
	require.NoError(t, a.AddWarehouse("WH-1", "Main", "", 10))

	_, err := a.Reserve("WH-1", 0)
	assert.True(t, errs.Is(err, errs.InvalidArgument))
	_, err = a.Reserve("WH-9", 1)
	assert.True(t, errs.Is(err, errs.NotFound))
	assert.True(t, errs.Is(a.AddWarehouse("WH-1", "dup", "", 5), errs.InvalidArgument))
}

func TestRelease(t *testing.T) {
	a, _ := newAllocator(t)
	require.NoError(t, a.AddWarehouse("WH-1", "Main", "", 100))
	binID, err := a.Reserve("WH-1", 20)
	require.NoError(t, err)

	require.NoError(t, a.Release(binID, 15))
	assert.True(t, errs.Is(a.Release(binID, 6), errs.InvalidArgument))
	assert.True(t, errs.Is(a.Release("BIN-404", 1), errs.NotFound))

	w, _ := a.Warehouse("WH-1")
	assert.Equal(t, 5, w.UsedCapacity)
	assertConsistent(t, w)
}

func TestConcurrentReserveNeverOversells(t *testing.T) {
	a, _ := newAllocator(t)
	require.NoError(t, a.AddWarehouse("WH-1", "Main", "", 500))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := a.Reserve("WH-1", 7); err == nil {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	w, err := a.Warehouse("WH-1")
	require.NoError(t, err)
	assert.Equal(t, 71, granted)
	assert.Equal(t, 497, w.UsedCapacity)
	assertConsistent(t, w)
}
