package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mendoza-ahrensburg/kasse/internal/storage/kv"
	"github.com/mendoza-ahrensburg/kasse/internal/storage/memory"
)

func TestKVStore_ReadMissingKey(t *testing.T) {
	store := memory.NewKVStore()

	value, ok, err := store.Read(context.Background(), "kasse.ledger")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok {
		t.Fatal("expected miss for unknown key")
	}
	if value != "" {
		t.Fatalf("expected empty value on miss, got %q", value)
	}
}

func TestKVStore_WriteRead(t *testing.T) {
	store := memory.NewKVStore()
	ctx := context.Background()

	if err := store.Write(ctx, "kasse.receipt_number", "170803"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	value, ok, err := store.Read(ctx, "kasse.receipt_number")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !ok {
		t.Fatal("expected hit after write")
	}
	if value != "170803" {
		t.Fatalf("expected 170803, got %q", value)
	}

	// Повторная запись перезаписывает значение целиком.
	if err := store.Write(ctx, "kasse.receipt_number", "170804"); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	value, _, _ = store.Read(ctx, "kasse.receipt_number")
	if value != "170804" {
		t.Fatalf("expected overwrite to 170804, got %q", value)
	}
}

func TestKVStore_EmptyKey(t *testing.T) {
	store := memory.NewKVStore()
	ctx := context.Background()

	if _, _, err := store.Read(ctx, "   "); !errors.Is(err, kv.ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired on read, got %v", err)
	}
	if err := store.Write(ctx, "", "x"); !errors.Is(err, kv.ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired on write, got %v", err)
	}
}

func TestKVStore_ConcurrentWriters(t *testing.T) {
	store := memory.NewKVStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Write(ctx, "kasse.ledger", "{}")
			_, _, _ = store.Read(ctx, "kasse.ledger")
		}()
	}
	wg.Wait()

	if _, ok, _ := store.Read(ctx, "kasse.ledger"); !ok {
		t.Fatal("expected key to survive concurrent writes")
	}
}
