package services

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/custodia-labs/sitedex-core/internal/core/ports/driven/mocks"
)

func TestEmbeddingBatcher_GenerateEmbeddings(t *testing.T) {
	ctx := context.Background()
	svc := mocks.NewMockEmbeddingService()
	batcher := EmbeddingBatcher{BatchSize: 2, Concurrency: 3}

	texts := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	got, err := batcher.GenerateEmbeddings(ctx, svc, texts)
	if err != nil {
		t.Fatalf("GenerateEmbeddings failed: %v", err)
	}

	if len(got) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(got), len(texts))
	}

	// The mock embeds deterministically per text, so each output slot
	// must match a direct single-text call regardless of which batch
	// finished first.
	for i, text := range texts {
		want, err := svc.Embed(ctx, []string{text})
		if err != nil {
			t.Fatalf("reference embed failed: %v", err)
		}
		if !reflect.DeepEqual(got[i], want[0]) {
			t.Errorf("vector %d does not match input %q", i, text)
		}
	}
}

func TestEmbeddingBatcher_BatchPartitioning(t *testing.T) {
	svc := mocks.NewMockEmbeddingService()
	batcher := EmbeddingBatcher{BatchSize: 2, Concurrency: 1}

	texts := []string{"a", "b", "c", "d", "e"}
	if _, err := batcher.GenerateEmbeddings(context.Background(), svc, texts); err != nil {
		t.Fatalf("GenerateEmbeddings failed: %v", err)
	}

	// 5 texts at batch size 2 = 3 provider calls
	if calls := svc.EmbedCalls(); calls != 3 {
		t.Errorf("EmbedCalls = %d, want 3", calls)
	}
}

func TestEmbeddingBatcher_EmptyInput(t *testing.T) {
	svc := mocks.NewMockEmbeddingService()
	batcher := DefaultEmbeddingBatcher()

	got, err := batcher.GenerateEmbeddings(context.Background(), svc, nil)
	if err != nil {
		t.Fatalf("GenerateEmbeddings failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d vectors for empty input", len(got))
	}
	if svc.EmbedCalls() != 0 {
		t.Errorf("provider called %d times for empty input", svc.EmbedCalls())
	}
}

func TestEmbeddingBatcher_BatchFailureFailsCall(t *testing.T) {
	svc := mocks.NewMockEmbeddingService()
	svc.SetFailSubstring("poison")
	batcher := EmbeddingBatcher{BatchSize: 1, Concurrency: 2}

	texts := []string{"fine", "poison pill", "also fine"}
	_, err := batcher.GenerateEmbeddings(context.Background(), svc, texts)
	if err == nil {
		t.Fatal("expected error when one batch fails")
	}
}

func TestEmbeddingBatcher_ZeroConfigDefaults(t *testing.T) {
	svc := mocks.NewMockEmbeddingService()
	var batcher EmbeddingBatcher // zero value falls back to defaults

	texts := make([]string, 100)
	for i := range texts {
		texts[i] = fmt.Sprintf("text %d", i)
	}

	got, err := batcher.GenerateEmbeddings(context.Background(), svc, texts)
	if err != nil {
		t.Fatalf("GenerateEmbeddings failed: %v", err)
	}
	if len(got) != 100 {
		t.Fatalf("got %d vectors, want 100", len(got))
	}
	// 100 texts at default batch size 64 = 2 provider calls
	if calls := svc.EmbedCalls(); calls != 2 {
		t.Errorf("EmbedCalls = %d, want 2", calls)
	}
}
