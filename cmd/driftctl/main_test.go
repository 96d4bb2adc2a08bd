package main

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

func TestRepairHonorsCommandContext(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"repair", "--db", filepath.Join(t.TempDir(), "moneta.db")})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := root.ExecuteContext(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
