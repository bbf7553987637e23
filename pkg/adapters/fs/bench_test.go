package fs_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/voxnote/pkg/adapters/fs"
	"github.com/aretw0/voxnote/pkg/core"
)

// seed writes count notes directly to disk, simulating an existing directory.
func seed(b *testing.B, dir string, count int) {
	b.Helper()
	for i := 0; i < count; i++ {
		key := fmt.Sprintf("%s10/17/2026, 3:%02d:%02d PM #%d", core.KeyPrefix, i/60%60, i%60, i)
		if err := os.WriteFile(filepath.Join(dir, fs.FileName(key)), []byte("benchmark note"), 0644); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkListAll(b *testing.B) {
	for _, count := range []int{100, 1000} {
		b.Run(fmt.Sprintf("cold-%d", count), func(b *testing.B) {
			dir := b.TempDir()
			seed(b, dir, count)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				_ = os.RemoveAll(filepath.Join(dir, fs.DefaultSystemDir))
				svc := core.NewService(fs.NewStore(fs.Config{Path: dir}))
				b.StartTimer()

				notes, err := core.Collect(svc.ListAll(ctx))
				if err != nil || len(notes) != count {
					b.Fatalf("got %d notes, err %v", len(notes), err)
				}
			}
		})

		b.Run(fmt.Sprintf("warm-%d", count), func(b *testing.B) {
			dir := b.TempDir()
			seed(b, dir, count)
			ctx := context.Background()
			svc := core.NewService(fs.NewStore(fs.Config{Path: dir}))
			if _, err := core.Collect(svc.ListAll(ctx)); err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := core.Collect(svc.ListAll(ctx)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
