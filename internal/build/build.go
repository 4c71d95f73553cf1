// Package build drives the generation of the files listed in a build
// configuration from a syscall table.
package build

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/stealthrocket/sysgen/internal/log"
	"github.com/stealthrocket/sysgen/internal/sysdef"
	"github.com/stealthrocket/sysgen/internal/sysgen"
)

// Build generates the outputs of cfg matching the given names, or all the
// outputs if no names are given.
//
// Outputs are generated concurrently. Each file is written to a temporary
// location and renamed into place once complete, so a failed build never
// leaves a partially written file behind. The first error aborts the outputs
// still being generated and is returned.
func Build(ctx context.Context, cfg *Config, table *sysdef.Table, only ...string) error {
	outputs, err := cfg.Select(only...)
	if err != nil {
		return err
	}

	type job struct {
		out  *Output
		gen  sysgen.Generator
		path string
	}
	jobs := make([]job, len(outputs))
	for i := range outputs {
		out := &outputs[i]
		// Generators hold state for a single pass and are never shared.
		g, err := out.generator()
		if err != nil {
			return fmt.Errorf("%s: %w", out, err)
		}
		path, err := out.Path.RelativeTo(cfg.Dir())
		if err != nil {
			return fmt.Errorf("%s: %w", out, err)
		}
		jobs[i] = job{out: out, gen: g, path: path}
	}

	group, ctx := errgroup.WithContext(ctx)
	if limit, ok := cfg.Jobs.Value(); ok {
		group.SetLimit(limit)
	}

	for _, j := range jobs {
		j := j
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.L.Debug("generating", "generator", j.out.Generator, "path", j.path)
			if err := WriteFile(ctx, j.path, j.gen, table.Syscalls); err != nil {
				return fmt.Errorf("%s: %w", j.out, err)
			}
			log.L.Info("generated", "generator", j.out.Generator, "path", j.path, "syscalls", len(table.Syscalls))
			return nil
		})
	}

	return group.Wait()
}

// WriteFile runs a generation pass of g over syscalls, atomically replacing
// the file at path with the output.
func WriteFile(ctx context.Context, path string, g sysgen.Generator, syscalls []*sysdef.Syscall) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			if rmErr := os.Remove(tmp); rmErr != nil {
				log.L.Warn("removing temporary file", "path", tmp, "error", rmErr)
			}
		}
	}()

	w := bufio.NewWriter(f)
	if err := sysgen.Run(&contextWriter{ctx: ctx, w: w}, g, syscalls); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := f.Chmod(0644); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// contextWriter fails writes once its context is canceled, aborting the
// generation pass it is used in.
type contextWriter struct {
	ctx context.Context
	w   io.Writer
}

func (cw *contextWriter) Write(b []byte) (int, error) {
	if err := cw.ctx.Err(); err != nil {
		return 0, err
	}
	return cw.w.Write(b)
}
