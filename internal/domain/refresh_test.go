package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clar.dev/pkg/clargen/internal/adapter"
	m "clar.dev/pkg/clargen/internal/model"
)

const cloneSource = `void test_core_clone__initialize_bare(void) /* [clar]: description="bare clone" */
{
}

void test_core_clone__basic(void)
{
}

void test_core_clone__cleanup(void)
{
}
`

func TestRefresher_Refresh(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "core", "clone.c")
	writeSourceFile(t, path, cloneSource)

	refresher := NewRefresher(adapter.NewLocalSourceFSAdapter())
	mod := m.NewModule("core_clone", "clar", "test")

	ok, err := refresher.Refresh(ctx, mod, m.Path(path))
	if err != nil || !ok {
		t.Fatalf("Refresh = %v, %v; want true, nil", ok, err)
	}

	if !mod.Modified() {
		t.Errorf("expected new module to be modified")
	}

	if len(mod.Callbacks) != 1 || mod.Callbacks[0].ShortName != "basic" {
		t.Errorf("unexpected callbacks: %+v", mod.Callbacks)
	}

	if len(mod.Initializers) != 1 || mod.Initializers[0].Variant() != "bare" {
		t.Errorf("unexpected initializers: %+v", mod.Initializers)
	}

	if mod.Cleanup == nil || mod.Reset != nil {
		t.Errorf("expected cleanup only, got reset=%v cleanup=%v", mod.Reset, mod.Cleanup)
	}

	if mod.SuiteCount() != 1 {
		t.Errorf("expected 1 suite, got %d", mod.SuiteCount())
	}

	t.Run("unchanged mtime keeps module", func(t *testing.T) {
		ok, err := refresher.Refresh(ctx, mod, m.Path(path))
		if err != nil || !ok {
			t.Fatalf("Refresh = %v, %v; want true, nil", ok, err)
		}

		if mod.Modified() {
			t.Errorf("expected unchanged module not to be modified")
		}
	})

	t.Run("changed mtime reparses", func(t *testing.T) {
		writeSourceFile(t, path, cloneSource+"\nvoid test_core_clone__local(void)\n{\n}\n")
		later := mod.MTime.Add(time.Second)
		if err := os.Chtimes(path, later, later); err != nil {
			t.Fatalf("chtimes: %v", err)
		}

		ok, err := refresher.Refresh(ctx, mod, m.Path(path))
		if err != nil || !ok {
			t.Fatalf("Refresh = %v, %v; want true, nil", ok, err)
		}

		if !mod.Modified() || len(mod.Callbacks) != 2 {
			t.Errorf("expected reparsed module with 2 callbacks, got modified=%v callbacks=%d",
				mod.Modified(), len(mod.Callbacks))
		}

		if !mod.MTime.Equal(later) {
			t.Errorf("expected mtime %v, got %v", later, mod.MTime)
		}
	})

	t.Run("vanished file drops module", func(t *testing.T) {
		if err := os.Remove(path); err != nil {
			t.Fatalf("remove: %v", err)
		}

		ok, err := refresher.Refresh(ctx, mod, m.Path(path))
		if err != nil || ok {
			t.Fatalf("Refresh = %v, %v; want false, nil", ok, err)
		}
	})
}

func TestRefresher_NoCallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.c")
	writeSourceFile(t, path, "void test_fixtures__initialize(void)\n{\n}\n\nvoid test_fixtures__cleanup(void)\n{\n}\n")

	refresher := NewRefresher(adapter.NewLocalSourceFSAdapter())
	mod := m.NewModule("fixtures", "clar", "test")

	ok, err := refresher.Refresh(context.Background(), mod, m.Path(path))
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	if ok {
		t.Errorf("expected module without callbacks to be dropped")
	}
}

func TestRefresher_InvalidAnnotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.c")
	writeSourceFile(t, path, "void test_refs__read(void) /* [clar]: runs=many */\n{\n}\n")

	refresher := NewRefresher(adapter.NewLocalSourceFSAdapter())
	mod := m.NewModule("refs", "clar", "test")

	ok, err := refresher.Refresh(context.Background(), mod, m.Path(path))
	if ok {
		t.Errorf("expected false on invalid annotation")
	}

	var optErr *OptionError
	if !errors.As(err, &optErr) {
		t.Fatalf("expected *OptionError, got %v", err)
	}

	if optErr.Symbol != "test_refs__read" || optErr.Fragment != "many" {
		t.Errorf("unexpected error fields: %+v", optErr)
	}

	if !mod.MTime.IsZero() || mod.Modified() {
		t.Errorf("failed parse must leave the module untouched, got mtime=%v modified=%v",
			mod.MTime, mod.Modified())
	}
}
