package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func tempSlot(t *testing.T) CredentialFSStore {
	t.Helper()
	return NewCredentialFSStore(filepath.Join(t.TempDir(), "nested", "img_translator_api_key"))
}

func TestCredentialFSStore_WriteRead_TrimsWhitespace(t *testing.T) {
	st := tempSlot(t)
	if err := st.Write([]byte("{\"payload\":\"x\",\"nonce\":\"y\"}\n\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := st.Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != `{"payload":"x","nonce":"y"}` {
		t.Fatalf("unexpected content %q", b)
	}
}

func TestCredentialFSStore_Write_Overwrites(t *testing.T) {
	st := tempSlot(t)
	if err := st.Write([]byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := st.Write([]byte("second")); err != nil {
		t.Fatal(err)
	}
	b, err := st.Read()
	if err != nil || string(b) != "second" {
		t.Fatalf("last write must win: %q err=%v", b, err)
	}
	// временные файлы не остаются рядом со слотом
	entries, _ := os.ReadDir(filepath.Dir(st.Path))
	if len(entries) != 1 {
		t.Fatalf("expected only slot file, got %d entries", len(entries))
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(st.Path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Fatalf("slot must be 0600, got %v", info.Mode().Perm())
		}
	}
}

func TestCredentialFSStore_Read_MissingOrEmpty(t *testing.T) {
	st := tempSlot(t)
	if _, err := st.Read(); !errors.Is(err, iofs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist for missing slot, got %v", err)
	}
	_ = os.MkdirAll(filepath.Dir(st.Path), 0o700)
	_ = os.WriteFile(st.Path, []byte(" \n"), 0o600)
	if _, err := st.Read(); !errors.Is(err, iofs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist for empty slot, got %v", err)
	}
}

func TestCredentialFSStore_Remove_Idempotent(t *testing.T) {
	st := tempSlot(t)
	if err := st.Remove(); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	_ = st.Write([]byte("v"))
	if err := st.Remove(); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := st.Remove(); err != nil {
		t.Fatalf("remove twice: %v", err)
	}
	if _, err := os.Stat(st.Path); !errors.Is(err, iofs.ErrNotExist) {
		t.Fatalf("slot file still exists")
	}
}

func TestCredentialFSStore_EmptyPath(t *testing.T) {
	st := CredentialFSStore{}
	if _, err := st.Read(); err == nil {
		t.Fatalf("empty path read must fail")
	}
	if err := st.Write([]byte("x")); err == nil {
		t.Fatalf("empty path write must fail")
	}
	if err := st.Remove(); err == nil {
		t.Fatalf("empty path remove must fail")
	}
}

func TestCredentialFSStore_Write_FailsWhenParentIsFile(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "not_dir")
	if err := os.WriteFile(bad, []byte("x"), 0o600); err != nil {
		t.Fatalf("prepare tmp file: %v", err)
	}
	st := NewCredentialFSStore(filepath.Join(bad, "key"))
	if err := st.Write([]byte("v")); err == nil {
		t.Fatalf("expected error when parent path is a file")
	}
}
