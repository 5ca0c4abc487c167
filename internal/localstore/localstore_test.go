package localstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStoreBasicOps(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := s.Get("missing"); ok {
		t.Fatal("missing key should not be found")
	}

	if err := s.Set("cart_share_AB12CD34", "token-1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Set("cart_share_ZZ99XX00", "token-2"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	value, ok := s.Get("cart_share_AB12CD34")
	if !ok || value != "token-1" {
		t.Fatalf("expected token-1, got: %q, %v", value, ok)
	}

	keys := s.Keys()
	if len(keys) != 2 || keys[0] != "cart_share_AB12CD34" {
		t.Fatalf("expected sorted keys, got: %v", keys)
	}

	if err := s.Delete("cart_share_AB12CD34"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := s.Get("cart_share_AB12CD34"); ok {
		t.Fatal("deleted key should not be found")
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Set("key", "old"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Set("key", "new"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if value, _ := s.Get("key"); value != "new" {
		t.Fatalf("expected overwritten value, got: %q", value)
	}
}

func TestOpenPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "local.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := s.Set("cart_share_AB12CD34", "token-1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Delete("never-existed"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// 重新打开：数据从文件加载
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	value, ok := reopened.Get("cart_share_AB12CD34")
	if !ok || value != "token-1" {
		t.Fatalf("expected persisted value, got: %q, %v", value, ok)
	}
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open should tolerate a missing file, got: %v", err)
	}
	if len(s.Keys()) != 0 {
		t.Fatalf("expected empty store, got keys: %v", s.Keys())
	}
}

func TestOpenRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file failed: %v", err)
	}

	if _, err := Open(path); err == nil {
		t.Fatal("corrupt file should fail to open")
	}
}
