package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/brewcart/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSharedCartRepoTest(t *testing.T) (*GormSharedCartRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:shared_cart_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.SharedCart{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewSharedCartRepository(db), db
}

func TestSharedCartRepositoryCreateNormalizesCode(t *testing.T) {
	repo, _ := setupSharedCartRepoTest(t)

	record := &models.SharedCart{Code: "  ab12cd34 ", Encoded: "payload", CreatedAt: time.Now()}
	if err := repo.Create(record); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if record.Code != "AB12CD34" {
		t.Fatalf("expected normalized code AB12CD34, got: %q", record.Code)
	}

	found, err := repo.FindByCode("ab12cd34")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found == nil || found.Encoded != "payload" {
		t.Fatalf("expected record via lowercase lookup, got: %+v", found)
	}
}

func TestSharedCartRepositoryFindByCodeMissing(t *testing.T) {
	repo, _ := setupSharedCartRepoTest(t)

	found, err := repo.FindByCode("NOPE1234")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found != nil {
		t.Fatalf("expected nil for unknown code, got: %+v", found)
	}

	found, err = repo.FindByCode("")
	if err != nil || found != nil {
		t.Fatalf("expected nil,nil for empty code, got: %+v, %v", found, err)
	}
}

func TestSharedCartRepositoryFindByCodeNewestWins(t *testing.T) {
	repo, _ := setupSharedCartRepoTest(t)

	older := &models.SharedCart{Code: "SAME1234", Encoded: "old", CreatedAt: time.Now().Add(-time.Minute)}
	newer := &models.SharedCart{Code: "SAME1234", Encoded: "new", CreatedAt: time.Now()}
	if err := repo.Create(older); err != nil {
		t.Fatalf("create older failed: %v", err)
	}
	if err := repo.Create(newer); err != nil {
		t.Fatalf("create newer failed: %v", err)
	}

	found, err := repo.FindByCode("SAME1234")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found == nil || found.Encoded != "new" {
		t.Fatalf("expected newest record to win, got: %+v", found)
	}
}

func TestSharedCartRepositoryDeleteExpired(t *testing.T) {
	repo, db := setupSharedCartRepoTest(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	seeds := []models.SharedCart{
		{Code: "GONE0001", Encoded: "a", CreatedAt: past, ExpiresAt: &past},
		{Code: "KEEP0001", Encoded: "b", CreatedAt: past, ExpiresAt: &future},
		{Code: "KEEP0002", Encoded: "c", CreatedAt: past},
	}
	for i := range seeds {
		if err := db.Create(&seeds[i]).Error; err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	codes, err := repo.DeleteExpired(time.Now())
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if len(codes) != 1 || codes[0] != "GONE0001" {
		t.Fatalf("expected purged code GONE0001, got: %v", codes)
	}

	var count int64
	if err := db.Model(&models.SharedCart{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 remaining, got: %d", count)
	}

	// 再次清理：没有可删的记录
	codes, err = repo.DeleteExpired(time.Now())
	if err != nil {
		t.Fatalf("second delete expired failed: %v", err)
	}
	if len(codes) != 0 {
		t.Fatalf("expected no codes on second purge, got: %v", codes)
	}
}
