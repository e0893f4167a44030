// Package devcms is a local stand-in for the Directus REST API. It stores
// posts and pages in SQLite and answers the item and ping endpoints the
// frontend consumes.
package devcms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostRecord mirrors the posts collection.
type PostRecord struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	Slug        string     `gorm:"uniqueIndex;not null" json:"slug"`
	Status      string     `gorm:"index;not null;default:draft" json:"status"`
	DateCreated time.Time  `gorm:"index" json:"date_created"`
	DateUpdated *time.Time `json:"date_updated"`
}

// TableName pins the collection name.
func (PostRecord) TableName() string { return "posts" }

// PageRecord mirrors the pages collection.
type PageRecord struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`
	Slug    string `gorm:"uniqueIndex;not null" json:"slug"`
	Status  string `gorm:"index;not null;default:draft" json:"status"`
}

// TableName pins the collection name.
func (PageRecord) TableName() string { return "pages" }

// Open 打开（必要时创建）SQLite 数据库并执行自动迁移。
// path 为空时将回退到默认值 devcms.db。
func Open(path string) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "devcms.db"
	}

	if !strings.HasPrefix(path, "file:") {
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := gdb.AutoMigrate(&PostRecord{}, &PageRecord{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return gdb, nil
}

// OpenMemory opens a private in-memory database.
func OpenMemory() (*gorm.DB, error) {
	return Open(fmt.Sprintf("file:devcms-%s?mode=memory&cache=shared", uuid.NewString()))
}

// Close releases the underlying connection pool.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
