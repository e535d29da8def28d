package mintlog

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLStore is the database-backed variant for deployments with an existing
// mysql instance. Same contract as the leveldb store: prepend semantics via
// descending insertion order.
type SQLStore struct {
	db *gorm.DB
}

func OpenSQLStore(dsn string) (*SQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	sql := `
		CREATE TABLE IF NOT EXISTS mint_entries (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			list VARCHAR(128) NOT NULL,
			entry TEXT NOT NULL,
			INDEX idx_list_id (list, id)
		)
	`
	if err := db.Exec(sql).Error; err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Push(list string, entry string) error {
	sql := `INSERT INTO mint_entries (list, entry) VALUES (?, ?)`
	return s.db.Exec(sql, list, entry).Error
}

func (s *SQLStore) All(list string) ([]string, error) {
	var entries []string
	sql := `
		SELECT entry
		FROM mint_entries
		WHERE list = ?
		ORDER BY id DESC
	`
	err := s.db.Raw(sql, list).Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make([]string, 0)
	}
	return entries, nil
}

func (s *SQLStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
