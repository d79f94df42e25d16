package database

import (
	"fmt"
	"time"
)

// ArticleRepo handles database operations for the published-article archive
type ArticleRepo struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepo {
	return &ArticleRepo{db: db}
}

// RecordPublished archives a successfully published article.
func (r *ArticleRepo) RecordPublished(title, source, category string, attempts int) error {
	_, err := r.db.Exec(`
		INSERT INTO articles (title, source, category, attempts, published_at)
		VALUES (?, ?, ?, ?, ?)
	`, title, source, category, attempts, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("failed to record published article: %w", err)
	}

	return nil
}

// GetRecent returns the most recently published articles, newest first.
func (r *ArticleRepo) GetRecent(limit int) ([]Article, error) {
	rows, err := r.db.Query(`
		SELECT id, title, source, category, attempts, published_at
		FROM articles
		ORDER BY published_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		var a Article
		err := rows.Scan(&a.ID, &a.Title, &a.Source, &a.Category, &a.Attempts, &a.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// GetCount returns the total number of archived articles
func (r *ArticleRepo) GetCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

// GetCountSince returns the number of articles published since the given time
func (r *ArticleRepo) GetCountSince(since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM articles WHERE published_at >= ?", since.UTC()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get article count since: %w", err)
	}
	return count, nil
}
