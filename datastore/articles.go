package datastore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wikitok/backend/models"
)

const articleColumns = `a.id, a.wiki_id, a.title, a.summary, a.url, a.thumbnail, a.created_at`

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// SaveArticle stores article unless an article with the same WikiID already
// exists. Either way the stored row is returned; an existing row is never
// updated. The boolean reports whether a new row was inserted.
func (r *ArticleRepository) SaveArticle(ctx context.Context, article *models.Article) (*models.Article, bool, error) {
	if article.WikiID == "" || article.Title == "" {
		return nil, false, fmt.Errorf("article wiki_id and title are required")
	}
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}

	var thumbnail sql.NullString
	if article.Thumbnail != nil {
		thumbnail = sql.NullString{String: *article.Thumbnail, Valid: true}
	}

	var (
		stored  *models.Article
		created bool
	)
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		insert := `
			INSERT INTO articles (id, wiki_id, title, summary, url, thumbnail, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (wiki_id) DO NOTHING
		`
		result, err := tx.ExecContext(ctx, insert,
			article.ID, article.WikiID, article.Title, article.Summary, article.URL, thumbnail, article.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert article %s: %w", article.WikiID, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected for article %s: %w", article.WikiID, err)
		}
		created = rowsAffected > 0

		stored, err = getArticleByWikiID(ctx, tx, article.WikiID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

// GetArticleByWikiID retrieves an article by its source-system identifier.
func (r *ArticleRepository) GetArticleByWikiID(ctx context.Context, wikiID string) (*models.Article, error) {
	return getArticleByWikiID(ctx, r.db, wikiID)
}

// GetLikedArticles returns every article the user currently likes, most
// recently first-interacted first.
func (r *ArticleRepository) GetLikedArticles(ctx context.Context, userID string) ([]models.Article, error) {
	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		JOIN user_interactions ui ON a.id = ui.article_id
		JOIN users u ON ui.user_id = u.id
		WHERE u.id = $1 AND ui.liked = TRUE
		ORDER BY ui.created_at DESC, a.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query liked articles for user %s: %w", userID, err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liked article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating liked article rows: %w", err)
	}

	// Return empty slice, not nil, if nothing is liked
	if articles == nil {
		articles = []models.Article{}
	}
	return articles, nil
}

// GetHistory returns every article the user has viewed together with the
// user's last view time, newest view first.
func (r *ArticleRepository) GetHistory(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	query := `
		SELECT ` + articleColumns + `, ui.viewed_at
		FROM articles a
		JOIN user_interactions ui ON a.id = ui.article_id
		JOIN users u ON ui.user_id = u.id
		WHERE u.id = $1 AND ui.viewed = TRUE
		ORDER BY ui.viewed_at DESC, a.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for user %s: %w", userID, err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var (
			entry     models.HistoryEntry
			thumbnail sql.NullString
		)
		err := rows.Scan(
			&entry.ID, &entry.WikiID, &entry.Title, &entry.Summary, &entry.URL, &thumbnail, &entry.CreatedAt,
			&entry.ViewedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if thumbnail.Valid {
			entry.Thumbnail = &thumbnail.String
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}

func getArticleByWikiID(ctx context.Context, q queryer, wikiID string) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles a WHERE a.wiki_id = $1`
	article, err := scanArticle(q.QueryRowContext(ctx, query, wikiID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article %s: %w", wikiID, err)
	}
	return article, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var (
		article   models.Article
		thumbnail sql.NullString
	)
	err := row.Scan(
		&article.ID, &article.WikiID, &article.Title, &article.Summary, &article.URL, &thumbnail, &article.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if thumbnail.Valid {
		article.Thumbnail = &thumbnail.String
	}
	return &article, nil
}
