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

const interactionColumns = `id, user_id, article_id, liked, viewed, viewed_at, created_at`

// InteractionRepository handles the user_interactions table. Every mutation
// resolves the article and writes the interaction in one transaction, and
// relies on the (user_id, article_id) unique constraint so that concurrent
// first-time likes or views converge on a single row.
type InteractionRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewInteractionRepository(db *sql.DB) *InteractionRepository {
	return &InteractionRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// LikeArticle marks the article liked by the user. A first interaction is
// created with viewed set too, since liking implies having seen the article.
func (r *InteractionRepository) LikeArticle(ctx context.Context, userID, wikiID string) (*models.UserInteraction, error) {
	upsert := `
		INSERT INTO user_interactions (id, user_id, article_id, liked, viewed, viewed_at, created_at)
		VALUES ($1, $2, $3, TRUE, TRUE, $4, $4)
		ON CONFLICT (user_id, article_id) DO UPDATE SET liked = TRUE
	`
	return r.upsert(ctx, userID, wikiID, upsert)
}

// RecordView marks the article viewed and moves viewed_at to now, on every call.
func (r *InteractionRepository) RecordView(ctx context.Context, userID, wikiID string) (*models.UserInteraction, error) {
	upsert := `
		INSERT INTO user_interactions (id, user_id, article_id, liked, viewed, viewed_at, created_at)
		VALUES ($1, $2, $3, FALSE, TRUE, $4, $4)
		ON CONFLICT (user_id, article_id) DO UPDATE SET viewed = TRUE, viewed_at = excluded.viewed_at
	`
	return r.upsert(ctx, userID, wikiID, upsert)
}

// UnlikeArticle clears the liked flag. Without a prior interaction nothing is
// written and no error is returned.
func (r *InteractionRepository) UnlikeArticle(ctx context.Context, userID, wikiID string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		article, err := getArticleByWikiID(ctx, tx, wikiID)
		if err != nil {
			return err
		}

		query := `UPDATE user_interactions SET liked = FALSE WHERE user_id = $1 AND article_id = $2`
		if _, err := tx.ExecContext(ctx, query, userID, article.ID); err != nil {
			return fmt.Errorf("failed to unlike article %s for user %s: %w", wikiID, userID, err)
		}
		return nil
	})
}

// CountViewed returns how many articles the user has viewed.
func (r *InteractionRepository) CountViewed(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM user_interactions WHERE user_id = $1 AND viewed = TRUE`, userID)
}

// CountLiked returns how many articles the user currently likes.
func (r *InteractionRepository) CountLiked(ctx context.Context, userID string) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM user_interactions WHERE user_id = $1 AND liked = TRUE`, userID)
}

func (r *InteractionRepository) count(ctx context.Context, query, userID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count interactions for user %s: %w", userID, err)
	}
	return n, nil
}

func (r *InteractionRepository) upsert(ctx context.Context, userID, wikiID, query string) (*models.UserInteraction, error) {
	var interaction *models.UserInteraction
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		article, err := getArticleByWikiID(ctx, tx, wikiID)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, uuid.NewString(), userID, article.ID, r.now()); err != nil {
			return fmt.Errorf("failed to write interaction for user %s and article %s: %w", userID, wikiID, err)
		}

		interaction, err = getInteraction(ctx, tx, userID, article.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return interaction, nil
}

func getInteraction(ctx context.Context, q queryer, userID, articleID string) (*models.UserInteraction, error) {
	query := `SELECT ` + interactionColumns + ` FROM user_interactions WHERE user_id = $1 AND article_id = $2`
	var ui models.UserInteraction
	err := q.QueryRowContext(ctx, query, userID, articleID).Scan(
		&ui.ID, &ui.UserID, &ui.ArticleID, &ui.Liked, &ui.Viewed, &ui.ViewedAt, &ui.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("interaction not found: %w", err)
		}
		return nil, fmt.Errorf("failed to get interaction: %w", err)
	}
	return &ui, nil
}
