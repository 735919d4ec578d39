package sqlite

import (
	"context"
	"database/sql"

	"github.com/garnizeh/quartermaster/pkg/models"
)

func (r *SQLiteRepo) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	row := r.conn.QueryRow(ctx, `SELECT user_id, character_name, updated FROM user_profiles WHERE user_id = ?`, userID)

	var p models.UserProfile
	if err := row.Scan(&p.UserID, &p.CharacterName, &p.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &p, nil
}

func (r *SQLiteRepo) UpsertProfile(ctx context.Context, userID int64, characterName string) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO user_profiles (user_id, character_name, updated) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET character_name = excluded.character_name, updated = excluded.updated`,
		userID, characterName, now())
	return err
}
