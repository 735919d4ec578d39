package sqlite

import (
	"context"
	"database/sql"

	"github.com/garnizeh/quartermaster/pkg/models"
)

func (r *SQLiteRepo) CommunitySettings(ctx context.Context, communityID int64) (*models.CommunitySettings, error) {
	row := r.conn.QueryRow(ctx,
		`SELECT community_id, crafter_role_ref, announcement_channel_ref, queue_channel_ref, queue_message_ref, updated FROM community_settings WHERE community_id = ?`,
		communityID)

	var s models.CommunitySettings
	var role, announce, queueCh, queueMsg sql.NullInt64
	if err := row.Scan(&s.CommunityID, &role, &announce, &queueCh, &queueMsg, &s.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if role.Valid {
		s.CrafterRoleRef = &role.Int64
	}
	if announce.Valid {
		s.AnnouncementChannelRef = &announce.Int64
	}
	if queueCh.Valid {
		s.QueueChannelRef = &queueCh.Int64
	}
	if queueMsg.Valid {
		s.QueueMessageRef = &queueMsg.Int64
	}

	return &s, nil
}

// Setting writes are upserts: the settings row appears on the first
// configuration write and is never deleted.

func (r *SQLiteRepo) SetCrafterRole(ctx context.Context, communityID, roleRef int64) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO community_settings (community_id, crafter_role_ref, updated) VALUES (?, ?, ?)
		 ON CONFLICT(community_id) DO UPDATE SET crafter_role_ref = excluded.crafter_role_ref, updated = excluded.updated`,
		communityID, roleRef, now())
	return err
}

func (r *SQLiteRepo) SetAnnouncementChannel(ctx context.Context, communityID, channelRef int64) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO community_settings (community_id, announcement_channel_ref, updated) VALUES (?, ?, ?)
		 ON CONFLICT(community_id) DO UPDATE SET announcement_channel_ref = excluded.announcement_channel_ref, updated = excluded.updated`,
		communityID, channelRef, now())
	return err
}

func (r *SQLiteRepo) SetQueueChannel(ctx context.Context, communityID, channelRef int64) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO community_settings (community_id, queue_channel_ref, updated) VALUES (?, ?, ?)
		 ON CONFLICT(community_id) DO UPDATE SET queue_channel_ref = excluded.queue_channel_ref, updated = excluded.updated`,
		communityID, channelRef, now())
	return err
}

// SetQueueMessage only updates an existing settings row; a community with no
// configured queue channel has nothing to track.
func (r *SQLiteRepo) SetQueueMessage(ctx context.Context, communityID, messageRef int64) error {
	_, err := r.conn.Exec(ctx,
		`UPDATE community_settings SET queue_message_ref = ?, updated = ? WHERE community_id = ?`,
		messageRef, now(), communityID)
	return err
}
