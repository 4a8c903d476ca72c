package spamchannel

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Channel is a registered spam channel.
type Channel struct {
	GuildID   discord.GuildID
	ChannelID discord.ChannelID
	Primary   bool
}

// Store persists spam channels.
type Store interface {
	// Add returns ErrExists when the channel is already registered.
	Add(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) error
	Get(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (Channel, bool, error)
	List(ctx context.Context, guildID discord.GuildID) ([]Channel, error)
	// SetPrimary marks the channel primary and clears the previous primary.
	// It returns ErrNotSpamChannel for unregistered channels.
	SetPrimary(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) error
	Remove(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (bool, error)
}

// Schema returns the spam channel table.
func Schema() database.Schema {
	return database.Schema{
		Component: "spamchannel",
		Version:   1,
		Tables:    []string{"spamchannels"},
		Create: []string{
			`CREATE TABLE IF NOT EXISTS spamchannels (
				idx SERIAL PRIMARY KEY,
				guild_id BIGINT NOT NULL,
				channel_id BIGINT NOT NULL,
				"primary" BOOLEAN NOT NULL DEFAULT FALSE,
				UNIQUE (guild_id, channel_id)
			)`,
		},
	}
}

type pgStore struct {
	db database.DB
}

// NewStore returns a PostgreSQL backed Store.
func NewStore(db database.DB) Store {
	return &pgStore{db: db}
}

func (s *pgStore) Add(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) error {
	tag, err := s.db.Exec(ctx,
		`INSERT INTO spamchannels (guild_id, channel_id) VALUES ($1, $2)
		ON CONFLICT (guild_id, channel_id) DO NOTHING`,
		int64(guildID), int64(channelID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}

	return nil
}

func (s *pgStore) Get(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (Channel, bool, error) {
	ch := Channel{GuildID: guildID, ChannelID: channelID}
	err := s.db.QueryRow(ctx,
		`SELECT "primary" FROM spamchannels WHERE guild_id = $1 AND channel_id = $2`,
		int64(guildID), int64(channelID),
	).Scan(&ch.Primary)
	if database.IsNoRows(err) {
		return Channel{}, false, nil
	}
	if err != nil {
		return Channel{}, false, err
	}

	return ch, true, nil
}

func (s *pgStore) List(ctx context.Context, guildID discord.GuildID) ([]Channel, error) {
	rows, err := s.db.Query(ctx,
		`SELECT channel_id, "primary" FROM spamchannels WHERE guild_id = $1 ORDER BY idx`,
		int64(guildID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []Channel
	for rows.Next() {
		var id int64
		ch := Channel{GuildID: guildID}
		if err := rows.Scan(&id, &ch.Primary); err != nil {
			return nil, err
		}
		ch.ChannelID = discord.ChannelID(id)
		channels = append(channels, ch)
	}

	return channels, rows.Err()
}

func (s *pgStore) SetPrimary(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) error {
	return s.db.WithTx(ctx, func(q database.Querier) error {
		var exists bool
		err := q.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM spamchannels WHERE guild_id = $1 AND channel_id = $2)`,
			int64(guildID), int64(channelID),
		).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotSpamChannel
		}

		_, err = q.Exec(ctx,
			`UPDATE spamchannels SET "primary" = (channel_id = $2) WHERE guild_id = $1`,
			int64(guildID), int64(channelID),
		)

		return err
	})
}

func (s *pgStore) Remove(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM spamchannels WHERE guild_id = $1 AND channel_id = $2`,
		int64(guildID), int64(channelID),
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
