package eventlog

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/database"
)

// Subscription sends events of one scope, at or above Level, to a channel.
// An empty Module subscribes to every module.
type Subscription struct {
	Scope     Scope
	GuildID   discord.GuildID
	ChannelID discord.ChannelID
	Level     Level
	Module    string
}

// Store persists subscriptions.
type Store interface {
	// Subscriptions returns subscriptions of scope with a level at or below
	// level, registered either for module or for all modules.
	Subscriptions(ctx context.Context, scope Scope, level Level, module string) ([]Subscription, error)
	GuildSubscriptions(ctx context.Context, guildID discord.GuildID) ([]Subscription, error)
	// AddSubscription creates the subscription or updates the level of the
	// existing one for the same scope, guild, channel and module.
	AddSubscription(ctx context.Context, sub Subscription) error
	RemoveSubscription(ctx context.Context, scope Scope, guildID discord.GuildID, module string) (bool, error)
}

// Schema returns the subscription table.
func Schema() database.Schema {
	return database.Schema{
		Component: "logging",
		Version:   1,
		Tables:    []string{"logging"},
		Create: []string{
			`CREATE TABLE IF NOT EXISTS logging (
				idx SERIAL PRIMARY KEY,
				guild_id BIGINT NOT NULL,
				channel_id BIGINT NOT NULL,
				scope TEXT NOT NULL,
				level INTEGER NOT NULL,
				module TEXT
			)`,
		},
	}
}

// Select orders module specific subscriptions before global ones and keeps
// the first subscription of every guild.
func Select(subs []Subscription, module string) []Subscription {
	seen := make(map[discord.GuildID]struct{}, len(subs))
	result := make([]Subscription, 0, len(subs))

	for _, pass := range []string{module, ""} {
		for _, sub := range subs {
			if sub.Module != pass {
				continue
			}
			if _, ok := seen[sub.GuildID]; ok {
				continue
			}
			seen[sub.GuildID] = struct{}{}
			result = append(result, sub)
		}
		if module == "" {
			break
		}
	}

	return result
}

type pgStore struct {
	db database.DB
}

// NewStore returns a PostgreSQL backed Store.
func NewStore(db database.DB) Store {
	return &pgStore{db: db}
}

const subscriptionColumns = `scope, guild_id, channel_id, level, COALESCE(module, '')`

func (s *pgStore) Subscriptions(ctx context.Context, scope Scope, level Level, module string) ([]Subscription, error) {
	return s.query(ctx,
		`SELECT `+subscriptionColumns+` FROM logging
		WHERE scope = $1 AND level <= $2 AND (module IS NULL OR module = $3)
		ORDER BY idx`,
		scope.String(), int(level), module,
	)
}

func (s *pgStore) GuildSubscriptions(ctx context.Context, guildID discord.GuildID) ([]Subscription, error) {
	return s.query(ctx,
		`SELECT `+subscriptionColumns+` FROM logging WHERE guild_id = $1 ORDER BY idx`,
		int64(guildID),
	)
}

func (s *pgStore) AddSubscription(ctx context.Context, sub Subscription) error {
	return s.db.WithTx(ctx, func(q database.Querier) error {
		tag, err := q.Exec(ctx,
			`UPDATE logging SET level = $5
			WHERE scope = $1 AND guild_id = $2 AND channel_id = $3
			AND module IS NOT DISTINCT FROM NULLIF($4, '')`,
			sub.Scope.String(), int64(sub.GuildID), int64(sub.ChannelID), sub.Module, int(sub.Level),
		)
		if err != nil || tag.RowsAffected() > 0 {
			return err
		}

		_, err = q.Exec(ctx,
			`INSERT INTO logging (scope, guild_id, channel_id, module, level)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
			sub.Scope.String(), int64(sub.GuildID), int64(sub.ChannelID), sub.Module, int(sub.Level),
		)

		return err
	})
}

func (s *pgStore) RemoveSubscription(ctx context.Context, scope Scope, guildID discord.GuildID, module string) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM logging
		WHERE scope = $1 AND guild_id = $2 AND module IS NOT DISTINCT FROM NULLIF($3, '')`,
		scope.String(), int64(guildID), module,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) query(ctx context.Context, sql string, args ...any) ([]Subscription, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var (
			scope            string
			guildID, channel int64
			level            int
			sub              Subscription
		)
		if err := rows.Scan(&scope, &guildID, &channel, &level, &sub.Module); err != nil {
			return nil, err
		}
		if sub.Scope, err = ParseScope(scope); err != nil {
			return nil, err
		}
		sub.GuildID = discord.GuildID(guildID)
		sub.ChannelID = discord.ChannelID(channel)
		sub.Level = Level(level)
		subs = append(subs, sub)
	}

	return subs, rows.Err()
}
