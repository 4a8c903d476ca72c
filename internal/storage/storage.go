// Package storage keeps small typed values per module and guild.
//
// Values are strings, integers, floats or booleans. Guild 0 holds values that
// are not bound to any guild.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/diamondburned/arikawa/v3/discord"
)

// Global is the guild ID of values shared by all guilds.
const Global discord.GuildID = 0

// ErrInvalidValue is returned when a stored value cannot be decoded into the
// requested type.
var ErrInvalidValue = errors.New("invalid stored value")

// Type names the kind of a stored value.
type Type string

const (
	TypeString Type = "str"
	TypeInt    Type = "int"
	TypeFloat  Type = "float"
	TypeBool   Type = "bool"
)

// Known reports whether t is a type Get can decode.
func (t Type) Known() bool {
	switch t {
	case TypeString, TypeInt, TypeFloat, TypeBool:
		return true
	}

	return false
}

// Value lists the Go types that can be stored.
type Value interface {
	string | int | int64 | float64 | bool
}

// Record is one stored value.
type Record struct {
	Module  string
	GuildID discord.GuildID
	Key     string
	Value   string
	Type    Type
}

// Storage reads and writes records.
type Storage struct {
	store Store
}

// New returns a Storage on top of store.
func New(store Store) *Storage {
	return &Storage{store: store}
}

// Get returns the value stored under key, or def when the key is missing or
// holds a value of an unknown type.
func Get[T Value](ctx context.Context, s *Storage, module string, guildID discord.GuildID, key string, def T) (T, error) {
	rec, ok, err := s.store.Get(ctx, module, guildID, key)
	if err != nil || !ok || !rec.Type.Known() {
		return def, err
	}

	v, err := decode[T](rec.Value)
	if err != nil {
		return def, fmt.Errorf("%w: %s/%s: %v", ErrInvalidValue, module, key, err)
	}

	return v, nil
}

// Set stores value, replacing any previous one.
func Set[T Value](ctx context.Context, s *Storage, module string, guildID discord.GuildID, key string, value T) error {
	_, err := s.store.Put(ctx, record(module, guildID, key, value), true)
	return err
}

// SetIfMissing stores value unless the key exists and reports whether it did.
func SetIfMissing[T Value](ctx context.Context, s *Storage, module string, guildID discord.GuildID, key string, value T) (bool, error) {
	return s.store.Put(ctx, record(module, guildID, key, value), false)
}

// Exists reports whether key holds a value.
func (s *Storage) Exists(ctx context.Context, module string, guildID discord.GuildID, key string) (bool, error) {
	_, ok, err := s.store.Get(ctx, module, guildID, key)
	return ok, err
}

// TypeOf returns the type of the stored value, "" when the key is missing.
func (s *Storage) TypeOf(ctx context.Context, module string, guildID discord.GuildID, key string) (Type, error) {
	rec, ok, err := s.store.Get(ctx, module, guildID, key)
	if err != nil || !ok {
		return "", err
	}

	return rec.Type, nil
}

// Unset deletes the value and reports whether it existed.
func (s *Storage) Unset(ctx context.Context, module string, guildID discord.GuildID, key string) (bool, error) {
	return s.store.Delete(ctx, module, guildID, key)
}

func record[T Value](module string, guildID discord.GuildID, key string, value T) Record {
	rec := Record{Module: module, GuildID: guildID, Key: key}

	switch v := any(value).(type) {
	case bool:
		rec.Type, rec.Value = TypeBool, strconv.FormatBool(v)
	case int:
		rec.Type, rec.Value = TypeInt, strconv.Itoa(v)
	case int64:
		rec.Type, rec.Value = TypeInt, strconv.FormatInt(v, 10)
	case float64:
		rec.Type, rec.Value = TypeFloat, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		rec.Type, rec.Value = TypeString, fmt.Sprint(v)
	}

	return rec
}

func decode[T Value](raw string) (T, error) {
	var out T

	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *bool:
		*p = strings.EqualFold(raw, "true")
	case *int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return out, err
		}
		*p = n
	case *int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return out, err
		}
		*p = n
	case *float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, err
		}
		*p = f
	default:
		return out, fmt.Errorf("unsupported type %T", out)
	}

	return out, nil
}
