package acl_test

import (
	"context"
	"sort"

	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/strawberry-py/strawberry-go/internal/acl"
)

type overwriteKey struct {
	kind    acl.OverwriteKind
	guild   discord.GuildID
	target  discord.Snowflake
	command string
}

// memoryStore is an in-memory acl.Store.
type memoryStore struct {
	defaults   map[discord.GuildID]map[string]acl.Level
	overwrites map[overwriteKey]bool
	mappings   map[discord.GuildID]map[discord.RoleID]acl.Level

	mappingLookups int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		defaults:   map[discord.GuildID]map[string]acl.Level{},
		overwrites: map[overwriteKey]bool{},
		mappings:   map[discord.GuildID]map[discord.RoleID]acl.Level{},
	}
}

func (m *memoryStore) Default(_ context.Context, g discord.GuildID, command string) (acl.Level, bool, error) {
	l, ok := m.defaults[g][command]
	return l, ok, nil
}

func (m *memoryStore) Defaults(_ context.Context, g discord.GuildID) ([]acl.Default, error) {
	var out []acl.Default
	for command, level := range m.defaults[g] {
		out = append(out, acl.Default{GuildID: g, Command: command, Level: level})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Command < out[j].Command })

	return out, nil
}

func (m *memoryStore) AddDefault(_ context.Context, d acl.Default) error {
	if _, ok := m.defaults[d.GuildID][d.Command]; ok {
		return acl.ErrExists
	}
	if m.defaults[d.GuildID] == nil {
		m.defaults[d.GuildID] = map[string]acl.Level{}
	}
	m.defaults[d.GuildID][d.Command] = d.Level

	return nil
}

func (m *memoryStore) RemoveDefault(_ context.Context, g discord.GuildID, command string) (bool, error) {
	_, ok := m.defaults[g][command]
	delete(m.defaults[g], command)

	return ok, nil
}

func (m *memoryStore) Overwrite(_ context.Context, kind acl.OverwriteKind, g discord.GuildID, target discord.Snowflake, command string) (bool, bool, error) {
	allow, ok := m.overwrites[overwriteKey{kind, g, target, command}]
	return allow, ok, nil
}

func (m *memoryStore) Overwrites(_ context.Context, kind acl.OverwriteKind, g discord.GuildID) ([]acl.Overwrite, error) {
	var out []acl.Overwrite
	for k, allow := range m.overwrites {
		if k.guild == g && (kind == "" || k.kind == kind) {
			out = append(out, acl.Overwrite{Kind: k.kind, GuildID: g, TargetID: k.target, Command: k.command, Allow: allow})
		}
	}

	return out, nil
}

func (m *memoryStore) AddOverwrite(_ context.Context, o acl.Overwrite) error {
	key := overwriteKey{o.Kind, o.GuildID, o.TargetID, o.Command}
	if _, ok := m.overwrites[key]; ok {
		return acl.ErrExists
	}
	m.overwrites[key] = o.Allow

	return nil
}

func (m *memoryStore) RemoveOverwrite(_ context.Context, kind acl.OverwriteKind, g discord.GuildID, target discord.Snowflake, command string) (bool, error) {
	key := overwriteKey{kind, g, target, command}
	_, ok := m.overwrites[key]
	delete(m.overwrites, key)

	return ok, nil
}

func (m *memoryStore) Mapping(_ context.Context, g discord.GuildID, role discord.RoleID) (acl.Level, bool, error) {
	m.mappingLookups++
	l, ok := m.mappings[g][role]

	return l, ok, nil
}

func (m *memoryStore) Mappings(_ context.Context, g discord.GuildID) ([]acl.Mapping, error) {
	var out []acl.Mapping
	for role, level := range m.mappings[g] {
		out = append(out, acl.Mapping{GuildID: g, RoleID: role, Level: level})
	}

	return out, nil
}

func (m *memoryStore) AddMapping(_ context.Context, mp acl.Mapping) error {
	if _, ok := m.mappings[mp.GuildID][mp.RoleID]; ok {
		return acl.ErrExists
	}
	if m.mappings[mp.GuildID] == nil {
		m.mappings[mp.GuildID] = map[discord.RoleID]acl.Level{}
	}
	m.mappings[mp.GuildID][mp.RoleID] = mp.Level

	return nil
}

func (m *memoryStore) RemoveMapping(_ context.Context, g discord.GuildID, role discord.RoleID) (bool, error) {
	_, ok := m.mappings[g][role]
	delete(m.mappings[g], role)

	return ok, nil
}
