// Package i18n translates user-facing strings according to the language
// preference of the user, their guild or the bot.
package i18n

import (
	"bufio"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// SourceLanguage is the language translation keys are written in.
const SourceLanguage = "en"

const (
	preferenceCacheSize = 4096
	preferenceTTL       = 2 * time.Minute
)

//go:embed po/*.popie
var catalogFS embed.FS

// Context identifies whose preference applies. Zero IDs mean "unknown",
// e.g. a direct message has no guild.
type Context struct {
	GuildID discord.GuildID
	UserID  discord.UserID
}

// GlobalLanguage provides the bot-wide default language.
type GlobalLanguage interface {
	Language() string
}

// Catalog holds the parsed translation files.
type Catalog struct {
	strings map[string]map[string]string
	audit   map[string]AuditResult
}

// AuditResult counts the entries of one translation file.
type AuditResult struct {
	MsgIDs  int
	MsgStrs int
}

// LoadCatalog parses every <lang>.popie file in fsys.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	files, err := fs.Glob(fsys, "*.popie")
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		strings: make(map[string]map[string]string, len(files)),
		audit:   make(map[string]AuditResult, len(files)),
	}
	for _, name := range files {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, err
		}
		lang := strings.TrimSuffix(path.Base(name), ".popie")
		entries, audit, err := ParsePopie(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		c.strings[lang] = entries
		c.audit[lang] = audit
	}

	return c, nil
}

// ParsePopie reads "msgid <key>" / "msgstr <value>" pairs. Empty msgstr
// lines leave the key untranslated.
func ParsePopie(r io.Reader) (map[string]string, AuditResult, error) {
	entries := make(map[string]string)
	var audit AuditResult
	var msgid string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "msgid"):
			msgid = strings.TrimSpace(strings.TrimPrefix(line, "msgid"))
			audit.MsgIDs++
		case strings.HasPrefix(line, "msgstr"):
			msgstr := strings.TrimSpace(strings.TrimPrefix(line, "msgstr"))
			if msgstr != "" {
				entries[msgid] = msgstr
				audit.MsgStrs++
			}
		}
	}

	return entries, audit, scanner.Err()
}

var defaultCatalog = mustLoadDefault()

func mustLoadDefault() *Catalog {
	sub, err := fs.Sub(catalogFS, "po")
	if err != nil {
		panic(err)
	}
	c, err := LoadCatalog(sub)
	if err != nil {
		panic(err)
	}

	return c
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Languages returns the source language followed by every translated one.
func Languages() []string {
	return defaultCatalog.Languages()
}

// IsLanguage reports whether lang can be spoken.
func IsLanguage(lang string) bool {
	for _, l := range Languages() {
		if l == lang {
			return true
		}
	}

	return false
}

// Languages returns the source language followed by the catalog languages in
// alphabetical order.
func (c *Catalog) Languages() []string {
	langs := make([]string, 0, len(c.strings)+1)
	for lang := range c.strings {
		langs = append(langs, lang)
	}
	sort.Strings(langs)

	return append([]string{SourceLanguage}, langs...)
}

// Lookup returns the translation of key in lang, or key itself.
func (c *Catalog) Lookup(lang, key string) string {
	entries, ok := c.strings[lang]
	if !ok {
		return key
	}
	if value, ok := entries[key]; ok {
		return value
	}

	return key
}

// Audit returns translation statistics per language.
func (c *Catalog) Audit() map[string]AuditResult {
	out := make(map[string]AuditResult, len(c.audit))
	for lang, a := range c.audit {
		out[lang] = a
	}

	return out
}

type memberKey struct {
	guild discord.GuildID
	user  discord.UserID
}

// Translator resolves preferences and looks strings up in the catalog.
type Translator struct {
	catalog *Catalog
	store   Store
	global  GlobalLanguage
	logger  *zap.Logger

	guilds  *expirable.LRU[discord.GuildID, string]
	members *expirable.LRU[memberKey, string]
}

// NewTranslator creates a Translator.
func NewTranslator(catalog *Catalog, store Store, global GlobalLanguage, logger *zap.Logger) *Translator {
	return &Translator{
		catalog: catalog,
		store:   store,
		global:  global,
		logger:  logger.Named("i18n"),
		guilds:  expirable.NewLRU[discord.GuildID, string](preferenceCacheSize, nil, preferenceTTL),
		members: expirable.NewLRU[memberKey, string](preferenceCacheSize, nil, preferenceTTL),
	}
}

// Translate returns key in the preferred language of tc. Unknown keys and
// languages fall back to key.
func (t *Translator) Translate(ctx context.Context, tc Context, key string) string {
	return t.catalog.Lookup(t.Preference(ctx, tc), key)
}

// Translatef translates key and substitutes "{name}" placeholders with the
// given name/value pairs.
func (t *Translator) Translatef(ctx context.Context, tc Context, key string, pairs ...string) string {
	return Format(t.Translate(ctx, tc, key), pairs...)
}

// Preference returns the language for tc: the member's preference in the
// guild, then the guild's, then the global setting.
func (t *Translator) Preference(ctx context.Context, tc Context) string {
	if tc.GuildID.IsValid() && tc.UserID.IsValid() {
		if lang := t.memberLanguage(ctx, tc.GuildID, tc.UserID); lang != "" {
			return lang
		}
	}

	if tc.GuildID.IsValid() {
		if lang := t.guildLanguage(ctx, tc.GuildID); lang != "" {
			return lang
		}
	}

	if t.global == nil {
		return SourceLanguage
	}

	return t.global.Language()
}

func (t *Translator) memberLanguage(ctx context.Context, guildID discord.GuildID, userID discord.UserID) string {
	key := memberKey{guild: guildID, user: userID}
	if lang, ok := t.members.Get(key); ok {
		return lang
	}

	lang, err := t.store.MemberLanguage(ctx, guildID, userID)
	if err != nil {
		t.logger.Warn("Failed to load member language",
			zap.Stringer("guildID", guildID),
			zap.Stringer("userID", userID),
			zap.Error(err))
		return ""
	}
	t.members.Add(key, lang)

	return lang
}

func (t *Translator) guildLanguage(ctx context.Context, guildID discord.GuildID) string {
	if lang, ok := t.guilds.Get(guildID); ok {
		return lang
	}

	lang, err := t.store.GuildLanguage(ctx, guildID)
	if err != nil {
		t.logger.Warn("Failed to load guild language",
			zap.Stringer("guildID", guildID),
			zap.Error(err))
		return ""
	}
	t.guilds.Add(guildID, lang)

	return lang
}

// MemberPreference returns the stored member preference, "" when unset.
func (t *Translator) MemberPreference(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (string, error) {
	return t.store.MemberLanguage(ctx, guildID, userID)
}

// GuildPreference returns the stored guild preference, "" when unset.
func (t *Translator) GuildPreference(ctx context.Context, guildID discord.GuildID) (string, error) {
	return t.store.GuildLanguage(ctx, guildID)
}

// SetMemberPreference stores lang for the member. The change applies at once.
func (t *Translator) SetMemberPreference(ctx context.Context, guildID discord.GuildID, userID discord.UserID, lang string) error {
	if !IsLanguage(lang) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if err := t.store.SetMemberLanguage(ctx, guildID, userID, lang); err != nil {
		return err
	}
	t.members.Remove(memberKey{guild: guildID, user: userID})

	return nil
}

// UnsetMemberPreference removes the member preference. It reports whether
// there was one.
func (t *Translator) UnsetMemberPreference(ctx context.Context, guildID discord.GuildID, userID discord.UserID) (bool, error) {
	removed, err := t.store.UnsetMemberLanguage(ctx, guildID, userID)
	if err != nil {
		return false, err
	}
	t.members.Remove(memberKey{guild: guildID, user: userID})

	return removed, nil
}

// SetGuildPreference stores lang for the guild.
func (t *Translator) SetGuildPreference(ctx context.Context, guildID discord.GuildID, lang string) error {
	if !IsLanguage(lang) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if err := t.store.SetGuildLanguage(ctx, guildID, lang); err != nil {
		return err
	}
	t.guilds.Remove(guildID)

	return nil
}

// UnsetGuildPreference removes the guild preference.
func (t *Translator) UnsetGuildPreference(ctx context.Context, guildID discord.GuildID) (bool, error) {
	removed, err := t.store.UnsetGuildLanguage(ctx, guildID)
	if err != nil {
		return false, err
	}
	t.guilds.Remove(guildID)

	return removed, nil
}

// Audit returns translation statistics per language.
func (t *Translator) Audit() map[string]AuditResult {
	return t.catalog.Audit()
}

// Format replaces "{name}" placeholders. pairs alternate name and value.
func Format(s string, pairs ...string) string {
	if len(pairs) < 2 {
		return s
	}

	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}

	return strings.NewReplacer(oldnew...).Replace(s)
}
