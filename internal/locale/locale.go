// Package locale holds a visitor's language preference and the string
// dictionary for it.
package locale

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/koaestudio/koa-photos-backend/pkg/kv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type Language string

const (
	Spanish Language = "es"
	English Language = "en"

	Default = Spanish

	// StorageKey is the per-visitor key holding the plain language tag.
	StorageKey = "koa_language"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// Dictionary maps section -> key -> text. Nested groups are flattened into
// dotted keys ("stats.totalRevenue").
type Dictionary map[string]map[string]string

// Lookup returns the text for a dotted "section.key" path, or the path itself
// when the entry is missing.
func (d Dictionary) Lookup(section, key string) string {
	if text, ok := d[section][key]; ok {
		return text
	}
	return section + "." + key
}

//go:embed dictionary/*.yaml
var dictionaryFS embed.FS

var (
	supported    = []Language{Spanish, English}
	matcher      = language.NewMatcher([]language.Tag{language.Spanish, language.English})
	dictionaries = mustLoadDictionaries()
)

func mustLoadDictionaries() map[Language]Dictionary {
	out := make(map[Language]Dictionary, len(supported))
	for _, lang := range supported {
		data, err := dictionaryFS.ReadFile("dictionary/" + string(lang) + ".yaml")
		if err != nil {
			panic(fmt.Sprintf("locale: missing dictionary for %s: %v", lang, err))
		}
		dict, err := parseDictionary(data)
		if err != nil {
			panic(fmt.Sprintf("locale: invalid dictionary for %s: %v", lang, err))
		}
		out[lang] = dict
	}
	return out
}

func parseDictionary(data []byte) (Dictionary, error) {
	var raw map[string]map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	dict := make(Dictionary, len(raw))
	for section, entries := range raw {
		flat := make(map[string]string)
		if err := flatten(flat, "", entries); err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
		dict[section] = flat
	}
	return dict, nil
}

func flatten(out map[string]string, prefix string, entries map[string]interface{}) error {
	for key, value := range entries {
		path := prefix + key
		switch v := value.(type) {
		case map[string]interface{}:
			if err := flatten(out, path+".", v); err != nil {
				return err
			}
		case string:
			out[path] = v
		case nil:
			return fmt.Errorf("%s has no text", path)
		default:
			out[path] = fmt.Sprint(v)
		}
	}
	return nil
}

// Parse matches a BCP 47 tag ("en-US", "es-PY", "es") to a supported language.
func Parse(tag string) (Language, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}
	_, index, confidence := matcher.Match(t)
	if confidence == language.No {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, tag)
	}
	return supported[index], nil
}

// DictionaryFor returns the complete dictionary, falling back to Default.
func DictionaryFor(lang Language) Dictionary {
	if dict, ok := dictionaries[lang]; ok {
		return dict
	}
	return dictionaries[Default]
}

type Provider struct {
	kv kv.Store
}

func NewProvider(store kv.Store) *Provider {
	return &Provider{kv: store}
}

// For loads the visitor's preference. Absent or unrecognised values give
// Default.
func (p *Provider) For(ctx context.Context, visitorID string) (*Store, error) {
	s := &Store{
		kv:   p.kv,
		key:  kv.VisitorKey(visitorID, StorageKey),
		lang: Default,
	}

	raw, err := p.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if lang, err := Parse(raw); err == nil {
		s.lang = lang
	}
	return s, nil
}

type Store struct {
	kv   kv.Store
	key  string
	lang Language
}

func (s *Store) Language() Language {
	return s.lang
}

// SetLanguage switches and persists the preference.
func (s *Store) SetLanguage(ctx context.Context, tag string) (Language, error) {
	lang, err := Parse(tag)
	if err != nil {
		return s.lang, err
	}
	if err := s.kv.Set(ctx, s.key, string(lang), kv.VisitorTTL); err != nil {
		return s.lang, fmt.Errorf("failed to save language: %w", err)
	}
	s.lang = lang
	return lang, nil
}

func (s *Store) Strings() Dictionary {
	return DictionaryFor(s.lang)
}
