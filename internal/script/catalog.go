// Package script holds the read-only catalog of writing systems, their
// proficiency levels, practice characters and writing guidance.
package script

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"
)

//go:embed languages.toml
var builtin string

// Level is one proficiency level of a language.
type Level struct {
	Key           string   `toml:"key"`
	Name          string   `toml:"name"`
	Description   string   `toml:"description"`
	TipCategories []string `toml:"tip_categories"`
	Characters    []string `toml:"characters"`
}

// Language describes a writing system.
type Language struct {
	Key       string              `toml:"key"`
	Name      string              `toml:"name"`
	Script    string              `toml:"script"`
	Direction string              `toml:"direction"`
	Focus     []string            `toml:"focus"`
	Features  []string            `toml:"features"`
	Tips      map[string][]string `toml:"tips"`
	Levels    []Level             `toml:"level"`
}

// Level returns the level with the given key.
func (l Language) Level(key string) (Level, bool) {
	for _, lv := range l.Levels {
		if lv.Key == key {
			return lv, true
		}
	}
	return Level{}, false
}

// Catalog is an ordered set of languages.
type Catalog struct {
	languages []Language
	byKey     map[string]int
}

type catalogFile struct {
	Languages []Language `toml:"language"`
}

var defaultCatalog *Catalog

func init() {
	c, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("script: builtin catalog: %v", err))
	}
	defaultCatalog = c
}

// Default returns the embedded catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Parse decodes and validates a catalog in TOML form.
func Parse(data string) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	c := &Catalog{languages: f.Languages, byKey: make(map[string]int, len(f.Languages))}
	for i, l := range f.Languages {
		if l.Key == "" {
			return nil, fmt.Errorf("language %d: missing key", i)
		}
		if _, dup := c.byKey[l.Key]; dup {
			return nil, fmt.Errorf("duplicate language %q", l.Key)
		}
		if len(l.Levels) == 0 {
			return nil, fmt.Errorf("language %q: no levels", l.Key)
		}
		for _, lv := range l.Levels {
			if len(lv.Characters) == 0 {
				return nil, fmt.Errorf("language %q level %q: no characters", l.Key, lv.Key)
			}
			for _, cat := range lv.TipCategories {
				if _, ok := l.Tips[cat]; !ok {
					return nil, fmt.Errorf("language %q level %q: unknown tip category %q", l.Key, lv.Key, cat)
				}
			}
		}
		c.byKey[l.Key] = i
	}
	return c, nil
}

// Languages returns the languages in catalog order.
func (c *Catalog) Languages() []Language {
	return c.languages
}

// Language looks up a language by key.
func (c *Catalog) Language(key string) (Language, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return Language{}, false
	}
	return c.languages[i], true
}

// Level looks up a level of a language.
func (c *Catalog) Level(lang, level string) (Level, error) {
	l, ok := c.Language(lang)
	if !ok {
		return Level{}, fmt.Errorf("unknown language %q", lang)
	}
	lv, ok := l.Level(level)
	if !ok {
		return Level{}, fmt.Errorf("language %q has no level %q", lang, level)
	}
	return lv, nil
}

// Tips returns the general tips of a language followed by the tips of the
// level's categories. Unknown keys yield nil.
func (c *Catalog) Tips(lang, level string) []string {
	l, ok := c.Language(lang)
	if !ok {
		return nil
	}
	tips := append([]string(nil), l.Tips["general"]...)
	lv, ok := l.Level(level)
	if !ok {
		return tips
	}
	for _, cat := range lv.TipCategories {
		tips = append(tips, l.Tips[cat]...)
	}
	return tips
}
