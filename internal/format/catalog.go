package format

import (
	"fmt"
	"strings"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Month and weekday names come from monday's locale tables. The first
// locale is the fallback for languages monday does not carry.
var nameLocales, nameMatcher = newNameMatcher()

func newNameMatcher() ([]monday.Locale, language.Matcher) {
	locales := []monday.Locale{monday.LocaleEnUS}
	for _, l := range monday.ListLocales() {
		if l != monday.LocaleEnUS {
			locales = append(locales, l)
		}
	}
	tags := make([]language.Tag, len(locales))
	for i, l := range locales {
		tags[i] = language.Make(strings.ReplaceAll(string(l), "_", "-"))
	}
	return locales, language.NewMatcher(tags)
}

// nameLocale returns the monday locale closest to tag.
func nameLocale(tag language.Tag) monday.Locale {
	_, i, conf := nameMatcher.Match(tag)
	if conf == language.No {
		return monday.LocaleEnUS
	}
	return nameLocales[i]
}

var (
	eraNames  = []string{"BC", "AD"}
	ampmNames = []string{"AM", "PM"}
)

// Era and AM/PM markers are not in monday and go through an x/text
// catalog. Each language lists its eras then its markers; a nil table keeps
// the English names.
const (
	tableEra = iota
	tableAmPm
)

var tablePrefixes = []string{"era:", "ampm:"}

var englishTables = [][]string{eraNames, ampmNames}

var translations = map[language.Tag][][]string{
	language.German:   {{"v. Chr.", "n. Chr."}, nil},
	language.French:   {{"av. J.-C.", "ap. J.-C."}, nil},
	language.Spanish:  {{"a. C.", "d. C."}, {"a. m.", "p. m."}},
	language.Italian:  {{"a.C.", "d.C."}, nil},
	language.Dutch:    {{"v.Chr.", "n.Chr."}, {"a.m.", "p.m."}},
	language.Japanese: {{"紀元前", "西暦"}, {"午前", "午後"}},
}

func newCatalog(tr map[language.Tag][][]string) (catalog.Catalog, error) {
	b := catalog.NewBuilder()
	for tag, tables := range tr {
		if len(tables) > len(englishTables) {
			return nil, fmt.Errorf("%s: %d tables, want at most %d", tag, len(tables), len(englishTables))
		}
		for i, table := range tables {
			if table == nil {
				continue
			}
			if len(table) != len(englishTables[i]) {
				return nil, fmt.Errorf("%s: %s table has %d names, want %d",
					tag, strings.TrimSuffix(tablePrefixes[i], ":"), len(table), len(englishTables[i]))
			}
			for j, name := range table {
				key := tablePrefixes[i] + englishTables[i][j]
				if err := b.SetString(tag, key, name); err != nil {
					return nil, fmt.Errorf("%s: %s: %w", tag, key, err)
				}
			}
		}
	}
	return b, nil
}

func mustCatalog(tr map[language.Tag][][]string) catalog.Catalog {
	c, err := newCatalog(tr)
	if err != nil {
		panic("format: " + err.Error())
	}
	return c
}

var names = mustCatalog(translations)

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(names))
}

// localName returns entry j of table i in the printer's language, falling
// back to English when the catalog has no translation.
func localName(p *message.Printer, i, j int) string {
	english := englishTables[i][j]
	key := tablePrefixes[i] + english
	if s := p.Sprintf(key); s != key {
		return s
	}
	return english
}
