// Package i18n loads the bot's user-facing texts from embedded YAML locale
// files and resolves Telegram language codes to supported languages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/qamqor/screening-bot/internal/domain"
	"github.com/qamqor/screening-bot/internal/service/survey/scoring"
)

//go:embed locales/*.yaml
var embeddedFS embed.FS

// Vars are substituted into {name} placeholders by Format.
type Vars map[string]any

type localeFile struct {
	Language    string                    `yaml:"language"`
	Name        string                    `yaml:"name"`
	Answers     []string                  `yaml:"answers"`
	Messages    map[string]string         `yaml:"messages"`
	Instruments map[string]instrumentText `yaml:"instruments"`
}

type instrumentText struct {
	Title     string              `yaml:"title"`
	Prompt    string              `yaml:"prompt"`
	Questions []string            `yaml:"questions"`
	Bands     map[string]bandText `yaml:"bands"`
}

type bandText struct {
	Label          string `yaml:"label"`
	Recommendation string `yaml:"recommendation"`
}

// Catalog holds every locale. It is read-only after Load and safe for
// concurrent use.
type Catalog struct {
	locales     map[domain.Language]*localeFile
	defaultLang domain.Language
	matcher     language.Matcher
	tags        []domain.Language
}

// Load reads the embedded locales.
func Load(defaultLang domain.Language) (*Catalog, error) {
	return LoadFS(embeddedFS, "locales", defaultLang)
}

// LoadFS reads every *.yaml file in dir of fsys and validates it.
func LoadFS(fsys fs.FS, dir string, defaultLang domain.Language) (*Catalog, error) {
	paths, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found in %s", dir)
	}
	sort.Strings(paths)

	c := &Catalog{locales: make(map[domain.Language]*localeFile), defaultLang: defaultLang}

	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		var lf localeFile
		if err := yaml.Unmarshal(data, &lf); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", p, err)
		}
		lang := domain.Language(strings.TrimSpace(lf.Language))
		if want := strings.TrimSuffix(path.Base(p), ".yaml"); string(lang) != want {
			return nil, fmt.Errorf("locale %s: language %q must match file name", p, lang)
		}
		if err := validate(lang, &lf); err != nil {
			return nil, err
		}
		c.locales[lang] = &lf
	}

	if _, ok := c.locales[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q has no locale", defaultLang)
	}

	// The default language goes first so unmatched codes fall back to it.
	c.tags = []domain.Language{defaultLang}
	for _, l := range domain.SupportedLanguages() {
		if _, ok := c.locales[l]; ok && l != defaultLang {
			c.tags = append(c.tags, l)
		}
	}
	langTags := make([]language.Tag, len(c.tags))
	for i, l := range c.tags {
		langTags[i] = tagOf(l)
	}
	c.matcher = language.NewMatcher(langTags)

	return c, nil
}

// requiredMessages must be present in every locale.
var requiredMessages = []string{"result_summary", "general_wish", "critical_warning"}

func validate(lang domain.Language, lf *localeFile) error {
	if !lang.IsValid() {
		return fmt.Errorf("locale %q: unsupported language", lang)
	}
	for _, key := range requiredMessages {
		if lf.Messages[key] == "" {
			return fmt.Errorf("locale %s: message %s missing", lang, key)
		}
	}
	if len(lf.Answers) != domain.MaxAnswer-domain.MinAnswer+1 {
		return fmt.Errorf("locale %s: want %d answer labels, got %d", lang, domain.MaxAnswer-domain.MinAnswer+1, len(lf.Answers))
	}
	for _, inst := range []domain.Instrument{domain.InstrumentGAD7, domain.InstrumentPHQ9} {
		it, ok := lf.Instruments[string(inst)]
		if !ok {
			return fmt.Errorf("locale %s: instrument %s missing", lang, inst)
		}
		if len(it.Questions) != inst.ItemCount() {
			return fmt.Errorf("locale %s: %s has %d questions, want %d", lang, inst, len(it.Questions), inst.ItemCount())
		}
		for _, th := range scoring.Bands(inst) {
			bt, ok := it.Bands[string(th.Band)]
			if !ok || bt.Label == "" || bt.Recommendation == "" {
				return fmt.Errorf("locale %s: %s band %s incomplete", lang, inst, th.Band)
			}
		}
	}
	return nil
}

// tagOf maps our language codes to BCP 47. Kazakh is "kk"; "kz" is the country.
func tagOf(l domain.Language) language.Tag {
	if l == domain.LanguageKazakh {
		return language.Kazakh
	}
	return language.Make(string(l))
}

// DefaultLanguage is used for unknown users and for admin texts.
func (c *Catalog) DefaultLanguage() domain.Language { return c.defaultLang }

// Languages returns the loaded languages, default first.
func (c *Catalog) Languages() []domain.Language {
	return append([]domain.Language(nil), c.tags...)
}

// Name returns the language's own name for the language picker.
func (c *Catalog) Name(lang domain.Language) string {
	if lf, ok := c.locales[lang]; ok && lf.Name != "" {
		return lf.Name
	}
	return string(lang)
}

// Match maps a Telegram language_code (IETF tag such as "kk", "ru-RU") to the
// closest supported language.
func (c *Catalog) Match(code string) domain.Language {
	code = strings.TrimSpace(code)
	if code == "" {
		return c.defaultLang
	}
	if l := domain.Language(strings.ToLower(code)); l.IsValid() {
		if _, ok := c.locales[l]; ok {
			return l
		}
	}
	tag, err := language.Parse(code)
	if err != nil {
		return c.defaultLang
	}
	_, idx, conf := c.matcher.Match(tag)
	if conf == language.No {
		return c.defaultLang
	}
	return c.tags[idx]
}

func (c *Catalog) locale(lang domain.Language) *localeFile {
	if lf, ok := c.locales[lang]; ok {
		return lf
	}
	return c.locales[c.defaultLang]
}

// Text returns the message for key, falling back to the default language and
// finally to the key itself.
func (c *Catalog) Text(lang domain.Language, key string) string {
	if s, ok := c.locale(lang).Messages[key]; ok {
		return s
	}
	if s, ok := c.locales[c.defaultLang].Messages[key]; ok {
		return s
	}
	return key
}

// Format returns Text with {name} placeholders replaced from vars.
func (c *Catalog) Format(lang domain.Language, key string, vars Vars) string {
	return substitute(c.Text(lang, key), vars)
}

func substitute(s string, vars Vars) string {
	if len(vars) == 0 {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// AnswerLabels returns the labels of answers 0..3.
func (c *Catalog) AnswerLabels(lang domain.Language) []string {
	return append([]string(nil), c.locale(lang).Answers...)
}

// Title returns the instrument's display name.
func (c *Catalog) Title(lang domain.Language, inst domain.Instrument) string {
	return c.locale(lang).Instruments[string(inst)].Title
}

// Prompt returns the instruction shown above every question.
func (c *Catalog) Prompt(lang domain.Language, inst domain.Instrument) string {
	return c.locale(lang).Instruments[string(inst)].Prompt
}

// Questions returns all question texts of inst.
func (c *Catalog) Questions(lang domain.Language, inst domain.Instrument) []string {
	return append([]string(nil), c.locale(lang).Instruments[string(inst)].Questions...)
}

// Question returns the text of question idx, or "" when out of range.
func (c *Catalog) Question(lang domain.Language, inst domain.Instrument, idx int) string {
	qs := c.locale(lang).Instruments[string(inst)].Questions
	if idx < 0 || idx >= len(qs) {
		return ""
	}
	return qs[idx]
}

// BandLabel returns the localized severity label.
func (c *Catalog) BandLabel(lang domain.Language, inst domain.Instrument, band domain.Band) string {
	if bt, ok := c.locale(lang).Instruments[string(inst)].Bands[string(band)]; ok {
		return bt.Label
	}
	return string(band)
}

// Recommendation returns the advice shown with a result.
func (c *Catalog) Recommendation(lang domain.Language, inst domain.Instrument, band domain.Band) string {
	return c.locale(lang).Instruments[string(inst)].Bands[string(band)].Recommendation
}

// ResultSummary composes the completion message: score, band label,
// recommendation and the closing remark. The critical warning is appended
// when the PHQ-9 self-harm item was answered 2 or higher.
func (c *Catalog) ResultSummary(lang domain.Language, inst domain.Instrument, total int, band domain.Band, critical bool) string {
	s := c.Format(lang, "result_summary", Vars{
		"title":          c.Title(lang, inst),
		"score":          total,
		"max":            inst.MaxScore(),
		"level":          c.BandLabel(lang, inst, band),
		"recommendation": c.Recommendation(lang, inst, band),
		"general_wish":   c.Text(lang, "general_wish"),
	})
	if critical {
		s += "\n\n" + c.Text(lang, "critical_warning")
	}
	return s
}
