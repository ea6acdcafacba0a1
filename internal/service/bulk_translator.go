package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portfolio-cms/internal/data"
	"portfolio-cms/internal/logger"
	"portfolio-cms/internal/richtext"
	"portfolio-cms/internal/translate"
)

// DefaultPace is the wait after each provider call.
const DefaultPace = 250 * time.Millisecond

// BulkResult reports the outcome of a bulk translation run.
type BulkResult struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// BulkTranslator translates the default-language fields of projects into
// every other active language.
type BulkTranslator struct {
	projects  ProjectRepository
	languages LanguageRepository
	provider  translate.Provider
	log       logger.Logger
	pace      time.Duration
	sleep     func(ctx context.Context, d time.Duration)
}

// NewBulkTranslator creates a new BulkTranslator. A zero pace uses DefaultPace.
func NewBulkTranslator(projects ProjectRepository, languages LanguageRepository, provider translate.Provider, pace time.Duration, log logger.Logger) *BulkTranslator {
	if pace <= 0 {
		pace = DefaultPace
	}
	return &BulkTranslator{
		projects:  projects,
		languages: languages,
		provider:  provider,
		log:       log,
		pace:      pace,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// TranslateProjects runs the projects one after the other. Per-project
// failures are reported in the result and never stop the batch.
func (b *BulkTranslator) TranslateProjects(ctx context.Context, projectIDs []string) (*BulkResult, error) {
	if len(projectIDs) == 0 {
		return nil, invalid("Invalid project IDs")
	}
	for _, id := range projectIDs {
		if strings.TrimSpace(id) == "" {
			return nil, invalid("Invalid project IDs")
		}
	}

	all, err := b.languages.List(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]data.Language, 0, len(all))
	for _, l := range all {
		if l.IsActive {
			active = append(active, l)
		}
	}
	def, targets := splitDefault(active)
	if def == nil {
		return nil, invalid("No default language found")
	}
	if len(targets) == 0 {
		return nil, invalid("No target languages available")
	}
	if !b.provider.IsConfigured() {
		return nil, invalid("Translation service is not configured")
	}

	res := &BulkResult{Total: len(projectIDs), Errors: []string{}}
	for _, id := range projectIDs {
		if err := b.translateProject(ctx, id, *def, targets); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err.Error())
			b.log.Warn(err.Error())
			continue
		}
		res.Success++
	}
	b.log.Info(fmt.Sprintf("bulk translation finished: %d succeeded, %d failed", res.Success, res.Failed))
	return res, nil
}

func (b *BulkTranslator) translateProject(ctx context.Context, id string, def data.Language, targets []data.Language) error {
	project, err := b.projects.Get(ctx, id)
	if errors.Is(err, data.ErrNotFound) {
		return fmt.Errorf("Project %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("Project %s: %v", id, err)
	}
	source, ok := project.TranslationFor(def.ID)
	if !ok {
		return fmt.Errorf("Project %s has no default language translation", id)
	}

	codes := make([]string, len(targets))
	for i, l := range targets {
		codes[i] = l.Code
	}
	log := b.log.With(map[string]interface{}{"project": id})

	var titles map[string]string
	if source.Title != "" {
		titles = b.call(ctx, log, "title", source.Title, def.Code, codes)
	}

	descriptions := map[string]richtext.Document{}
	if text := richtext.PlainText(source.Description); strings.TrimSpace(text) != "" {
		for code, translated := range b.call(ctx, log, "description", text, def.Code, codes) {
			if doc, ok := richtext.FromPlainText(translated); ok {
				descriptions[code] = doc
			}
		}
	}

	materials := map[string][]string{}
	if len(source.Materials) > 0 {
		joined := strings.Join(source.Materials, ", ")
		for code, translated := range b.call(ctx, log, "materials", joined, def.Code, codes) {
			materials[code] = splitMaterials(translated)
		}
	}

	merged := make([]data.ProjectTranslation, 0, len(project.Translations)+len(targets))
	targeted := make(map[string]bool, len(targets))
	for _, lang := range targets {
		targeted[lang.ID] = true
		existing, hasExisting := project.TranslationFor(lang.ID)
		t := data.ProjectTranslation{LanguageID: lang.ID}

		switch {
		case titles[lang.Code] != "":
			t.Title = titles[lang.Code]
		case hasExisting && existing.Title != "":
			t.Title = existing.Title
		default:
			t.Title = source.Title
		}
		switch doc, ok := descriptions[lang.Code]; {
		case ok:
			t.Description = doc
		case hasExisting && !existing.Description.IsZero():
			t.Description = existing.Description
		default:
			t.Description = source.Description
		}
		switch list := materials[lang.Code]; {
		case len(list) > 0:
			t.Materials = list
		case hasExisting && len(existing.Materials) > 0:
			t.Materials = existing.Materials
		default:
			t.Materials = source.Materials
		}
		merged = append(merged, t)
	}
	for _, t := range project.Translations {
		if !targeted[t.LanguageID] {
			merged = append(merged, data.ProjectTranslation{
				LanguageID:  t.LanguageID,
				Title:       t.Title,
				Description: t.Description,
				Materials:   t.Materials,
			})
		}
	}

	if err := b.projects.ReplaceTranslations(ctx, id, merged); err != nil {
		return fmt.Errorf("Project %s: %v", id, err)
	}
	return nil
}

// call translates one field. Provider errors are logged and yield no
// translations for the field.
func (b *BulkTranslator) call(ctx context.Context, log logger.Logger, field, text, source string, targets []string) map[string]string {
	out, err := b.provider.TranslateText(ctx, text, source, targets)
	b.sleep(ctx, b.pace)
	if err != nil {
		log.Error(err, fmt.Sprintf("failed to translate %s", field))
		return nil
	}
	return out
}

func splitMaterials(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if m := strings.TrimSpace(part); m != "" {
			out = append(out, m)
		}
	}
	return out
}
