package content

import (
	"context"

	"github.com/rs/zerolog"

	"wedding-site/internal/dataclient"
	"wedding-site/models"
)

// Loader fetches a section's override rows and merges them over the
// section defaults.
type Loader struct {
	client *dataclient.Client
	log    zerolog.Logger
}

func NewLoader(client *dataclient.Client, log zerolog.Logger) *Loader {
	return &Loader{client: client, log: log}
}

// LoadSection returns the section's resolved content. Fetch errors are
// logged and the defaults returned unchanged; the visitor never sees an
// error for a content lookup.
func (l *Loader) LoadSection(ctx context.Context, section string) map[string]any {
	defaults := Defaults(section)

	var rows []models.WebContent
	err := l.client.From("web_content").
		Select("key, value, type").
		Eq("section", section).
		Get(ctx, &rows)
	if err != nil {
		l.log.Error().Err(err).Str("section", section).Msg("fetching section content")
		return defaults
	}

	return Merge(defaults, rows)
}
