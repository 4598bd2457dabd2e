package catalog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// DefaultImageBase is where poster paths are resolved against
const DefaultImageBase = "https://image.tmdb.org/t/p/w342"

// Parser extracts catalog values from TMDB-style JSON
type Parser struct {
	imageBase string
}

// NewParser creates a parser resolving poster paths against imageBase
func NewParser(imageBase string) *Parser {
	if imageBase == "" {
		imageBase = DefaultImageBase
	}
	return &Parser{imageBase: strings.TrimRight(imageBase, "/")}
}

// ParseSearch converts a search response into suggestions, preserving provider order.
// Entries that aren't movies or shows, or that lack an id or title, are skipped.
func (p *Parser) ParseSearch(path string, data []byte) ([]Suggestion, error) {
	results, dataType, _, err := jsonparser.Get(data, "results")
	if err != nil {
		return nil, &MalformedResponseError{Path: path, Err: err}
	}
	if dataType != jsonparser.Array {
		return nil, &MalformedResponseError{Path: path, Err: errors.New("results is not an array")}
	}

	suggestions := make([]Suggestion, 0)
	var elemErr error
	_, err = jsonparser.ArrayEach(results, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if err != nil {
			elemErr = err
			return
		}
		if dataType != jsonparser.Object {
			return
		}
		if s, ok := p.parseSuggestion(value, ""); ok {
			suggestions = append(suggestions, s)
		}
	})
	if err == nil {
		err = elemErr
	}
	if err != nil {
		return nil, &MalformedResponseError{Path: path, Err: err}
	}

	return suggestions, nil
}

// ParseDetails converts a /movie/{id} or /tv/{id} document
func (p *Parser) ParseDetails(path string, kind Kind, data []byte) (*Details, error) {
	s, ok := p.parseSuggestion(data, kind)
	if !ok {
		return nil, &MalformedResponseError{Path: path, Err: errors.New("missing id or title")}
	}

	details := &Details{Suggestion: s}
	details.Overview, _ = jsonparser.GetString(data, "overview")
	details.Rating, _ = jsonparser.GetFloat(data, "vote_average")

	jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, offset int, err error) {
		if name, err := jsonparser.GetString(value, "name"); err == nil && name != "" {
			details.Genres = append(details.Genres, name)
		}
	}, "genres")

	switch kind {
	case KindMovie:
		if runtime, err := jsonparser.GetInt(data, "runtime"); err == nil {
			details.Runtime = int(runtime)
		}
	case KindShow:
		if seasons, err := jsonparser.GetInt(data, "number_of_seasons"); err == nil {
			details.Seasons = int(seasons)
		}
	}

	return details, nil
}

// parseSuggestion reads one result object. kind overrides media_type when set.
func (p *Parser) parseSuggestion(data []byte, kind Kind) (Suggestion, bool) {
	if kind == "" {
		mediaType, _ := jsonparser.GetString(data, "media_type")
		var ok bool
		if kind, ok = ParseKind(mediaType); !ok {
			return Suggestion{}, false
		}
	}

	id, err := jsonparser.GetInt(data, "id")
	if err != nil || id <= 0 {
		return Suggestion{}, false
	}

	// Movies carry title/release_date, shows carry name/first_air_date
	titleKeys := []string{"title", "name"}
	dateKeys := []string{"release_date", "first_air_date"}
	if kind == KindShow {
		titleKeys = []string{"name", "title"}
		dateKeys = []string{"first_air_date", "release_date"}
	}

	title := p.firstString(data, titleKeys...)
	if title == "" {
		return Suggestion{}, false
	}

	return Suggestion{
		ID:        id,
		Kind:      kind,
		Title:     title,
		Year:      parseYear(p.firstString(data, dateKeys...)),
		PosterURL: p.posterURL(data),
	}, true
}

func (p *Parser) firstString(data []byte, keys ...string) string {
	for _, k := range keys {
		if v, err := jsonparser.GetString(data, k); err == nil {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func (p *Parser) posterURL(data []byte) string {
	posterPath, err := jsonparser.GetString(data, "poster_path")
	if err != nil || posterPath == "" {
		return ""
	}
	if strings.HasPrefix(posterPath, "http://") || strings.HasPrefix(posterPath, "https://") {
		return posterPath
	}
	if posterPath[0] != '/' {
		posterPath = "/" + posterPath
	}
	return p.imageBase + posterPath
}

// parseYear takes the year from an ISO date ("2010-07-15"); 0 if absent
func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}
