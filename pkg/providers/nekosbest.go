package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

const nekosBestBase = "https://nekos.best/api/v2"

var nekosBestEndpoints = map[models.Theme]string{
	models.ThemeCatgirl: "neko",
	models.ThemeNeko:    "neko",
	models.ThemeKitsune: "kitsune",
}

// NekosBest adapts nekos.best, a safe-only source with batch requests.
type NekosBest struct {
	client *Client
	logger logger.Logger
}

// NewNekosBest creates the nekos.best adapter.
func NewNekosBest(client *Client, log logger.Logger) *NekosBest {
	return &NekosBest{client: client, logger: log}
}

func (p *NekosBest) Name() string { return "nekos_best" }

func (p *NekosBest) Capabilities() Capability {
	return Capability{
		Themes:       []models.Theme{models.ThemeCatgirl, models.ThemeNeko, models.ThemeKitsune},
		Ratings:      []models.UserRating{models.UserRatingAny, models.UserRatingSafe},
		RatingFilter: false,
		RatingNotes:  "any|safe",
	}
}

type nekosBestPayload struct {
	Results []struct {
		URL string `json:"url"`
	} `json:"results"`
}

func (p *NekosBest) Fetch(ctx context.Context, req FetchRequest) ([]models.RemoteImage, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	caps := p.Capabilities()
	if !caps.SupportsTheme(req.Theme) || !caps.SupportsRating(req.Rating) {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/%s", nekosBestBase, nekosBestEndpoints[req.Theme])
	params := url.Values{}
	params.Set("amount", strconv.Itoa(req.Count))

	var payload nekosBestPayload
	if err := p.client.GetJSON(ctx, endpoint, params, nil, &payload); err != nil {
		return nil, err
	}

	candidates := make([]models.RemoteImage, 0, len(payload.Results))
	for _, item := range payload.Results {
		if item.URL == "" {
			continue
		}
		candidates = append(candidates, models.RemoteImage{
			Provider: p.Name(),
			Theme:    req.Theme,
			URL:      item.URL,
			Rating:   models.RatingSafe,
			Tags:     []string{string(req.Theme), "nekos.best"},
		})
	}
	return candidates, nil
}
