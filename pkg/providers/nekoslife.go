package providers

import (
	"context"
	"fmt"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

const nekosLifeBase = "https://nekos.life/api/v2/img"

var nekosLifeEndpoints = map[models.Theme]string{
	models.ThemeCatgirl: "neko",
	models.ThemeNeko:    "neko",
	models.ThemeKitsune: "fox_girl",
}

// NekosLife adapts nekos.life, a safe-only source returning one image per
// request.
type NekosLife struct {
	client *Client
	logger logger.Logger
}

// NewNekosLife creates the nekos.life adapter.
func NewNekosLife(client *Client, log logger.Logger) *NekosLife {
	return &NekosLife{client: client, logger: log}
}

func (p *NekosLife) Name() string { return "nekos_life" }

func (p *NekosLife) Capabilities() Capability {
	return Capability{
		Themes:       []models.Theme{models.ThemeCatgirl, models.ThemeNeko, models.ThemeKitsune},
		Ratings:      []models.UserRating{models.UserRatingAny, models.UserRatingSafe},
		RatingFilter: false,
		RatingNotes:  "any|safe",
	}
}

type nekosLifePayload struct {
	URL string `json:"url"`
}

func (p *NekosLife) Fetch(ctx context.Context, req FetchRequest) ([]models.RemoteImage, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	caps := p.Capabilities()
	if !caps.SupportsTheme(req.Theme) || !caps.SupportsRating(req.Rating) {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/%s", nekosLifeBase, nekosLifeEndpoints[req.Theme])
	candidates := make([]models.RemoteImage, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		var payload nekosLifePayload
		if err := p.client.GetJSON(ctx, endpoint, nil, nil, &payload); err != nil {
			p.logger.WithError(err).WithField("endpoint", endpoint).Warn("nekos_life request failed")
			continue
		}
		if payload.URL == "" {
			p.logger.WithField("endpoint", endpoint).Warn("nekos_life payload missing url")
			continue
		}
		candidates = append(candidates, models.RemoteImage{
			Provider: p.Name(),
			Theme:    req.Theme,
			URL:      payload.URL,
			Rating:   models.RatingSafe,
			Tags:     []string{string(req.Theme), "nekos.life"},
		})
	}
	return candidates, nil
}
