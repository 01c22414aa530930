package providers

import (
	"context"
	"net/url"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

const nekobotURL = "https://nekobot.xyz/api/image"

var nekobotTypes = map[models.Theme]string{
	models.ThemeCatgirl: "neko",
	models.ThemeNeko:    "neko",
}

// Nekobot adapts nekobot.xyz, which returns the image URL in a "message"
// field and a success flag.
type Nekobot struct {
	client *Client
	logger logger.Logger
}

// NewNekobot creates the nekobot adapter.
func NewNekobot(client *Client, log logger.Logger) *Nekobot {
	return &Nekobot{client: client, logger: log}
}

func (p *Nekobot) Name() string { return "nekobot" }

func (p *Nekobot) Capabilities() Capability {
	return Capability{
		Themes:       []models.Theme{models.ThemeCatgirl, models.ThemeNeko},
		Ratings:      []models.UserRating{models.UserRatingAny, models.UserRatingSafe},
		RatingFilter: false,
		RatingNotes:  "any|safe",
	}
}

type nekobotPayload struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (p *Nekobot) Fetch(ctx context.Context, req FetchRequest) ([]models.RemoteImage, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	caps := p.Capabilities()
	if !caps.SupportsTheme(req.Theme) || !caps.SupportsRating(req.Rating) {
		return nil, nil
	}

	params := url.Values{}
	params.Set("type", nekobotTypes[req.Theme])

	candidates := make([]models.RemoteImage, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		var payload nekobotPayload
		if err := p.client.GetJSON(ctx, nekobotURL, params, nil, &payload); err != nil {
			p.logger.WithError(err).Warn("nekobot request failed")
			continue
		}
		if payload.Success != nil && !*payload.Success {
			p.logger.Warn("nekobot response indicated failure")
			continue
		}
		if payload.Message == "" {
			p.logger.Warn("nekobot payload missing message URL")
			continue
		}
		candidates = append(candidates, models.RemoteImage{
			Provider: p.Name(),
			Theme:    req.Theme,
			URL:      payload.Message,
			Rating:   models.RatingSafe,
			Tags:     []string{string(req.Theme), "nekobot"},
		})
	}
	return candidates, nil
}
