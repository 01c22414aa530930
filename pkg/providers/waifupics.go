package providers

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

const waifuPicsBase = "https://api.waifu.pics"

var waifuPicsEndpoints = map[models.Theme]string{
	models.ThemeCatgirl: "neko",
	models.ThemeNeko:    "neko",
	models.ThemeFemboy:  "trap",
}

// WaifuPics adapts api.waifu.pics. The API returns one random image per
// request, so count images mean count requests; the randomize flag is
// already satisfied by the server and ignored.
type WaifuPics struct {
	client *Client
	logger logger.Logger
}

// NewWaifuPics creates the waifu.pics adapter.
func NewWaifuPics(client *Client, log logger.Logger) *WaifuPics {
	return &WaifuPics{client: client, logger: log}
}

func (p *WaifuPics) Name() string { return "waifu_pics" }

func (p *WaifuPics) Capabilities() Capability {
	return Capability{
		Themes:       []models.Theme{models.ThemeCatgirl, models.ThemeNeko, models.ThemeFemboy},
		Ratings:      []models.UserRating{models.UserRatingAny, models.UserRatingSafe, models.UserRatingExplicit},
		RatingFilter: true,
		RatingNotes:  "any|safe|explicit",
	}
}

type waifuPicsPayload struct {
	URL string `json:"url"`
}

// Fetch requests count images one at a time. Femboy content only exists in
// the nsfw pool, so a safe femboy request yields zero results.
func (p *WaifuPics) Fetch(ctx context.Context, req FetchRequest) ([]models.RemoteImage, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	caps := p.Capabilities()
	if !caps.SupportsTheme(req.Theme) || !caps.SupportsRating(req.Rating) {
		return nil, nil
	}
	if req.Theme == models.ThemeFemboy && req.Rating == models.UserRatingSafe {
		p.logger.Debug("waifu_pics has no safe pool for femboy, returning nothing")
		return nil, nil
	}

	endpointTheme := waifuPicsEndpoints[req.Theme]
	candidates := make([]models.RemoteImage, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		var mode string
		var mapped models.Rating
		if req.Theme == models.ThemeFemboy {
			mode, mapped = "nsfw", models.RatingExplicit
		} else {
			mode, mapped = resolveWaifuPicsMode(req.Rating)
		}
		endpoint := fmt.Sprintf("%s/%s/%s", waifuPicsBase, mode, endpointTheme)

		var payload waifuPicsPayload
		if err := p.client.GetJSON(ctx, endpoint, nil, nil, &payload); err != nil {
			p.logger.WithError(err).WithField("endpoint", endpoint).Warn("waifu_pics request failed")
			continue
		}
		if payload.URL == "" {
			p.logger.WithField("endpoint", endpoint).Warn("waifu_pics payload missing url")
			continue
		}

		candidates = append(candidates, models.RemoteImage{
			Provider: p.Name(),
			Theme:    req.Theme,
			URL:      payload.URL,
			Rating:   mapped,
			Tags:     []string{endpointTheme, string(req.Theme), "waifu.pics"},
		})
	}
	return candidates, nil
}

// resolveWaifuPicsMode maps a user rating onto the sfw/nsfw pool split;
// "any" flips a coin per item.
func resolveWaifuPicsMode(rating models.UserRating) (string, models.Rating) {
	switch rating {
	case models.UserRatingExplicit:
		return "nsfw", models.RatingExplicit
	case models.UserRatingAny:
		if rand.IntN(2) == 0 {
			return "sfw", models.RatingSafe
		}
		return "nsfw", models.RatingExplicit
	default:
		return "sfw", models.RatingSafe
	}
}
