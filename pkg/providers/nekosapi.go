package providers

import (
	"context"
	"net/url"
	"strconv"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

const nekosAPIURL = "https://api.nekosapi.com/v4/images/random"

// NekosAPI adapts api.nekosapi.com, the only catgirl source with a real
// server-side rating filter.
type NekosAPI struct {
	client *Client
	logger logger.Logger
}

// NewNekosAPI creates the nekosapi adapter.
func NewNekosAPI(client *Client, log logger.Logger) *NekosAPI {
	return &NekosAPI{client: client, logger: log}
}

func (p *NekosAPI) Name() string { return "nekosapi" }

func (p *NekosAPI) Capabilities() Capability {
	return Capability{
		Themes:       []models.Theme{models.ThemeCatgirl},
		Ratings:      models.UserRatings,
		RatingFilter: true,
		RatingNotes:  "safe|suggestive|borderline|explicit",
	}
}

type nekosAPIItem struct {
	URL    string   `json:"url"`
	Rating string   `json:"rating"`
	Tags   []string `json:"tags"`
}

type nekosAPIPayload struct {
	Value []nekosAPIItem `json:"value"`
}

func (p *NekosAPI) Fetch(ctx context.Context, req FetchRequest) ([]models.RemoteImage, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	if !p.Capabilities().SupportsTheme(req.Theme) {
		return nil, nil
	}

	params := url.Values{}
	params.Set("tags", string(req.Theme))
	params.Set("limit", strconv.Itoa(req.Count))
	if req.Rating != models.UserRatingAny {
		params.Set("rating", string(req.Rating))
	}

	var payload nekosAPIPayload
	if err := p.client.GetJSON(ctx, nekosAPIURL, params, nil, &payload); err != nil {
		return nil, err
	}

	candidates := make([]models.RemoteImage, 0, len(payload.Value))
	for _, item := range payload.Value {
		if item.URL == "" {
			continue
		}
		candidates = append(candidates, models.RemoteImage{
			Provider: p.Name(),
			Theme:    req.Theme,
			URL:      item.URL,
			Rating:   models.NormalizeRating(item.Rating),
			Tags:     item.Tags,
		})
	}
	return candidates, nil
}
