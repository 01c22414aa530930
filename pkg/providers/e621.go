package providers

import (
	"context"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

const (
	e621URL              = "https://e621.net/posts.json"
	e621DefaultUserAgent = "catgirl-cli/1.0 (set E621_USER_AGENT in .env)"
	e621MaxLimit         = 320
	e621RandomPageMax    = 100
	randomPoolMultiplier = 8
	maxCandidateTags     = 32
)

var e621RatingTags = map[models.UserRating]string{
	models.UserRatingSafe:       "rating:s",
	models.UserRatingSuggestive: "rating:q",
	models.UserRatingBorderline: "rating:q",
	models.UserRatingExplicit:   "rating:e",
}

var booruRatingMap = map[string]models.Rating{
	"s":            models.RatingSafe,
	"q":            models.RatingSuggestive,
	"e":            models.RatingExplicit,
	"safe":         models.RatingSafe,
	"questionable": models.RatingSuggestive,
	"explicit":     models.RatingExplicit,
}

// E621 adapts e621.net tag search. Randomize jumps to a random page with an
// oversized pool and shuffles; an empty random page falls back to an
// un-paged request.
type E621 struct {
	client    *Client
	logger    logger.Logger
	userAgent string
}

// NewE621 creates the e621 adapter. An empty userAgent falls back to a
// default that asks the user to configure one.
func NewE621(client *Client, userAgent string, log logger.Logger) *E621 {
	if userAgent == "" {
		userAgent = e621DefaultUserAgent
	}
	return &E621{client: client, logger: log, userAgent: userAgent}
}

func (p *E621) Name() string { return "e621" }

func (p *E621) Capabilities() Capability {
	return Capability{
		Themes:       []models.Theme{models.ThemeFemboy},
		Ratings:      models.UserRatings,
		RatingFilter: true,
		RatingNotes:  "any|safe|suggestive|borderline|explicit",
	}
}

type e621Post struct {
	File struct {
		URL string `json:"url"`
	} `json:"file"`
	Rating string              `json:"rating"`
	Tags   map[string][]string `json:"tags"`
}

type e621Payload struct {
	Posts []e621Post `json:"posts"`
}

func (p *E621) Fetch(ctx context.Context, req FetchRequest) ([]models.RemoteImage, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	if !p.Capabilities().SupportsTheme(req.Theme) {
		return nil, nil
	}

	tags := []string{string(req.Theme)}
	if ratingTag := e621RatingTags[req.Rating]; ratingTag != "" {
		tags = append(tags, ratingTag)
	}

	requestLimit := req.Count
	if req.Randomize {
		requestLimit = min(e621MaxLimit, req.Count*randomPoolMultiplier)
	}

	params := url.Values{}
	params.Set("tags", strings.Join(tags, " "))
	params.Set("limit", strconv.Itoa(requestLimit))
	if req.Randomize {
		params.Set("page", strconv.Itoa(1+rand.IntN(e621RandomPageMax)))
	}
	headers := map[string]string{"User-Agent": p.userAgent}

	var payload e621Payload
	if err := p.client.GetJSON(ctx, e621URL, params, headers, &payload); err != nil {
		return nil, err
	}

	candidates := p.parsePosts(payload.Posts, req.Theme)
	if req.Randomize && len(candidates) == 0 {
		// The random page may be past the end of the result set.
		params.Del("page")
		if err := p.client.GetJSON(ctx, e621URL, params, headers, &payload); err != nil {
			return nil, err
		}
		candidates = p.parsePosts(payload.Posts, req.Theme)
	}

	if req.Randomize {
		rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}
	if len(candidates) > req.Count {
		candidates = candidates[:req.Count]
	}
	return candidates, nil
}

func (p *E621) parsePosts(posts []e621Post, theme models.Theme) []models.RemoteImage {
	candidates := make([]models.RemoteImage, 0, len(posts))
	for _, post := range posts {
		if post.File.URL == "" {
			continue
		}

		tags := []string{string(theme), "e621"}
		for _, group := range post.Tags {
			tags = append(tags, group...)
			if len(tags) > maxCandidateTags {
				break
			}
		}
		if len(tags) > maxCandidateTags {
			tags = tags[:maxCandidateTags]
		}

		rating := models.RatingUnknown
		if mapped, ok := booruRatingMap[post.Rating]; ok {
			rating = mapped
		}

		candidates = append(candidates, models.RemoteImage{
			Provider: p.Name(),
			Theme:    theme,
			URL:      post.File.URL,
			Rating:   rating,
			Tags:     tags,
		})
	}
	return candidates
}
