package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

const (
	rule34URL          = "https://api.rule34.xxx/index.php"
	rule34MaxLimit     = 100
	rule34RandomPIDMax = 200
)

var rule34RatingTags = map[models.UserRating]string{
	models.UserRatingSafe:       "rating:safe",
	models.UserRatingSuggestive: "rating:questionable",
	models.UserRatingBorderline: "rating:questionable",
	models.UserRatingExplicit:   "rating:explicit",
}

// Rule34 adapts the rule34.xxx dapi index. The API requires a user id and
// API key and answers with either a bare post list or an object wrapping it.
type Rule34 struct {
	client *Client
	logger logger.Logger
	userID string
	apiKey string
}

// NewRule34 creates the rule34 adapter with the given credentials; empty
// credentials make CheckCredentials fail.
func NewRule34(client *Client, userID, apiKey string, log logger.Logger) *Rule34 {
	return &Rule34{
		client: client,
		logger: log,
		userID: strings.TrimSpace(userID),
		apiKey: strings.TrimSpace(apiKey),
	}
}

func (p *Rule34) Name() string { return "rule34" }

func (p *Rule34) Capabilities() Capability {
	return Capability{
		Themes:       []models.Theme{models.ThemeFemboy},
		Ratings:      models.UserRatings,
		RatingFilter: true,
		RatingNotes:  "any|safe|suggestive|borderline|explicit",
	}
}

// CheckCredentials reports whether the mandatory API credentials are set.
func (p *Rule34) CheckCredentials() error {
	if p.userID == "" || p.apiKey == "" {
		return fmt.Errorf("rule34 requires RULE34_USER_ID and RULE34_API_KEY in the environment")
	}
	return nil
}

type rule34Post struct {
	FileURL    string `json:"file_url"`
	SampleURL  string `json:"sample_url"`
	PreviewURL string `json:"preview_url"`
	Rating     string `json:"rating"`
	Tags       string `json:"tags"`
}

// parseRule34Posts accepts both payload shapes the API produces: a bare
// array of posts, and {"post": [...]} or {"post": {...}}.
func parseRule34Posts(data []byte) ([]rule34Post, error) {
	var posts []rule34Post
	if err := json.Unmarshal(data, &posts); err == nil {
		return posts, nil
	}

	var wrapper struct {
		Post json.RawMessage `json:"post"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, &Error{Type: ErrorTypeParsing, Message: fmt.Sprintf("unexpected rule34 payload: %v", err)}
	}
	if len(wrapper.Post) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(wrapper.Post, &posts); err == nil {
		return posts, nil
	}
	var single rule34Post
	if err := json.Unmarshal(wrapper.Post, &single); err != nil {
		return nil, &Error{Type: ErrorTypeParsing, Message: fmt.Sprintf("unexpected rule34 post shape: %v", err)}
	}
	return []rule34Post{single}, nil
}

func (p *Rule34) Fetch(ctx context.Context, req FetchRequest) ([]models.RemoteImage, error) {
	if req.Count <= 0 {
		return nil, nil
	}
	if !p.Capabilities().SupportsTheme(req.Theme) {
		return nil, nil
	}
	if err := p.CheckCredentials(); err != nil {
		p.logger.Warn(err.Error())
		return nil, nil
	}

	tags := []string{string(req.Theme)}
	if ratingTag := rule34RatingTags[req.Rating]; ratingTag != "" {
		tags = append(tags, ratingTag)
	}

	requestLimit := req.Count
	if req.Randomize {
		requestLimit = min(rule34MaxLimit, req.Count*randomPoolMultiplier)
	}

	params := url.Values{}
	params.Set("page", "dapi")
	params.Set("s", "post")
	params.Set("q", "index")
	params.Set("json", "1")
	params.Set("limit", strconv.Itoa(requestLimit))
	params.Set("tags", strings.Join(tags, " "))
	params.Set("user_id", p.userID)
	params.Set("api_key", p.apiKey)
	if req.Randomize {
		params.Set("pid", strconv.Itoa(rand.IntN(rule34RandomPIDMax+1)))
	}

	candidates, err := p.request(ctx, params, req.Theme)
	if err != nil {
		return nil, err
	}
	if req.Randomize && len(candidates) == 0 {
		// Random page offsets can overshoot small result sets.
		params.Del("pid")
		candidates, err = p.request(ctx, params, req.Theme)
		if err != nil {
			return nil, err
		}
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

func (p *Rule34) request(ctx context.Context, params url.Values, theme models.Theme) ([]models.RemoteImage, error) {
	var raw json.RawMessage
	if err := p.client.GetJSON(ctx, rule34URL, params, nil, &raw); err != nil {
		return nil, err
	}
	posts, err := parseRule34Posts(raw)
	if err != nil {
		return nil, err
	}
	return p.parsePosts(posts, theme), nil
}

func (p *Rule34) parsePosts(posts []rule34Post, theme models.Theme) []models.RemoteImage {
	candidates := make([]models.RemoteImage, 0, len(posts))
	for _, post := range posts {
		rawURL := post.FileURL
		if rawURL == "" {
			rawURL = post.SampleURL
		}
		if rawURL == "" {
			rawURL = post.PreviewURL
		}
		if rawURL == "" {
			continue
		}
		if strings.HasPrefix(rawURL, "//") {
			rawURL = "https:" + rawURL
		}

		rating := models.RatingUnknown
		if mapped, ok := booruRatingMap[post.Rating]; ok {
			rating = mapped
		}

		tags := []string{string(theme), "rule34"}
		for _, tag := range strings.Fields(post.Tags) {
			tags = append(tags, tag)
			if len(tags) >= maxCandidateTags {
				break
			}
		}

		candidates = append(candidates, models.RemoteImage{
			Provider: p.Name(),
			Theme:    theme,
			URL:      rawURL,
			Rating:   rating,
			Tags:     tags,
		})
	}
	return candidates
}
