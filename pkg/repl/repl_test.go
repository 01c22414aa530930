package repl

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeadSignalFound/catgirl-CLI/pkg/config"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/logger"
	"github.com/DeadSignalFound/catgirl-CLI/pkg/models"
)

var testProviderNames = []string{
	"waifu_pics", "nekosapi", "nekos_best", "nekos_life", "nekobot", "e621", "rule34",
}

func newTestSession() *Session {
	return NewSession(config.DefaultConfig(), testProviderNames)
}

func TestSessionDefaults(t *testing.T) {
	session := newTestSession()

	assert.Equal(t, 1, session.Count)
	assert.Equal(t, "auto", session.Provider)
	assert.Equal(t, models.ThemeCatgirl, session.Theme)
	assert.Equal(t, models.UserRatingAny, session.Rating)
	assert.False(t, session.Randomize)
	assert.Equal(t, "./downloads", session.OutputDir)
	assert.Equal(t, 20, session.Timeout)
	assert.False(t, session.Verbose)
}

func TestSessionSet(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr bool
		check   func(t *testing.T, s *Session)
	}{
		{"count in range", "count", "25", false, func(t *testing.T, s *Session) {
			assert.Equal(t, 25, s.Count)
		}},
		{"count zero", "count", "0", true, nil},
		{"count above cap", "count", "201", true, nil},
		{"count not a number", "count", "lots", true, nil},
		{"provider known", "provider", "e621", false, func(t *testing.T, s *Session) {
			assert.Equal(t, "e621", s.Provider)
		}},
		{"provider auto", "provider", "auto", false, nil},
		{"provider unknown", "provider", "danbooru", true, nil},
		{"theme plural alias", "theme", "kitsunes", false, func(t *testing.T, s *Session) {
			assert.Equal(t, models.ThemeKitsune, s.Theme)
		}},
		{"theme unknown", "theme", "dragon", true, nil},
		{"rating valid", "rating", "suggestive", false, func(t *testing.T, s *Session) {
			assert.Equal(t, models.UserRatingSuggestive, s.Rating)
		}},
		{"rating unknown", "rating", "spicy", true, nil},
		{"randomize yes", "randomize", "yes", false, func(t *testing.T, s *Session) {
			assert.True(t, s.Randomize)
		}},
		{"randomize alias r", "r", "on", false, func(t *testing.T, s *Session) {
			assert.True(t, s.Randomize)
		}},
		{"randomize alias random off", "random", "0", false, func(t *testing.T, s *Session) {
			assert.False(t, s.Randomize)
		}},
		{"randomize garbage", "randomize", "maybe", true, nil},
		{"out path", "out", "/tmp/pics", false, func(t *testing.T, s *Session) {
			assert.Equal(t, "/tmp/pics", s.OutputDir)
		}},
		{"out empty", "out", " ", true, nil},
		{"timeout in range", "timeout", "60", false, func(t *testing.T, s *Session) {
			assert.Equal(t, 60, s.Timeout)
		}},
		{"timeout above cap", "timeout", "121", true, nil},
		{"verbose on", "verbose", "true", false, func(t *testing.T, s *Session) {
			assert.True(t, s.Verbose)
		}},
		{"unknown field", "threads", "4", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession()
			err := session.Set(tt.field, tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, session)
			}
		})
	}
}

func TestSessionValuesFor(t *testing.T) {
	session := newTestSession()

	providers := session.ValuesFor("provider")
	assert.Equal(t, "auto", providers[0])
	assert.Contains(t, providers, "rule34")

	assert.ElementsMatch(t, []string{"catgirl", "neko", "kitsune", "femboy"},
		session.ValuesFor("theme"))
	assert.Contains(t, session.ValuesFor("rating"), "borderline")
	assert.ElementsMatch(t, []string{"true", "false"}, session.ValuesFor("randomize"))
	assert.Nil(t, session.ValuesFor("count"))
}

func TestDispatchRunAndExit(t *testing.T) {
	cfg := config.DefaultConfig()
	r := New(cfg, nil, logger.NewTestLogger())
	var out bytes.Buffer
	r.out = &out

	var ran *Session
	r.run = func(ctx context.Context, session *Session) error {
		ran = session
		return nil
	}

	assert.False(t, r.dispatch(context.Background(), "set count 3"))
	assert.False(t, r.dispatch(context.Background(), "run"))
	require.NotNil(t, ran)
	assert.Equal(t, 3, ran.Count)

	assert.False(t, r.dispatch(context.Background(), ""))
	assert.False(t, r.dispatch(context.Background(), "bogus"))
	assert.True(t, r.dispatch(context.Background(), "exit"))
	assert.True(t, r.dispatch(context.Background(), "quit"))
}

func TestDispatchShowListsSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	r := New(cfg, nil, logger.NewTestLogger())
	var out bytes.Buffer
	r.out = &out

	r.dispatch(context.Background(), "show")
	assert.Contains(t, out.String(), "provider")
	assert.Contains(t, out.String(), "auto")
}

func TestDispatchProvidersTable(t *testing.T) {
	cfg := config.DefaultConfig()
	r := New(cfg, nil, logger.NewTestLogger())
	var out bytes.Buffer
	r.out = &out

	r.dispatch(context.Background(), "providers")
	for _, name := range testProviderNames {
		assert.Contains(t, out.String(), name)
	}
}
