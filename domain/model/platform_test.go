package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/domain/model"
)

func TestParsePlatform(t *testing.T) {
	for _, p := range model.SupportedPlatforms() {
		parsed, err := model.ParsePlatform(string(p))
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestParsePlatform_Unsupported(t *testing.T) {
	for _, s := range []string{"", "youtube", "LINKEDIN", "mastodon"} {
		_, err := model.ParsePlatform(s)
		assert.Error(t, err, s)
	}
}

func TestSupportedPlatforms_StableOrder(t *testing.T) {
	expected := []model.Platform{
		model.PlatformLinkedIn,
		model.PlatformTwitter,
		model.PlatformFacebook,
		model.PlatformInstagram,
		model.PlatformTikTok,
	}
	assert.Equal(t, expected, model.SupportedPlatforms())
}
