package model

import "fmt"

// Platform identifies one external social network integration target.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// SupportedPlatforms returns the closed set of platforms, in a stable order.
func SupportedPlatforms() []Platform {
	return []Platform{PlatformLinkedIn, PlatformTwitter, PlatformFacebook, PlatformInstagram, PlatformTikTok}
}

// ParsePlatform validates a platform identifier coming from user input.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	switch p {
	case PlatformLinkedIn, PlatformTwitter, PlatformFacebook, PlatformInstagram, PlatformTikTok:
		return p, nil
	}
	return "", fmt.Errorf("unsupported platform: %s", s)
}

func (p Platform) String() string { return string(p) }
