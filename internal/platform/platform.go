// Package platform classifies the requesting client from its User-Agent
// and decides how a shared document should be delivered to it.
package platform

import "strings"

type Platform string

const (
	IOS     Platform = "ios"
	Android Platform = "android"
	Desktop Platform = "desktop"
)

// DeliveryMode maps onto the Content-Disposition used when serving the
// file: inline opens it in the browser, attachment forces a download.
type DeliveryMode string

const (
	ModeInline     DeliveryMode = "inline"
	ModeAttachment DeliveryMode = "attachment"
)

// DeliveryPlan is the per-platform behavior table for retrieving a shared
// document. iOS cannot save a programmatic download to Files, so it gets
// the file inline with manual-save instructions and no further fallback;
// Android and desktop get a forced download with inline open as fallback.
type DeliveryPlan struct {
	Platform     Platform     `json:"platform"`
	Mode         DeliveryMode `json:"mode"`
	Fallback     DeliveryMode `json:"fallback,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
}

// Detect classifies a User-Agent string. Unknown agents are treated as
// desktop, which gets the most widely supported behavior.
func Detect(userAgent string) Platform {
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return IOS
	case strings.Contains(ua, "android"):
		return Android
	default:
		return Desktop
	}
}

// Plan returns the delivery plan for a platform.
func Plan(p Platform) DeliveryPlan {
	if p == IOS {
		return DeliveryPlan{
			Platform:     IOS,
			Mode:         ModeInline,
			Instructions: "Tap and hold the document, then choose Save to Files.",
		}
	}

	return DeliveryPlan{
		Platform: p,
		Mode:     ModeAttachment,
		Fallback: ModeInline,
	}
}

// PlanFor is the common path: detect then plan.
func PlanFor(userAgent string) DeliveryPlan {
	return Plan(Detect(userAgent))
}
