package licensing

import (
	"net/url"
	"strings"
)

// DefaultUpgradeURL is used when no base URL is configured.
const DefaultUpgradeURL = "https://app.leadforge.io/settings/billing?utm_source=dashboard&utm_medium=app&utm_campaign=upgrade"

// UpgradeURLForFeature returns the upgrade URL for key, appending the feature
// and target tier as query parameters. An unparsable base falls back to
// DefaultUpgradeURL.
func UpgradeURLForFeature(baseURL string, key FeatureKey, target Tier) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultUpgradeURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" {
		u, _ = url.Parse(DefaultUpgradeURL)
	}
	q := u.Query()
	if key != "" {
		q.Set("feature", string(key))
	}
	if target.Valid() {
		q.Set("plan", string(target))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
