package match

import "context"

// ProfileStore loads and persists the company-profile mapping. The serving
// path reads the store wholesale at startup; writes happen only in the
// offline profile-building flow.
type ProfileStore interface {
	Load(ctx context.Context) ([]CompanyProfile, error)
	Save(ctx context.Context, profiles []CompanyProfile) error
}
