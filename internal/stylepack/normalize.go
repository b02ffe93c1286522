package stylepack

import (
	"fmt"
	"time"

	"github.com/klauern/styleimport/internal/model"
)

// syncKeys link a style to a remote update source. They are cleared so the
// styling application never auto-updates an adopted style.
var syncKeys = []string{model.KeyUpdateURL, model.KeyMD5URL, model.KeyOriginalMD5, model.KeyURL}

// Normalizer stamps master-list metadata onto retained styles.
type Normalizer struct {
	// Enabled decides the enabled flag from the style name.
	Enabled func(name string) bool
	// Now is read once per style; defaults to time.Now.
	Now func() time.Time
}

// Normalize returns normalized copies of styles; the inputs are not modified.
func (n Normalizer) Normalize(styles []*model.Style) ([]*model.Style, error) {
	now := n.Now
	if now == nil {
		now = time.Now
	}

	out := make([]*model.Style, 0, len(styles))
	for _, s := range styles {
		c := s.Clone()
		if err := n.stamp(c, now().UnixMilli()); err != nil {
			return nil, fmt.Errorf("normalize %q: %w", c.Name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (n Normalizer) stamp(s *model.Style, ts int64) error {
	if err := s.Set(model.KeyEnabled, n.Enabled != nil && n.Enabled(s.Name)); err != nil {
		return err
	}
	for _, key := range syncKeys {
		if err := s.Set(key, nil); err != nil {
			return err
		}
	}
	if err := s.Set(model.KeyUpdateDate, ts); err != nil {
		return err
	}
	return s.Set(model.KeyRev, ts)
}
