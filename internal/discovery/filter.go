package discovery

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/debbuilder/internal/logfields"
)

// Filter applies the whitelist and blacklist to the discovered units,
// preserving discovery order. The whitelist is evaluated first; a unit is
// dropped as soon as either rule disqualifies it. Every exclusion is logged
// with the rule that caused it so operators can debug their patterns.
func Filter(units []Unit, whitelist, blacklist Matcher) ([]Unit, error) {
	selected := make([]Unit, 0, len(units))

	for _, u := range units {
		if !whitelist.Matches(u.Path) {
			slog.Info("Excluding package", logfields.Unit(u.Name), logfields.Path(u.Path), logfields.Rule("whitelist"))
			continue
		}
		if blacklist.Matches(u.Path) {
			slog.Info("Excluding package", logfields.Unit(u.Name), logfields.Path(u.Path), logfields.Rule("blacklist"))
			continue
		}
		selected = append(selected, u)
	}

	if len(selected) == 0 {
		return nil, fmt.Errorf("%w (%d discovered)", ErrNoUnitsSelected, len(units))
	}

	slog.Info("Selected packages", logfields.Count(len(selected)), logfields.Total(len(units)))
	return selected, nil
}

// FilterPatterns is the pattern-string convenience wrapper around Filter.
// An empty blacklist pattern means nothing is blacklisted.
func FilterPatterns(units []Unit, whitelist, blacklist string) ([]Unit, error) {
	white, err := NewRegexMatcher(whitelist)
	if err != nil {
		return nil, err
	}
	black := NoMatch()
	if blacklist != "" {
		black, err = NewRegexMatcher(blacklist)
		if err != nil {
			return nil, err
		}
	}
	return Filter(units, white, black)
}
