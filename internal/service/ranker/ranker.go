package ranker

import (
	"sort"
	"strings"

	"stream_tab_watcher/internal/models"
)

// Less is the three-tier channel comparator:
//  1. live before offline, always;
//  2. among live channels, favorites by list position beat viewer count,
//     then viewer count ascending or descending per preference;
//  3. among offline channels, favorites by list position, then
//     case-insensitive name order.
// It defines a strict weak ordering; the tab reconciler relies on the same
// comparator when deciding whether a candidate outranks an open tab.
func Less(a, b models.Channel, favorites []models.Favorite, sortLiveAscending bool) bool {
	aLive, bLive := models.IsLive(a), models.IsLive(b)
	if aLive != bLive {
		return aLive
	}

	aFav, bFav := models.FavoriteIndex(favorites, a), models.FavoriteIndex(favorites, b)

	if aLive {
		if aFav != bFav {
			if aFav == -1 {
				return false
			}
			if bFav == -1 {
				return true
			}
			return aFav < bFav
		}
		if aFav != -1 {
			// same favorite position can only mean the same channel entry;
			// fall through to the name compare for determinism
			return nameLess(a, b)
		}

		aViewers, bViewers := *a.Viewers(), *b.Viewers()
		if aViewers != bViewers {
			if sortLiveAscending {
				return aViewers < bViewers
			}
			return aViewers > bViewers
		}
		return nameLess(a, b)
	}

	if aFav != bFav {
		if aFav == -1 {
			return false
		}
		if bFav == -1 {
			return true
		}
		return aFav < bFav
	}

	return nameLess(a, b)
}

func nameLess(a, b models.Channel) bool {
	return strings.ToLower(a.SortName()) < strings.ToLower(b.SortName())
}

// SortChannels orders the merged channel list in place, stably.
func SortChannels(channels []models.Channel, favorites []models.Favorite, sortLiveAscending bool) {
	sort.SliceStable(channels, func(i, j int) bool {
		return Less(channels[i], channels[j], favorites, sortLiveAscending)
	})
}
