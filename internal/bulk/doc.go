// Package bulk generates unlock times for a batch of achievements.
//
// Two algorithms are provided. Sequential spaces items a fixed interval
// apart in input order. Weighted spreads items over a total duration with
// each item's share growing exponentially with its rarity, so common
// achievements unlock almost immediately and rare ones consume most of the
// window. Weighted shares carry a small per-item jitter derived from a hash
// of the item id, which keeps regenerated schedules stable.
//
// The generator never re-sorts its input: callers choose the play-out order
// (usually with SortByRarity) before calling it.
package bulk
