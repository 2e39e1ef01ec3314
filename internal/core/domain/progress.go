package domain

// LoadProgressFunc reports dataset load progress as a percentage in
// [0,100]. Values are monotonically non-decreasing and reach 100
// exactly when the load completes.
type LoadProgressFunc func(percent int)

// MatchProgressFunc reports batch match progress. processed is the
// cumulative number of input keys considered so far; it is monotonic
// and equals total exactly once, after the final group.
type MatchProgressFunc func(processed, total int)
