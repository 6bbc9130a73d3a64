package models

// FeatureVector holds audio features for a track. Nil fields were never
// fetched; similarity scoring only compares dimensions present on both
// sides.
type FeatureVector struct {
	Danceability     *float64
	Energy           *float64
	Valence          *float64
	Acousticness     *float64
	Instrumentalness *float64
	Liveness         *float64
	Speechiness      *float64
	Loudness         *float64
	Tempo            *float64
	Key              *int
	Mode             *int
	TimeSignature    *int
}

// Complete reports whether every feature dimension is present.
func (f FeatureVector) Complete() bool {
	return f.Danceability != nil && f.Energy != nil && f.Valence != nil &&
		f.Acousticness != nil && f.Instrumentalness != nil && f.Liveness != nil &&
		f.Speechiness != nil && f.Loudness != nil && f.Tempo != nil &&
		f.Key != nil && f.Mode != nil && f.TimeSignature != nil
}

// Empty reports whether no feature dimension is present.
func (f FeatureVector) Empty() bool {
	return f.Danceability == nil && f.Energy == nil && f.Valence == nil &&
		f.Acousticness == nil && f.Instrumentalness == nil && f.Liveness == nil &&
		f.Speechiness == nil && f.Loudness == nil && f.Tempo == nil &&
		f.Key == nil && f.Mode == nil && f.TimeSignature == nil
}

// Float returns a pointer to v, for building vectors from literals.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building vectors from literals.
func Int(v int) *int { return &v }
