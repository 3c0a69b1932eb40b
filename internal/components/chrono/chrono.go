package chrono

import "time"

type API interface {
	Now() time.Time
	Location() *time.Location
}

// StandardImpl reports time in Buenos Aires, which is where every
// performance listed on the site takes place.
type StandardImpl struct {
	location *time.Location
}

func NewStandardImpl() (StandardImpl, error) {
	location, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// FixedImpl always returns the same instant, it is used by tests.
type FixedImpl struct {
	Instant time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.Instant
}

func (f FixedImpl) Location() *time.Location {
	return f.Instant.Location()
}
