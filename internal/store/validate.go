package store

import (
	"errors"
	"math"
	"strings"
	"unicode/utf8"
)

const maxKeywordLen = 50

var (
	// ErrInvalidCoordinate is returned when latitude or longitude is out of range.
	ErrInvalidCoordinate = errors.New("latitude must be in [-90, 90] and longitude in [-180, 180]")

	// ErrInvalidRadius is returned when a search radius is not positive.
	ErrInvalidRadius = errors.New("radius must be greater than zero meters")

	// ErrInvalidContent is returned when pin content is blank.
	ErrInvalidContent = errors.New("pin content must not be blank")

	// ErrInvalidKeyword is returned when a tag keyword is blank or too long.
	ErrInvalidKeyword = errors.New("tag keyword must be 1-50 non-blank characters")
)

// ValidateCoordinate checks that lat/lon form a valid WGS84 coordinate.
// NaN compares false against everything, so non-finite values are rejected
// explicitly before the range checks.
func ValidateCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}

// ValidateRadius checks that a search radius in meters is positive and finite.
func ValidateRadius(radiusMeters float64) error {
	if math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) || radiusMeters <= 0 {
		return ErrInvalidRadius
	}
	return nil
}

// ValidateContent checks that pin content contains something besides whitespace.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrInvalidContent
	}
	return nil
}

// NormalizeKeyword trims surrounding whitespace and validates the keyword.
// Keywords are case-sensitive; "Cafe" and "cafe" are distinct tags.
func NormalizeKeyword(keyword string) (string, error) {
	k := strings.TrimSpace(keyword)
	if k == "" || utf8.RuneCountInString(k) > maxKeywordLen {
		return "", ErrInvalidKeyword
	}
	return k, nil
}
