package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationHasCoordinates(t *testing.T) {
	lat, lon := 17.385, 78.4867

	assert.True(t, (&Location{Name: "Hyderabad", Lat: &lat, Lon: &lon}).HasCoordinates())
	assert.False(t, (&Location{Name: "Hyderabad"}).HasCoordinates())
	assert.False(t, (&Location{Name: "Hyderabad", Lat: &lat}).HasCoordinates())
	assert.False(t, (&Location{Name: "Hyderabad", Lon: &lon}).HasCoordinates())
}
