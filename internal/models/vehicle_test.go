package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVehicle_DisplayName(t *testing.T) {
	assert.Equal(t, "BMW 7 Series", (&Vehicle{Brand: "BMW", Model: "7 Series"}).DisplayName())
	assert.Equal(t, "BMW", (&Vehicle{Brand: "BMW"}).DisplayName())
	assert.Equal(t, "Cayenne", (&Vehicle{Model: "Cayenne"}).DisplayName())
}

func TestVehicle_Clone(t *testing.T) {
	v := Vehicle{ID: 1, Features: []string{"Sunroof"}}
	c := v.Clone()
	c.Features[0] = "Changed"
	assert.Equal(t, "Sunroof", v.Features[0])

	assert.Nil(t, Vehicle{}.Clone().Features)
}
