package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShowTimeOccupied(t *testing.T) {
	st := &ShowTime{StartsAt: at(19, 0)}

	occ := st.Occupied(100*time.Minute, 30*time.Minute)
	assert.Equal(t, at(19, 0), occ.Start)
	assert.Equal(t, at(21, 10), occ.End)
}
