package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdminGate(t *testing.T) {
	g := NewAdminGate([]string{"admin-1", ""})
	assert.True(t, g.IsAdmin("admin-1"))
	assert.False(t, g.IsAdmin("user-1"))
	assert.False(t, g.IsAdmin(""))

	var nilGate *AdminGate
	assert.False(t, nilGate.IsAdmin("admin-1"))
}
