package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginHosts(t *testing.T) {
	got := originHosts([]string{"https://chat.example.com", "http://localhost:8080/", "*.example.org"})
	assert.Equal(t, []string{"chat.example.com", "localhost:8080", "*.example.org"}, got)
}
