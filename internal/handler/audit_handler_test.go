package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
)

func TestListLimit(t *testing.T) {
	app := fiber.New()
	var got int
	app.Get("/", func(c fiber.Ctx) error {
		got = listLimit(c)
		return nil
	})

	for query, want := range map[string]int{
		"":            100,
		"?limit=25":   25,
		"?limit=0":    100,
		"?limit=-3":   100,
		"?limit=abc":  100,
		"?limit=9999": maxListLimit,
	} {
		_, err := app.Test(httptest.NewRequest("GET", "/"+query, nil))
		assert.NoError(t, err)
		assert.Equal(t, want, got, query)
	}
}
