package helper

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h fiber.Handler, target string) (int, map[string]any) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/x", h)
	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestResolvePaging(t *testing.T) {
	var got Paging
	h := func(c *fiber.Ctx) error {
		got = ResolvePaging(c, 20, 100)
		return JsonOK(c, "", nil)
	}

	call(t, h, "/x")
	assert.Equal(t, Paging{Page: 1, PerPage: 20, Offset: 0, Limit: 20}, got)

	call(t, h, "/x?page=3&per_page=10")
	assert.Equal(t, Paging{Page: 3, PerPage: 10, Offset: 20, Limit: 10}, got)

	call(t, h, "/x?page=-2&limit=500")
	assert.Equal(t, Paging{Page: 1, PerPage: 100, Offset: 0, Limit: 100}, got)
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(45, Paging{Page: 2, PerPage: 20}, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	empty := BuildPagination(0, Paging{Page: 1, PerPage: 20}, 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestSuccessEnvelopes(t *testing.T) {
	status, body := call(t, func(c *fiber.Ctx) error {
		return JsonCreated(c, "", fiber.Map{"id": 1})
	}, "/x")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "créé", body["message"])
	assert.Equal(t, float64(1), body["data"].(map[string]any)["id"])

	status, body = call(t, func(c *fiber.Ctx) error {
		return JsonList(c, "Liste", []int{1, 2}, BuildPagination(2, Paging{Page: 1, PerPage: 20}, 2))
	}, "/x")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 2)
	assert.Equal(t, float64(2), body["pagination"].(map[string]any)["total"])
}

func TestErrorHandler(t *testing.T) {
	status, body := call(t, func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusConflict, "déjà pris")
	}, "/x")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "CONFLICT", body["error_code"])
	assert.Equal(t, "déjà pris", body["message"])

	status, body = call(t, func(c *fiber.Ctx) error {
		return errors.New("db exploded")
	}, "/x")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", body["error_code"])
	assert.NotContains(t, body["message"], "exploded")

	status, _ = call(t, func(c *fiber.Ctx) error {
		return Internal(errors.New("boom"), "test")
	}, "/x")
	assert.Equal(t, fiber.StatusInternalServerError, status)
}

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Age   int    `json:"age" validate:"gte=1,lte=120"`
	Role  string `json:"role" validate:"omitempty,oneof=student admin"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	err := ValidateStruct(&sample{Email: "nope", Age: 0, Role: "owner"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"format d'email invalide"}, ve.Fields["email"])
	assert.Equal(t, []string{"doit être supérieur ou égal à 1"}, ve.Fields["age"])
	assert.Contains(t, ve.Fields["role"][0], "student admin")

	assert.NoError(t, ValidateStruct(&sample{Email: "a@b.fr", Age: 30}))
}

func TestValidationErrorRendersAs422(t *testing.T) {
	status, body := call(t, func(c *fiber.Ctx) error {
		return ValidateStruct(&sample{})
	}, "/x")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", body["error_code"])
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "email")
}
