package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicValidators(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	PositiveFloat("price", 0, v)
	NonNegativeFloat("capacity", -1, v)
	RangeFloat("tax_rate", 1.5, 0, 1, v)
	Email("email", "not-an-email", v)
	OneOf("role", "ghost", []string{"admin", "cashier"}, v)

	assert.Equal(t, Violations{
		"name":     "required",
		"price":    "must_be_positive",
		"capacity": "must_not_be_negative",
		"tax_rate": "out_of_range",
		"email":    "invalid_email",
		"role":     "invalid_choice",
	}, v)
}

func TestValidInputsProduceNoViolations(t *testing.T) {
	v := make(Violations)
	Required("name", "Lait", v)
	PositiveFloat("price", 12.5, v)
	Email("email", "a@b.dz", v)
	Email("optional", "", v)
	OneOf("role", "cashier", []string{"admin", "cashier"}, v)
	assert.True(t, v.Empty())
}

func TestAddKeepsFirstViolation(t *testing.T) {
	v := make(Violations)
	v.Add("name", "required")
	v.Add("name", "invalid")
	v.Merge(map[string]string{"name": "taken", "email": "taken"})
	assert.Equal(t, "required", v["name"])
	assert.Equal(t, "taken", v["email"])
}

type driverForm struct {
	Name     string  `form:"name" validate:"required"`
	Email    string  `form:"email" validate:"omitempty,email"`
	Capacity float64 `form:"capacity" validate:"gte=0"`
	Status   string  `validate:"oneof=available on_duty off_duty"`
}

func TestStruct(t *testing.T) {
	v := Struct(driverForm{Email: "nope", Capacity: -2, Status: "lost"})
	assert.Equal(t, Violations{
		"name":     "required",
		"email":    "invalid_email",
		"capacity": "must_not_be_negative",
		"status":   "invalid_choice",
	}, v)

	ok := Struct(driverForm{Name: "Karim", Status: "available"})
	assert.True(t, ok.Empty())
}
