package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mistwood/cultivation-api/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestValidationError() {
	ve := errors.NewValidationError()
	ve.AddFieldError("name", "is required")
	ve.AddFieldError("technique_id", "is invalid")
	ve.AddFieldErrorf("level", "must be at least %d", 5)

	s.Assert().True(ve.HasErrors())
	s.Assert().Contains(ve.Error(), "name: is required")
	s.Assert().Contains(ve.Error(), "technique_id: is invalid")
	s.Assert().Contains(ve.Error(), "level: must be at least 5")

	err := ve.ToError()
	s.Assert().Equal(errors.CodeInvalidArgument, err.Code)
	s.Assert().NotNil(err.Meta["validation_errors"])
}

func (s *ValidationTestSuite) TestValidationBuilder() {
	vb := errors.NewValidationBuilder()
	vb.Field("name", "is required").
		Fieldf("loyalty", "must be between %d and %d", 0, 100).
		RequiredField("beastRepo").
		InvalidField("beast_type", "not a recognized element")

	err := vb.Build()
	s.Require().NotNil(err)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *ValidationTestSuite) TestValidationBuilderNoErrors() {
	vb := errors.NewValidationBuilder()
	err := vb.Build()
	s.Assert().Nil(err)
}

func (s *ValidationTestSuite) TestValidateRequired() {
	testCases := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid value", "Li Wei", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
		{"valid with spaces", "  Li Wei  ", false},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateRequired("field", tc.value, vb)
			err := vb.Build()
			if tc.shouldErr {
				s.Assert().NotNil(err)
			} else {
				s.Assert().Nil(err)
			}
		})
	}
}

func (s *ValidationTestSuite) TestValidateLengthBounds() {
	vb := errors.NewValidationBuilder()
	errors.ValidateMinLength("description", "ok", 8, vb)
	errors.ValidateMaxLength("nickname", "an exceedingly long beast nickname", 20, vb)
	errors.ValidateMaxLength("sect_name", "Azure Peak", 30, vb)
	// Lengths count runes, not bytes
	errors.ValidateMaxLength("daoist_name", "青云真人", 4, vb)

	err := vb.Build()
	s.Require().NotNil(err)
	meta := errors.GetMeta(err)
	validationErrors := meta["validation_errors"].(map[string][]string)
	s.Assert().Contains(validationErrors["description"][0], "must be at least 8 characters")
	s.Assert().Contains(validationErrors["nickname"][0], "must be no more than 20 characters")
	s.Assert().NotContains(validationErrors, "sect_name")
	s.Assert().NotContains(validationErrors, "daoist_name")
}

func (s *ValidationTestSuite) TestValidateRange() {
	vb := errors.NewValidationBuilder()
	errors.ValidateRange("deploy_position", 7, 1, 5, vb)
	errors.ValidateRange("loyalty", 50, 0, 100, vb)
	errors.ValidateRange("energy", -10, 0, 100, vb)

	err := vb.Build()
	s.Require().NotNil(err)
	meta := errors.GetMeta(err)
	validationErrors := meta["validation_errors"].(map[string][]string)
	s.Assert().Contains(validationErrors["deploy_position"][0], "must be between 1 and 5")
	s.Assert().Contains(validationErrors["energy"][0], "must be between 0 and 100")
	s.Assert().NotContains(validationErrors, "loyalty")
}

func (s *ValidationTestSuite) TestValidateEnum() {
	allowedTypes := []string{"combat", "gathering", "experience", "treasure"}

	vb := errors.NewValidationBuilder()
	errors.ValidateEnum("expedition_type", "raiding", allowedTypes, vb)
	errors.ValidateEnum("fallback_type", "combat", allowedTypes, vb)

	err := vb.Build()
	s.Require().NotNil(err)
	meta := errors.GetMeta(err)
	validationErrors := meta["validation_errors"].(map[string][]string)
	s.Assert().Contains(validationErrors["expedition_type"][0], "must be one of: combat, gathering, experience, treasure")
	s.Assert().NotContains(validationErrors, "fallback_type")
}

func (s *ValidationTestSuite) TestComplexValidation() {
	type sendExpeditionInput struct {
		BeastID  string
		Type     string
		Duration int
	}

	input := sendExpeditionInput{
		BeastID:  "",
		Type:     "raiding",
		Duration: 48,
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("beast_id", input.BeastID, vb)
	errors.ValidateEnum("type", input.Type, []string{"combat", "gathering", "experience", "treasure"}, vb)
	errors.ValidateRange("duration_hours", input.Duration, 1, 24, vb)

	err := vb.Build()
	s.Require().NotNil(err)
	s.Assert().True(errors.IsInvalidArgument(err))

	meta := errors.GetMeta(err)
	validationErrors := meta["validation_errors"].(map[string][]string)
	s.Assert().Contains(validationErrors, "beast_id")
	s.Assert().Contains(validationErrors, "type")
	s.Assert().Contains(validationErrors, "duration_hours")
}
