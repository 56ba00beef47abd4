package console

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
	"github.com/PancyStudios/WTVConsoleGo/pkg/models"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so errors match the API payload
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// check runs the struct tags and converts the first failure
func (s *Service) check(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return errors.ValidationMissing(fe.Field())
		}
		return errors.ValidationInvalid(fe.Field(), fe.Tag())
	}
	return errors.ValidationInvalid("payload", err.Error())
}

// validateClient checks plan and server first, then the remaining fields
func (s *Service) validateClient(c models.Client) error {
	if strings.TrimSpace(c.PlanID) == "" {
		return errors.ValidationMissing("planId")
	}
	if strings.TrimSpace(c.ServerID) == "" {
		return errors.ValidationMissing("serverId")
	}
	if err := s.check(c); err != nil {
		return err
	}
	if c.ExpirationDate.IsZero() {
		return errors.ValidationMissing("expirationDate")
	}
	return nil
}

func (s *Service) validatePlan(p models.Plan) error {
	if err := s.check(p); err != nil {
		return err
	}
	if p.MonthlyValue.IsNegative() {
		return errors.ValidationInvalid("monthlyValue", "não pode ser negativo")
	}
	return nil
}
