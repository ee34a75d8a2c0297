package handlers

import (
	"sync"

	"hipaa-audit/internal/compliance"
	"hipaa-audit/internal/models"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators добавляет в валидатор gin правила для статусов предметной области.
// Повторные вызовы ничего не делают.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}

		rules := map[string]validator.Func{
			"requirement_status": func(fl validator.FieldLevel) bool {
				return compliance.Status(fl.Field().String()).Valid()
			},
			"risk_status": func(fl validator.FieldLevel) bool {
				return oneOf(fl.Field().String(), riskStatusNames())
			},
			"associate_compliance": func(fl validator.FieldLevel) bool {
				return oneOf(fl.Field().String(), models.AssociateComplianceOptions)
			},
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = errors.Wrapf(err, "register %s", tag)
				return
			}
		}
	})
	return registerErr
}

func riskStatusNames() []string {
	out := make([]string, len(models.RiskStatuses))
	for i, s := range models.RiskStatuses {
		out[i] = string(s)
	}
	return out
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
