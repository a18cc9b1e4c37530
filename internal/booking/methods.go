package booking

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

// CardForm is the card entry form of the payment-methods settings.
type CardForm struct {
	Number string `json:"cardNumber" validate:"required,cardnumber"`
	Name   string `json:"cardName" validate:"required"`
	Expiry string `json:"cardExpiry" validate:"required,expiry"`
	CVC    string `json:"cardCVC" validate:"required"`
}

// MomoForm is the mobile-money entry form.
type MomoForm struct {
	Phone    string `json:"phoneNumber" validate:"required,phone10"`
	Provider string `json:"provider" validate:"required,oneof=MTN Airtel"`
}

// FieldErrors maps a form field (by its JSON name) to a message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+": "+v)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	nonDigit      = regexp.MustCompile(`\D`)
)

// NewValidator returns a validator with the storefront's custom tags
// registered and JSON field names used in errors.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		n := len(digitsOnly(fl.Field().String()))
		return n >= 13 && n <= 19
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return len(digitsOnly(fl.Field().String())) == 10
	})
	return v
}

// MethodRegistrar validates payment-method forms and turns them into
// stored, masked methods.
type MethodRegistrar struct {
	v   *validator.Validate
	now func() time.Time
}

// NewMethodRegistrar builds a registrar on top of v.  A nil validator
// selects NewValidator.
func NewMethodRegistrar(v *validator.Validate) *MethodRegistrar {
	if v == nil {
		v = NewValidator()
	}
	return &MethodRegistrar{v: v, now: time.Now}
}

// AddCard validates f and returns the masked card method.
func (r *MethodRegistrar) AddCard(f CardForm) (model.PaymentMethod, error) {
	if err := r.check(f); err != nil {
		return model.PaymentMethod{}, err
	}
	digits := digitsOnly(f.Number)
	return model.PaymentMethod{
		ID:         fmt.Sprintf("card_%d", r.now().UnixMilli()),
		Type:       model.PaymentCard,
		CardNumber: "**** **** **** " + digits[len(digits)-4:],
		CardName:   f.Name,
		CardExpiry: f.Expiry,
	}, nil
}

// AddMomo validates f and returns the normalised mobile-money method.
func (r *MethodRegistrar) AddMomo(f MomoForm) (model.PaymentMethod, error) {
	if err := r.check(f); err != nil {
		return model.PaymentMethod{}, err
	}
	digits := digitsOnly(f.Phone)
	return model.PaymentMethod{
		ID:          fmt.Sprintf("momo_%d", r.now().UnixMilli()),
		Type:        model.PaymentMomo,
		PhoneNumber: "+256" + digits[len(digits)-9:],
		Provider:    f.Provider,
	}, nil
}

func (r *MethodRegistrar) check(form any) error {
	err := r.v.Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := FieldErrors{}
	for _, fe := range ve {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "cardnumber":
		return "card number must be 13-19 digits"
	case "expiry":
		return "please use MM/YY format"
	case "phone10":
		return "please enter a valid 10-digit mobile number"
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}

func digitsOnly(s string) string { return nonDigit.ReplaceAllString(s, "") }
