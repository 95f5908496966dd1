package book

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

/* Validate is the schema constraint every adapter applies before a write.
 * The router checks the title first; this catches any path that bypasses it.
 */
func Validate(b Book) error {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "Title" {
				return ErrMissingTitle
			}
		}
	}
	return err
}
