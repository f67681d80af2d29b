package article

import (
	"github.com/go-playground/validator/v10"

	"github.com/SergeyParamoshkin/articles/internal/apperr"
	"github.com/SergeyParamoshkin/articles/internal/model"
)

var validate = validator.New()

// validateNewArticle reports the first missing field in the order title,
// description, body. It does not collect every problem.
func validateNewArticle(in *model.NewArticle) error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"body", in.Body},
	}
	for _, f := range fields {
		if err := validate.Var(f.value, "required"); err != nil {
			return apperr.FieldRequired(f.name)
		}
	}

	if err := validate.Var(in.TagList, "omitempty,dive,required"); err != nil {
		return &apperr.Error{
			Kind:    apperr.KindValidation,
			Field:   "tagList",
			Message: "tagList must not contain empty tags.",
		}
	}

	return nil
}
