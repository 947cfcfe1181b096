package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/931ubada/e-commerce-website/internal/model"
	"github.com/931ubada/e-commerce-website/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/lib/pq"
)

// ProductInput carries every writable product field. Update replaces the
// stored product with it as a whole: a nil Images or Variants clears them.
type ProductInput struct {
	Name        string         `json:"name" validate:"notblank"`
	Price       float64        `json:"price" validate:"gte=0"`
	Description string         `json:"description"`
	Images      []string       `json:"images"`
	Variants    []VariantInput `json:"variants"`
}

// VariantInput is a variant as supplied by the caller. At least one of
// Size and Color must be a non-empty string.
type VariantInput struct {
	Size      *string `json:"size"`
	Color     *string `json:"color"`
	Inventory int     `json:"inventory" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// a name of only spaces is as empty as no name
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// NewVariant builds a variant, rejecting one that cannot be told apart from
// its siblings or has negative inventory.
func NewVariant(size, color *string, inventory int) (model.Variant, error) {
	in := VariantInput{Size: size, Color: color, Inventory: inventory}
	if err := in.validate("variant"); err != nil {
		return model.Variant{}, err
	}
	return in.toModel(), nil
}

// Validate reports the first violated constraint in the order name, price,
// then each variant's identity and inventory.
func (in *ProductInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return translate(err, "")
	}

	for i := range in.Variants {
		if err := in.Variants[i].validate(fmt.Sprintf("variants[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (in *VariantInput) validate(path string) error {
	if !present(in.Size) && !present(in.Color) {
		return apperr.InvalidErr(
			path+": size or color is required",
			map[string]string{path: "size or color is required"},
		)
	}
	if err := validate.Struct(in); err != nil {
		return translate(err, path)
	}
	return nil
}

func (in *ProductInput) toModel() *model.Product {
	p := &model.Product{
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Images:      append(pq.StringArray{}, in.Images...),
		Variants:    make([]model.Variant, len(in.Variants)),
	}
	for i, v := range in.Variants {
		p.Variants[i] = v.toModel()
		p.Variants[i].Position = i
	}
	return p
}

func (in *VariantInput) toModel() model.Variant {
	v := model.Variant{Inventory: in.Inventory}
	if present(in.Size) {
		size := *in.Size
		v.Size = &size
	}
	if present(in.Color) {
		color := *in.Color
		v.Color = &color
	}
	return v
}

func present(s *string) bool {
	return s != nil && *s != ""
}

// translate turns the first validator failure into a ValidationError
func translate(err error, path string) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return apperr.InvalidErr("invalid product data", nil)
	}

	fe := ve[0]
	field := strings.ToLower(fe.Field())
	if path != "" {
		field = path + "." + field
	}
	msg := messageForTag(fe.Tag())
	return apperr.InvalidErr(field+" "+msg, map[string]string{field: msg})
}

func messageForTag(tag string) string {
	switch tag {
	case "required", "notblank":
		return "is required"
	case "gte":
		return "must not be negative"
	default:
		return "is invalid"
	}
}
