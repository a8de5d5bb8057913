package match

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// DefaultSurfaces is the set of known court surfaces.
var DefaultSurfaces = []string{"Clay", "Hard", "Grass"}

// candidate is the validated view of a RawRow. Field names in reasons come
// from the "field" tag.
type candidate struct {
	MatchID  string  `field:"match_id" validate:"required"`
	Player1  string  `field:"player_1" validate:"required,gt=2,fullname"`
	Player2  string  `field:"player_2" validate:"required,gt=2,fullname"`
	Partner1 string  `field:"partner_1" validate:"omitempty,gt=2,fullname"`
	Partner2 string  `field:"partner_2" validate:"omitempty,gt=2,fullname"`
	Surface  *string `field:"surface" validate:"omitnil,surface"`
	Umpire   string  `field:"umpire" validate:"omitempty,notint"`
}

// Validator applies the row validity predicate.
type Validator struct {
	v        *validator.Validate
	surfaces map[string]bool
	allowed  string
}

// NewValidator builds a Validator accepting the given surfaces
// (case-insensitive). An empty list means DefaultSurfaces.
func NewValidator(surfaces []string) (*Validator, error) {
	if len(surfaces) == 0 {
		surfaces = DefaultSurfaces
	}
	mv := &Validator{
		v:        validator.New(),
		surfaces: make(map[string]bool, len(surfaces)),
		allowed:  strings.Join(surfaces, ", "),
	}
	for _, s := range surfaces {
		mv.surfaces[strings.ToLower(strings.TrimSpace(s))] = true
	}

	mv.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("field"); name != "" {
			return name
		}
		return fld.Name
	})

	for tag, fn := range map[string]validator.Func{
		"fullname": isFullName,
		"notint":   isNotInteger,
		"surface":  mv.isKnownSurface,
	} {
		if err := mv.v.RegisterValidation(tag, fn); err != nil {
			return nil, errors.Wrapf(err, "registering %s", tag)
		}
	}
	return mv, nil
}

// Validate turns a RawRow into a Match, or returns a *Rejection listing
// every failed check.
func (mv *Validator) Validate(row RawRow) (Match, error) {
	c := candidate{
		MatchID:  strings.TrimSpace(row.ID),
		Player1:  strings.TrimSpace(row.Sides[0].Name),
		Player2:  strings.TrimSpace(row.Sides[1].Name),
		Partner1: strings.TrimSpace(row.Sides[0].Partner),
		Partner2: strings.TrimSpace(row.Sides[1].Partner),
		Surface:  row.Surface,
		Umpire:   strings.TrimSpace(row.Umpire),
	}

	if err := mv.v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Match{}, errors.Wrap(err, "validating row")
		}
		rej := &Rejection{Line: row.Line, MatchID: c.MatchID}
		for _, fe := range verrs {
			rej.Reasons = append(rej.Reasons, fe.Field()+" "+mv.friendlyMessage(fe))
		}
		return Match{}, rej
	}

	m := Match{
		Line:    row.Line,
		ID:      c.MatchID,
		Gender:  GenderFromID(c.MatchID),
		RawDate: strings.TrimSpace(row.Date),
		Fields:  row.Fields,
		Sides: [2]Side{
			{Name: c.Player1, Hand: strings.TrimSpace(row.Sides[0].Hand), Nation: strings.TrimSpace(row.Sides[0].Nation), Partner: c.Partner1},
			{Name: c.Player2, Hand: strings.TrimSpace(row.Sides[1].Hand), Nation: strings.TrimSpace(row.Sides[1].Nation), Partner: c.Partner2},
		},
	}
	if m.RawDate != "" {
		m.Date = ParseDate(m.RawDate)
	} else {
		m.Date = DateFromID(m.ID)
	}
	return m, nil
}

func (mv *Validator) friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be longer than %s characters", fe.Param())
	case "fullname":
		return fmt.Sprintf("%q must have at least two name tokens", fe.Value())
	case "surface":
		return fmt.Sprintf("%q must be one of: %s", fe.Value(), mv.allowed)
	case "notint":
		return fmt.Sprintf("%q must not be a number", fe.Value())
	default:
		return "is invalid"
	}
}

func isFullName(fl validator.FieldLevel) bool {
	return len(strings.Fields(fl.Field().String())) >= 2
}

// isNotInteger rejects officiating cells that hold a bare number, which
// shows up when a footer or index row leaks into the table.
func isNotInteger(fl validator.FieldLevel) bool {
	s := strings.TrimSuffix(strings.TrimSpace(fl.Field().String()), ".0")
	_, err := strconv.ParseInt(s, 10, 64)
	return err != nil
}

func (mv *Validator) isKnownSurface(fl validator.FieldLevel) bool {
	return mv.surfaces[strings.ToLower(strings.TrimSpace(fl.Field().String()))]
}
