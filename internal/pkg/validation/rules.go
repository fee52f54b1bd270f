package validation

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/registrar/internal/app/models"
)

// Validation rule patterns
var (
	// MatriculePattern accepts the numeric student identifiers
	MatriculePattern = `^\d{1,20}$`

	// SchoolYearPattern accepts "2024-2025"
	SchoolYearPattern = `^(\d{4})-(\d{4})$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Matricule  *regexp.Regexp
	SchoolYear *regexp.Regexp
}{
	Matricule:  regexp.MustCompile(MatriculePattern),
	SchoolYear: regexp.MustCompile(SchoolYearPattern),
}

// IsMatricule reports whether s is a well-formed matricule
func IsMatricule(s string) bool {
	return CompiledPatterns.Matricule.MatchString(s)
}

// IsSchoolYear reports whether s names two consecutive years
func IsSchoolYear(s string) bool {
	m := CompiledPatterns.SchoolYear.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return end == start+1
}

var rules = map[string]validator.Func{
	"sex": func(fl validator.FieldLevel) bool {
		return models.Sex(fl.Field().String()).Valid()
	},
	"gradelevel": func(fl validator.FieldLevel) bool {
		return models.IsGradeLevel(fl.Field().String())
	},
	"role": func(fl validator.FieldLevel) bool {
		return models.RoleType(fl.Field().String()).Valid()
	},
	"schoolyear": func(fl validator.FieldLevel) bool {
		return IsSchoolYear(fl.Field().String())
	},
	"matricule": func(fl validator.FieldLevel) bool {
		return IsMatricule(fl.Field().String())
	},
}

// Register adds the registrar rules to v
func Register(v *validator.Validate) error {
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin adds the registrar rules to gin's binding validator
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
