package validator

import (
	"path"
	"reflect"
	"strings"

	"github.com/SAP-F-2025/frame-player/internal/models"
	"github.com/go-playground/validator/v10"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

type frameList struct {
	Frames []models.RawFrame `json:"frames" validate:"dive"`
}

// Validator wraps a configured go-playground validator
type Validator struct {
	structValidator *validator.Validate
}

// New creates a validator with the frame player's custom rules registered
func New() *Validator {
	structValidator := validator.New()

	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// ValidateFrames validates a raw frame definition list.
// Errors are reported against paths like "frames[1].hotspots[0].w".
func (v *Validator) ValidateFrames(frames []models.RawFrame) ValidationErrors {
	list := frameList{Frames: frames}

	if err := v.structValidator.Struct(list); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return ValidationErrors{{Field: "frames", Message: err.Error()}}
	}
	return nil
}

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("image_name", validateImageName)
	validate.RegisterValidation("session_source", validateSessionSource)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// IsImageName reports whether name is a relative, slash-separated image path that
// stays inside the asset base location.
func IsImageName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return false
	}
	return imageExtensions[strings.ToLower(path.Ext(clean))]
}

func validateImageName(fl validator.FieldLevel) bool {
	return IsImageName(fl.Field().String())
}

func validateSessionSource(fl validator.FieldLevel) bool {
	validSources := []models.SessionSource{
		models.SourceDirectory,
		models.SourceZip,
		models.SourceFrameSet,
	}

	value := fl.Field().String()
	for _, validSource := range validSources {
		if string(validSource) == value {
			return true
		}
	}
	return false
}
