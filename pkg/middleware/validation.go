package middleware

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/wms-platform/rf-picking-service/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator initializes the validator with custom validators
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		registerCustomValidators(validate)

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustomValidators(v)
		}
	})

	return validate
}

func registerCustomValidators(v *validator.Validate) {
	_ = v.RegisterValidation("sscc", validateSSCC)
	_ = v.RegisterValidation("handling_unit_id", validateHandlingUnitID)
	_ = v.RegisterValidation("round_name", validateRoundName)
	_ = v.RegisterValidation("location_id", validateLocationID)
	_ = v.RegisterValidation("step_code", validateStepCode)
	_ = v.RegisterValidation("process_name", validateProcessName)
	_ = v.RegisterValidation("safe_string", validateSafeString)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	if validate == nil {
		return InitValidator()
	}
	return validate
}

var (
	// SSCC labels are 18 numeric digits (extension digit + GS1 prefix + serial + check digit)
	ssccRegex         = regexp.MustCompile(`^\d{18}$`)
	handlingUnitRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-]{2,49}$`)
	roundNameRegex    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\-_]{1,49}$`)
	locationRegex     = regexp.MustCompile(`^[A-Z]{1,4}[A-Z0-9\-]{0,20}$`)
	safeStringRegex   = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.,!?@#$%&*()+=:;'"<>\/\[\]{}|\\~\x60]+$`)

	validStepCodes = map[int64]bool{5: true, 10: true, 15: true, 20: true, 30: true, 40: true, 50: true, 60: true, 90: true}

	validProcesses = map[string]bool{
		"pick":          true,
		"pick-and-pack": true,
	}
)

func validateSSCC(fl validator.FieldLevel) bool {
	return ssccRegex.MatchString(fl.Field().String())
}

func validateHandlingUnitID(fl validator.FieldLevel) bool {
	return handlingUnitRegex.MatchString(fl.Field().String())
}

func validateRoundName(fl validator.FieldLevel) bool {
	return roundNameRegex.MatchString(fl.Field().String())
}

func validateLocationID(fl validator.FieldLevel) bool {
	return locationRegex.MatchString(fl.Field().String())
}

func validateStepCode(fl validator.FieldLevel) bool {
	return validStepCodes[fl.Field().Int()]
}

func validateProcessName(fl validator.FieldLevel) bool {
	return validProcesses[fl.Field().String()]
}

func validateSafeString(fl validator.FieldLevel) bool {
	return safeStringRegex.MatchString(fl.Field().String())
}

// ValidationErrorFormatter formats validation errors into a map
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fields[e.Field()] = formatValidationError(e)
		}
	}

	return fields
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	case "sscc":
		return "must be a valid 18-digit SSCC"
	case "handling_unit_id":
		return "must be a valid handling unit identifier"
	case "round_name":
		return "must be a valid round name"
	case "location_id":
		return "must be a valid location identifier"
	case "step_code":
		return "must be a known workflow step code"
	case "process_name":
		return "must be one of: pick, pick-and-pack"
	case "safe_string":
		return "contains invalid characters"
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}

// BindAndValidate binds request body and validates it
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindJSON(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := ValidationErrorFormatter(validationErrors)
			return errors.ErrValidationWithFields("validation failed", fields)
		}
		return errors.ErrBadRequest("invalid request body: " + err.Error())
	}
	return nil
}

// ValidateStruct validates a struct using the validator
func ValidateStruct(obj interface{}) *errors.AppError {
	v := GetValidator()
	if err := v.Struct(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			fields := ValidationErrorFormatter(validationErrors)
			return errors.ErrValidationWithFields("validation failed", fields)
		}
		return errors.ErrBadRequest("validation failed: " + err.Error())
	}
	return nil
}

// ContentType middleware ensures proper content type for POST/PUT/PATCH
func ContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "POST" || c.Request.Method == "PUT" || c.Request.Method == "PATCH" {
			contentType := c.GetHeader("Content-Type")
			if contentType == "" || !strings.HasPrefix(contentType, "application/json") {
				if c.Request.ContentLength > 0 {
					AbortWithAppError(c, &errors.AppError{
						Code:       "INVALID_CONTENT_TYPE",
						Message:    "Content-Type must be application/json",
						HTTPStatus: 415,
					})
					return
				}
			}
		}
		c.Next()
	}
}
