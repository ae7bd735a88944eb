package handlers

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stwalsh4118/bma/api/internal/domain"
	apierrors "github.com/stwalsh4118/bma/api/internal/errors"
	"github.com/stwalsh4118/bma/api/internal/middleware"
)

var (
	registerOnce sync.Once

	buildingNumberRe = regexp.MustCompile(`^[1-9][0-9]+$`)
	zipCodeRe        = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
)

// RegisterValidators installs the custom binding tags and reports fields
// by their JSON names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("building_number", func(fl validator.FieldLevel) bool {
			return buildingNumberRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("zip_code", func(fl validator.FieldLevel) bool {
			return zipCodeRe.MatchString(fl.Field().String())
		})
	})
}

// bindJSON binds and validates the body, writing the error response on
// failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			apierrors.ValidationError(c, verrs)
			return false
		}
		apierrors.BadRequest(c, "Invalid request body", map[string]interface{}{"body": err.Error()})
		return false
	}
	return true
}

// principal returns the authenticated caller or writes a 401.
func principal(c *gin.Context) (domain.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication credentials were not provided")
	}
	return p, ok
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return v, true
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name, nil)
		return 0, false
	}
	return v, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return v, true
}

// parseDate parses a date already checked by the datetime binding tag.
func parseDate(s string) time.Time {
	t, _ := domain.ParseDate(s)
	return t
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := parseDate(*s)
	return &t
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(*t)
	return &s
}
