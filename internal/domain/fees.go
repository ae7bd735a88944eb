package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Upper bound (exclusive) of a single parking fee amount.
const maxParkingFee = 1000.0

// DefaultFees returns the canonical lease fee document.
func DefaultFees() map[string]float64 {
	return map[string]float64{
		"damage_fee":            0,
		"break_lease_fee":       0,
		"late_payment_fee":      0,
		"pet_fee":               0,
		"cleaning_fee":          0,
		"key_replacement_fee":   0,
		"lock_change_fee":       0,
		"returned_check_fee":    0,
		"maintenance_fee":       0,
		"utility_fee":           0,
		"parking_violation_fee": 0,
	}
}

// DefaultDiscounts returns the canonical lease discount document.
func DefaultDiscounts() map[string]float64 {
	return map[string]float64{
		"early_payment_discount":   0,
		"referral_discount":        0,
		"military_discount":        0,
		"student_discount":         0,
		"senior_citizen_discount":  0,
		"long_term_lease_discount": 0,
	}
}

// DefaultParkingFees returns the canonical per-type parking fee document.
func DefaultParkingFees() map[string]float64 {
	return map[string]float64{
		"covered":   0,
		"uncovered": 0,
		"garage":    0,
	}
}

// FeeSchema validates closed-key fee documents against a default template.
type FeeSchema struct {
	field  string
	keys   []string
	closed *jsonschema.Schema
	strict *jsonschema.Schema
}

// Prebuilt schemas for the lease and parking documents.
var (
	LeaseFeesSchema      = mustFeeSchema("fees", DefaultFees())
	LeaseDiscountsSchema = mustFeeSchema("discounts", DefaultDiscounts())
	ParkingFeesSchema    = mustFeeSchema("parking_fee", DefaultParkingFees())
)

// NewFeeSchema compiles the closed-key schema for defaults. The base schema
// only constrains the key set; the strict schema also requires numeric
// amounts in [0, 1000).
func NewFeeSchema(field string, defaults map[string]float64) (*FeeSchema, error) {
	keys := sortedKeys(defaults)

	closed, err := compileFeeSchema(field+"/closed.json", keys, map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	strict, err := compileFeeSchema(field+"/strict.json", keys, map[string]interface{}{
		"type":             "number",
		"minimum":          0,
		"exclusiveMaximum": maxParkingFee,
	})
	if err != nil {
		return nil, err
	}

	return &FeeSchema{field: field, keys: keys, closed: closed, strict: strict}, nil
}

func mustFeeSchema(field string, defaults map[string]float64) *FeeSchema {
	s, err := NewFeeSchema(field, defaults)
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", field, err))
	}
	return s
}

func compileFeeSchema(url string, keys []string, valueSchema map[string]interface{}) (*jsonschema.Schema, error) {
	properties := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		properties[k] = valueSchema
	}
	doc := map[string]interface{}{
		"type":                 "object",
		"required":             keys,
		"properties":           properties,
		"additionalProperties": false,
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema %s: %w", url, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", url, err)
	}
	return compiler.Compile(url)
}

// Field returns the request field the schema guards.
func (s *FeeSchema) Field() string {
	return s.field
}

// Keys returns the sorted default key set.
func (s *FeeSchema) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Validate fails with SchemaError unless doc has exactly the default keys.
func (s *FeeSchema) Validate(doc map[string]float64) error {
	if err := s.closed.Validate(toInstance(doc)); err != nil {
		missing, unknown := s.diff(doc)
		return &SchemaError{Field: s.field, Missing: missing, Unknown: unknown}
	}
	return nil
}

// ValidateStrict applies Validate and additionally requires every amount to
// be in [0, 1000) with at most two decimal places.
func (s *FeeSchema) ValidateStrict(doc map[string]float64) error {
	if err := s.Validate(doc); err != nil {
		return err
	}

	invalid := make(map[string]string)
	if err := s.strict.Validate(toInstance(doc)); err != nil {
		for k, v := range doc {
			if v < 0 || v >= maxParkingFee {
				invalid[k] = fmt.Sprintf("must be between 0 and %.2f (exclusive)", maxParkingFee)
			}
		}
	}
	for k, v := range doc {
		if _, bad := invalid[k]; bad {
			continue
		}
		if !hasTwoDecimalPlaces(v) {
			invalid[k] = "must be an amount with at most two decimal places"
		}
	}
	if len(invalid) > 0 {
		return &SchemaError{Field: s.field, Invalid: invalid}
	}
	return nil
}

func (s *FeeSchema) diff(doc map[string]float64) (missing, unknown []string) {
	expected := make(map[string]struct{}, len(s.keys))
	for _, k := range s.keys {
		expected[k] = struct{}{}
		if _, ok := doc[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range doc {
		if _, ok := expected[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return missing, unknown
}

// ValidateFeeDocument fails with SchemaError unless the key set of doc is
// exactly the key set of defaults.
func ValidateFeeDocument(field string, doc, defaults map[string]float64) error {
	s, err := NewFeeSchema(field, defaults)
	if err != nil {
		return err
	}
	return s.Validate(doc)
}

// ValidateParkingFeeAmounts is the strict parking fee check applied to fee
// edits made by administrators.
func ValidateParkingFeeAmounts(doc map[string]float64) error {
	return ParkingFeesSchema.ValidateStrict(doc)
}

func toInstance(doc map[string]float64) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func hasTwoDecimalPlaces(v float64) bool {
	cents := v * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
