package binder

import (
	"reflect"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFieldError struct {
	tag   string
	field string
	param string
	kind  reflect.Kind
}

func (e *mockFieldError) Error() string           { return "Mock Field Error" }
func (e *mockFieldError) Tag() string             { return e.tag }
func (e *mockFieldError) ActualTag() string       { return e.tag }
func (e *mockFieldError) Namespace() string       { return "" }
func (e *mockFieldError) StructNamespace() string { return "" }
func (e *mockFieldError) Field() string           { return e.field }
func (e *mockFieldError) StructField() string     { return "" }
func (e *mockFieldError) Value() interface{}      { return "" }
func (e *mockFieldError) Param() string           { return e.param }
func (e *mockFieldError) Kind() reflect.Kind {
	if e.kind == 0 {
		return reflect.String
	}
	return e.kind
}
func (e *mockFieldError) Type() reflect.Type               { return reflect.TypeOf("") }
func (e *mockFieldError) Translate(_ ut.Translator) string { return "" }

func TestFormatValidationError(t *testing.T) {
	cases := []struct {
		tag   string
		param string
		kind  reflect.Kind
		msg   string
	}{
		{gt, "0", 0, `"multi_word" must be greater than 0`},
		// String min/max
		{mx, "20", reflect.String, `"multi_word" length must be less than or equal to 20 characters`},
		{mx, "1", reflect.String, `"multi_word" length must be less than or equal to 1 character`},
		{mn, "20", reflect.String, `"multi_word" length must be greater than or equal to 20 characters`},
		{mn, "1", reflect.String, `"multi_word" length must be greater than or equal to 1 character`},
		// Numeric min/max
		{mx, "50", reflect.Int, `"multi_word" must be less than or equal to 50`},
		{mx, "100", reflect.Int64, `"multi_word" must be less than or equal to 100`},
		{mx, "1", reflect.Uint, `"multi_word" must be less than or equal to 1`},
		{mn, "1", reflect.Int, `"multi_word" must be greater than or equal to 1`},
		{mn, "0", reflect.Float64, `"multi_word" must be greater than or equal to 0`},
		// Slice min/max
		{mx, "5", reflect.Slice, `"multi_word" length must be less than or equal to 5 elements`},
		{mx, "1", reflect.Slice, `"multi_word" length must be less than or equal to 1 element`},
		{mn, "2", reflect.Slice, `"multi_word" length must be greater than or equal to 2 elements`},
		{mn, "1", reflect.Slice, `"multi_word" length must be greater than or equal to 1 element`},
		// Other
		{ne, "20", 0, `"multi_word" can't be "20"`},
		{oneof, "one two three", 0, `"multi_word" must be one of the following: "one", "two", "three"`},
		{required, "", 0, `"multi_word" is required`},
		{readingStatus, "", 0, `"multi_word" must be one of the following: "none", "reading", "done"`},
		{theme, "", 0, `"multi_word" must be one of the following: "system", "light", "dark"`},
		{"foo", "", 0, `"multi_word" failed the "foo" check`},
	}

	for _, tt := range cases {
		err := mockFieldError{tag: tt.tag, field: "multi_word", param: tt.param, kind: tt.kind}
		msg := formatValidationError(&err)
		assert.Equal(t, tt.msg, msg)
	}
}

type bookPayload struct {
	Title         string `json:"title" validate:"required,max=500"`
	CoverID       *int   `json:"cover_id,omitempty" validate:"omitempty,min=1"`
	ReadingStatus string `json:"reading_status,omitempty" validate:"reading_status"`
}

type themePayload struct {
	Theme string `json:"theme" validate:"required,theme"`
}

type notesQuery struct {
	Sort  string `query:"sort" validate:"oneof=manual created_at updated_at"`
	Limit int    `query:"limit" validate:"min=0,max=100"`
}

func TestFormatValidationError_DiaryPayloads(t *testing.T) {
	t.Parallel()

	b, err := New()
	require.NoError(t, err)

	zero := 0
	cases := []struct {
		name    string
		payload interface{}
		msg     string
	}{
		{"untitled book", &bookPayload{ReadingStatus: "reading"}, `"title" is required`},
		{"zero cover id", &bookPayload{Title: "Emma", CoverID: &zero, ReadingStatus: "none"}, `"cover_id" must be greater than or equal to 1`},
		{"unknown reading status", &bookPayload{Title: "Emma", ReadingStatus: "abandoned"}, `"reading_status" must be one of the following: "none", "reading", "done"`},
		{"unknown theme", &themePayload{Theme: "sepia"}, `"theme" must be one of the following: "system", "light", "dark"`},
		{"unknown note sort", &notesQuery{Sort: "title"}, `"sort" must be one of the following: "manual", "created_at", "updated_at"`},
		{"too many recent notes", &notesQuery{Sort: "manual", Limit: 101}, `"limit" must be less than or equal to 100`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(tt *testing.T) {
			err := b.validate.Struct(tc.payload)
			var errs validator.ValidationErrors
			require.ErrorAs(tt, err, &errs)
			assert.Equal(tt, tc.msg, formatValidationError(errs[0]))
		})
	}

	t.Run("accepts valid payloads", func(tt *testing.T) {
		assert.NoError(tt, b.validate.Struct(&bookPayload{Title: "Emma", ReadingStatus: "done"}))
		assert.NoError(tt, b.validate.Struct(&themePayload{Theme: "dark"}))
		assert.NoError(tt, b.validate.Struct(&notesQuery{Sort: "updated_at", Limit: 100}))
	})
}
