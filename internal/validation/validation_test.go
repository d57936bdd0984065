package validation

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	CategoryID  *int64  `json:"category_id" validate:"required"`
	Name        string  `json:"name" validate:"required,max=10"`
	Description *string `json:"description" validate:"omitempty"`
	Price       *int64  `json:"price" validate:"required,gte=0"`
	Status      string  `json:"status" validate:"required,oneof=draft published archived"`
	When        string  `json:"transaction_time" validate:"required,date"`
}

func int64Ptr(v int64) *int64 { return &v }

func validSample() sampleInput {
	return sampleInput{
		CategoryID: int64Ptr(1),
		Name:       "Tent",
		Price:      int64Ptr(0),
		Status:     "draft",
		When:       "2024-05-01 10:00:00",
	}
}

func firstViolation(t *testing.T, err error) *Error {
	t.Helper()
	var verr *Error
	require.True(t, errors.As(err, &verr), "expected *validation.Error, got %v", err)
	return verr
}

func TestStructAcceptsValidInput(t *testing.T) {
	assert.NoError(t, New().Struct(validSample()))
}

func TestStructReportsFirstViolation(t *testing.T) {
	v := New()

	cases := []struct {
		name    string
		mutate  func(*sampleInput)
		field   string
		message string
	}{
		{"missing category", func(in *sampleInput) { in.CategoryID = nil }, "category_id", "The category id field is required."},
		{"empty name", func(in *sampleInput) { in.Name = "" }, "name", "The name field is required."},
		{"long name", func(in *sampleInput) { in.Name = "a very long name" }, "name", "The name field must not be greater than 10 characters."},
		{"negative price", func(in *sampleInput) { in.Price = int64Ptr(-1) }, "price", "The price field must be at least 0."},
		{"unknown status", func(in *sampleInput) { in.Status = "deleted" }, "status", "The selected status is invalid."},
		{"bad date", func(in *sampleInput) { in.When = "yesterday" }, "transaction_time", "The transaction time field must be a valid date."},
		{"first of many", func(in *sampleInput) { in.Name = ""; in.Status = "" }, "name", "The name field is required."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validSample()
			tc.mutate(&in)

			verr := firstViolation(t, v.Struct(in))
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, tc.message, verr.Message)
		})
	}
}

func TestZeroPriceIsPresent(t *testing.T) {
	in := validSample()
	in.Price = int64Ptr(0)
	assert.NoError(t, New().Struct(in))
}

type stubChecker struct {
	known map[int64]bool
	err   error
}

func (s stubChecker) Exists(ctx context.Context, id int64) (bool, error) {
	return s.known[id], s.err
}

func TestExists(t *testing.T) {
	v := New()
	ctx := context.Background()
	checker := stubChecker{known: map[int64]bool{1: true}}

	assert.NoError(t, v.Exists(ctx, "category_id", 1, checker))

	verr := firstViolation(t, v.Exists(ctx, "category_id", 99, checker))
	assert.Equal(t, "The selected category id is invalid.", verr.Message)

	err := v.Exists(ctx, "category_id", 1, stubChecker{err: errors.New("connection refused")})
	require.Error(t, err)
	var target *Error
	assert.False(t, errors.As(err, &target), "lookup failures are not validation failures")
}

func TestStructExistsFollowsFieldOrder(t *testing.T) {
	v := New()
	ctx := context.Background()
	checker := stubChecker{known: map[int64]bool{1: true}}

	tests := []struct {
		name    string
		mutate  func(*sampleInput)
		field   string
		message string
	}{
		{"unknown reference before later tag failure", func(in *sampleInput) {
			in.CategoryID = int64Ptr(99)
			in.Name = ""
		}, "category_id", "The selected category id is invalid."},
		{"missing reference", func(in *sampleInput) {
			in.CategoryID = nil
			in.Name = ""
		}, "category_id", "The category id field is required."},
		{"known reference with later tag failure", func(in *sampleInput) {
			in.Status = "sold"
		}, "status", "The selected status is invalid."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSample()
			tt.mutate(&in)
			verr := firstViolation(t, v.StructExists(ctx, in, "category_id", checker))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}

	assert.NoError(t, v.StructExists(ctx, validSample(), "category_id", checker))
}

// a reference declared after the failing tag keeps the tag violation first
func TestStructExistsLaterReference(t *testing.T) {
	type orderLike struct {
		Total     *int64 `json:"total_item" validate:"required,gte=1"`
		CashierID *int64 `json:"cashier_id" validate:"required"`
	}

	v := New()
	in := orderLike{Total: int64Ptr(0), CashierID: int64Ptr(404)}
	verr := firstViolation(t, v.StructExists(context.Background(), in, "cashier_id", stubChecker{}))
	assert.Equal(t, "total_item", verr.Field)

	in.Total = int64Ptr(2)
	verr = firstViolation(t, v.StructExists(context.Background(), in, "cashier_id", stubChecker{}))
	assert.Equal(t, "The selected cashier id is invalid.", verr.Message)
}

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
)

func TestImageRule(t *testing.T) {
	v := New()
	rule := DefaultImageRule()

	assert.NoError(t, v.Image("image", "tent.png", int64(len(pngHeader)), bytes.NewReader(pngHeader), rule))
	assert.NoError(t, v.Image("image", "tent.JPG", int64(len(jpegHeader)), bytes.NewReader(jpegHeader), rule))

	verr := firstViolation(t, v.Image("image", "tent.gif", int64(len(gifHeader)), bytes.NewReader(gifHeader), rule))
	assert.Equal(t, "The image field must be a file of type: jpeg, png, jpg.", verr.Message)

	verr = firstViolation(t, v.Image("image", "tent.png", int64(len(gifHeader)), bytes.NewReader(gifHeader), rule))
	assert.Equal(t, "The image field must be a file of type: jpeg, png, jpg.", verr.Message)

	text := []byte("just some text")
	verr = firstViolation(t, v.Image("image", "notes.png", int64(len(text)), bytes.NewReader(text), rule))
	assert.Equal(t, "The image field must be an image.", verr.Message)

	verr = firstViolation(t, v.Image("image", "huge.png", 2049*1024, bytes.NewReader(pngHeader), rule))
	assert.Equal(t, "The image field must not be greater than 2048 kilobytes.", verr.Message)
}

func TestImageRewindsContent(t *testing.T) {
	reader := bytes.NewReader(pngHeader)
	require.NoError(t, New().Image("image", "a.png", int64(len(pngHeader)), reader, DefaultImageRule()))

	rest := make([]byte, len(pngHeader))
	n, _ := reader.Read(rest)
	assert.Equal(t, len(pngHeader), n)
	assert.Equal(t, pngHeader, rest)
}

func TestParseDate(t *testing.T) {
	for _, value := range []string{"2024-05-01", "2024-05-01 10:00:00", "2024-05-01T10:00:00Z", "2024-05-01T10:00:00+07:00"} {
		_, err := ParseDate(value)
		assert.NoError(t, err, value)
	}
	_, err := ParseDate("05/01/2024")
	assert.Error(t, err)
}

func TestProperty_MaxLengthBoundary(t *testing.T) {
	v := New()
	properties := gopter.NewProperties(nil)

	properties.Property("names up to the limit pass and longer names fail", prop.ForAll(
		func(name string) bool {
			in := validSample()
			in.Name = name
			err := v.Struct(in)
			if len(name) <= 10 {
				return err == nil
			}
			var verr *Error
			return errors.As(err, &verr) && verr.Field == "name"
		},
		gen.IntRange(1, 20).Map(func(n int) string { return strings.Repeat("a", n) }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
