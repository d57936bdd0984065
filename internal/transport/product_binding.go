package transport

import (
	"encoding/json"
	"mime"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"pos-inventory/internal/service"
	"pos-inventory/internal/storage"
	"pos-inventory/internal/validation"
)

const (
	// multipartMemory is how much of a multipart body is buffered in memory
	multipartMemory = 8 << 20
	// maxFormBytes caps form bodies well above the image size rule so that
	// oversized images still get a validation message
	maxFormBytes = 32 << 20
)

// productFormFields are the form keys accepted by product create and update.
// _method is tolerated for clients that spoof PUT over POST.
var productFormFields = map[string]bool{
	"category_id": true,
	"name":        true,
	"description": true,
	"price":       true,
	"stock":       true,
	"status":      true,
	"criteria":    true,
	"favorite":    true,
	"image":       true,
	"_method":     true,
}

// productJSON is a JSON product body. Files only arrive in forms, so an
// image key is tolerated when it is null.
type productJSON struct {
	service.ProductInput
	Image *json.RawMessage `json:"image"`
}

// bindProductInput reads a product body from JSON or from a form. The
// returned release func closes any uploaded file and must always be called.
func bindProductInput(w http.ResponseWriter, r *http.Request) (service.ProductInput, func(), error) {
	noop := func() {}
	var input service.ProductInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data", "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	default:
		var body productJSON
		if err := decodeJSON(w, r, &body); err != nil {
			return input, noop, err
		}
		if body.Image != nil {
			return input, noop, validation.NewError("image", validation.NotImageMessage("image"))
		}
		return body.ProductInput, noop, nil
	}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return input, noop, errMalformedBody
		}
	default:
		if err := r.ParseForm(); err != nil {
			return input, noop, errMalformedBody
		}
	}

	if err := bindProductForm(r, &input); err != nil {
		return input, noop, err
	}

	if r.MultipartForm == nil {
		return input, noop, nil
	}

	for field := range r.MultipartForm.File {
		if field != "image" {
			return input, noop, validation.NewError(field, validation.UnknownFieldMessage(field))
		}
	}

	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return input, noop, nil
	}
	if err != nil {
		return input, noop, errMalformedBody
	}

	input.Image = &storage.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}
	return input, func() { file.Close() }, nil
}

func bindProductForm(r *http.Request, input *service.ProductInput) error {
	form := r.PostForm

	keys := make([]string, 0, len(form))
	for key := range form {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !productFormFields[key] {
			return validation.NewError(key, validation.UnknownFieldMessage(key))
		}
	}

	// a text image value means the file part was not sent as a file
	if strings.TrimSpace(form.Get("image")) != "" {
		return validation.NewError("image", validation.NotImageMessage("image"))
	}

	var err error
	if input.CategoryID, err = formInteger(form.Get, "category_id"); err != nil {
		return err
	}
	input.Name = form.Get("name")
	if _, sent := form["description"]; sent {
		input.Description = service.SetString(formNullableString(form.Get("description")))
	}
	if input.Price, err = formInteger(form.Get, "price"); err != nil {
		return err
	}
	if input.Stock, err = formInteger(form.Get, "stock"); err != nil {
		return err
	}
	input.Status = form.Get("status")
	input.Criteria = form.Get("criteria")
	if input.Favorite, err = formBool(form.Get, "favorite"); err != nil {
		return err
	}

	return nil
}

// formInt parses an optional integer field. Empty means absent.
func formInt(get func(string) string, field string) (*int64, error) {
	raw := strings.TrimSpace(get(field))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, validation.NewError(field, validation.TypeMessage(field, reflect.Int64))
	}
	return &v, nil
}

func formInteger(get func(string) string, field string) (*service.Integer, error) {
	v, err := formInt(get, field)
	if v == nil || err != nil {
		return nil, err
	}
	i := service.Integer(*v)
	return &i, nil
}

// formBool accepts true, false, 1 and 0. Empty means absent.
func formBool(get func(string) string, field string) (*bool, error) {
	var v bool
	switch strings.TrimSpace(get(field)) {
	case "":
		return nil, nil
	case "1", "true":
		v = true
	case "0", "false":
		v = false
	default:
		return nil, validation.NewError(field, validation.TypeMessage(field, reflect.Bool))
	}
	return &v, nil
}

// formNullableString treats an empty form value as null
func formNullableString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, field string) (*int64, error) {
	return formInt(r.URL.Query().Get, field)
}

// queryBool parses an optional boolean query parameter
func queryBool(r *http.Request, field string) (*bool, error) {
	return formBool(r.URL.Query().Get, field)
}
