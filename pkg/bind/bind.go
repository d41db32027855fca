// Package bind decodes and validates request bodies into structs.
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/kasir/config"
	"github.com/shashiranjanraj/kasir/pkg/storage"
	"github.com/shashiranjanraj/kasir/pkg/validate"
)

var (
	// ErrBodyTooLarge is returned when a body exceeds its configured cap.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrMissingFile is returned by File when the form has no such part.
	ErrMissingFile = errors.New("file is required")

	// ErrNotImage is returned by Image for files that do not sniff as an image.
	ErrNotImage = errors.New("file must be a png, jpeg, gif or webp image")
)

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// Binder applies the configured body limits.
type Binder struct {
	maxBody   int64
	maxUpload int64
}

func New(cfg *config.Config) *Binder {
	return &Binder{maxBody: cfg.MaxBodyBytes, maxUpload: cfg.MaxUploadBytes}
}

// JSON decodes the body into dest and validates it.
// It returns (errs, nil) on validation failures and (nil, err) when the body
// is malformed or too large.
func (b *Binder) JSON(w http.ResponseWriter, r *http.Request, dest interface{}) (validate.Errors, error) {
	r.Body = http.MaxBytesReader(w, r.Body, b.maxBody)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w (max %d bytes)", ErrBodyTooLarge, maxErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return nil, errors.New("invalid JSON: empty body")
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// Form parses a multipart (or urlencoded) body, copies values into the
// `form`-tagged fields of dest and validates it.
func (b *Binder) Form(w http.ResponseWriter, r *http.Request, dest interface{}) (validate.Errors, error) {
	if err := b.parse(w, r); err != nil {
		return nil, err
	}

	if errs := decodeForm(r, dest); len(errs) > 0 {
		return errs, nil
	}
	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// Image returns the uploaded image in field. The body must already be
// parsed by Form, or it is parsed here.
func (b *Binder) Image(w http.ResponseWriter, r *http.Request, field string) (storage.Upload, error) {
	if r.MultipartForm == nil {
		if err := b.parse(w, r); err != nil {
			return storage.Upload{}, err
		}
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return storage.Upload{}, ErrMissingFile
		}
		return storage.Upload{}, fmt.Errorf("read %s: %w", field, err)
	}

	contentType, body, err := sniff(file)
	if err != nil {
		return storage.Upload{}, err
	}
	if !imageTypes[contentType] {
		file.Close()
		return storage.Upload{}, ErrNotImage
	}

	return storage.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        body,
	}, nil
}

func (b *Binder) parse(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, b.maxUpload)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(b.maxUpload)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w (max %d bytes)", ErrBodyTooLarge, maxErr.Limit)
		}
		return fmt.Errorf("invalid form: %w", err)
	}
	return nil
}

// sniff reads the first 512 bytes to detect the content type and returns a
// reader replaying them ahead of the rest of the file.
func sniff(f multipart.File) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), f), nil
}

// decodeForm fills string, integer, unsigned and bool fields from form values.
func decodeForm(r *http.Request, dest interface{}) validate.Errors {
	errs := validate.Errors{}
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errs
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("form"), ",")
		if name == "" || name == "-" {
			continue
		}
		raw, present := r.Form[name]
		if !present || len(raw) == 0 {
			continue
		}
		value := strings.TrimSpace(raw[0])
		field := rv.Field(i)

		switch field.Kind() {
		case reflect.String:
			field.SetString(value)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				errs[name] = fmt.Sprintf("The %s must be an integer.", name)
				continue
			}
			field.SetInt(n)
		case reflect.Uint, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(value, 10, 64)
			if err != nil {
				errs[name] = fmt.Sprintf("The %s must be a positive integer.", name)
				continue
			}
			field.SetUint(n)
		case reflect.Bool:
			bv, err := strconv.ParseBool(value)
			if err != nil {
				errs[name] = fmt.Sprintf("The %s field must be true or false.", name)
				continue
			}
			field.SetBool(bv)
		}
	}
	return errs
}
